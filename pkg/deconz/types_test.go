package deconz

import "testing"

func TestGroupAddress_Mode(t *testing.T) {
	a := GroupAddress{Group: 0x1234}
	if a.Mode() != DestinationGroup {
		t.Errorf("Mode() = %v, want DestinationGroup", a.Mode())
	}
	if a.String() != "Group(0x1234)" {
		t.Errorf("String() = %q, want %q", a.String(), "Group(0x1234)")
	}
}

func TestIEEEAddress_Mode(t *testing.T) {
	a := IEEEAddress{Address: 0x00124B0001234567, Endpoint: 1}
	if a.Mode() != DestinationIEEE {
		t.Errorf("Mode() = %v, want DestinationIEEE", a.Mode())
	}
}

func TestParameterValueFromWidth(t *testing.T) {
	v, ok := parameterValueFromWidth(15, 8)
	if !ok {
		t.Fatal("parameterValueFromWidth(15, 8) should succeed")
	}
	u64, ok := v.(ParameterValueU64)
	if !ok {
		t.Fatalf("parameterValueFromWidth(15, 8) = %T, want ParameterValueU64", v)
	}
	if u64.Uint64() != 15 {
		t.Errorf("value = %d, want 15", u64.Uint64())
	}
}

func TestParameterValueFromWidth_InvalidWidth(t *testing.T) {
	if _, ok := parameterValueFromWidth(1, 3); ok {
		t.Error("parameterValueFromWidth with width 3 should fail")
	}
}
