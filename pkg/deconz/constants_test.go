package deconz

import "testing"

func TestCommandCodeFromByte_Known(t *testing.T) {
	c, ok := commandCodeFromByte(0x0A)
	if !ok || c != CommandReadParameter {
		t.Errorf("commandCodeFromByte(0x0A) = (%v, %v), want (CommandReadParameter, true)", c, ok)
	}
}

func TestCommandCodeFromByte_Unknown(t *testing.T) {
	if _, ok := commandCodeFromByte(0xFF); ok {
		t.Error("commandCodeFromByte(0xFF) should not be recognized")
	}
}

func TestParameterCode_Len(t *testing.T) {
	l, ok := ParameterMacAddress.Len()
	if !ok || l != 8 {
		t.Errorf("ParameterMacAddress.Len() = (%d, %v), want (8, true)", l, ok)
	}
}

func TestParameterCodeFromByte_Unknown(t *testing.T) {
	if _, ok := parameterCodeFromByte(0xFE); ok {
		t.Error("parameterCodeFromByte(0xFE) should not be recognized")
	}
}

func TestStatusCode_String(t *testing.T) {
	if StatusSuccess.String() != "Success" {
		t.Errorf("StatusSuccess.String() = %q, want %q", StatusSuccess.String(), "Success")
	}
}

func TestNetworkStateFromByte(t *testing.T) {
	s, ok := networkStateFromByte(0x02)
	if !ok || s != NetworkStateConnected {
		t.Errorf("networkStateFromByte(0x02) = (%v, %v), want (NetworkStateConnected, true)", s, ok)
	}
}
