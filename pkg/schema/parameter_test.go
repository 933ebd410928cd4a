package schema

import (
	"testing"

	"github.com/go-deconz/deconz-sp/pkg/deconz"
)

func TestValidateWriteParameter_AcceptsInRangeValue(t *testing.T) {
	v := NewValidator()
	err := v.ValidateWriteParameter(deconz.ParameterApsDesignedCoordinator, map[string]any{"value": float64(1)}) // width 1
	if err != nil {
		t.Errorf("expected in-range value to validate, got: %v", err)
	}
}

func TestValidateWriteParameter_RejectsOutOfRangeValue(t *testing.T) {
	v := NewValidator()
	err := v.ValidateWriteParameter(deconz.ParameterApsDesignedCoordinator, map[string]any{"value": float64(256)}) // width 1, max 255
	if err == nil {
		t.Error("expected out-of-range value to fail validation")
	}
}

func TestValidateWriteParameter_RejectsMissingValue(t *testing.T) {
	v := NewValidator()
	if err := v.ValidateWriteParameter(deconz.ParameterChannelMask, map[string]any{}); err == nil {
		t.Error("expected missing value field to fail validation")
	}
}

func TestValidateWriteParameter_UnknownParameter(t *testing.T) {
	v := NewValidator()
	if err := v.ValidateWriteParameter(deconz.ParameterCode(0xFE), map[string]any{"value": float64(0)}); err == nil {
		t.Error("expected an error for a parameter with no declared width")
	}
}

func TestValidateWriteParameter_CachesCompiledSchemaPerParameter(t *testing.T) {
	v := NewValidator()
	for i := 0; i < 3; i++ {
		if err := v.ValidateWriteParameter(deconz.ParameterCurrentChannel, map[string]any{"value": float64(11)}); err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
	}
	if len(v.cache) != 1 {
		t.Errorf("cache size = %d, want 1 (one compiled schema reused across calls)", len(v.cache))
	}
}
