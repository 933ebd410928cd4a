package deconz

import (
	"bytes"
	"testing"
)

func TestSlipStuff_EscapesEndAndEsc(t *testing.T) {
	in := []byte{0x01, slipEnd, 0x02, slipEsc, 0x03}
	got := slipStuff(in)
	want := []byte{0x01, slipEsc, slipEscEnd, 0x02, slipEsc, slipEscEsc, 0x03}
	if !bytes.Equal(got, want) {
		t.Errorf("slipStuff(%v) = %v, want %v", in, got, want)
	}
}

func TestSlipStuff_NoSpecialBytesUnchanged(t *testing.T) {
	in := []byte{0x10, 0x20, 0x30}
	got := slipStuff(in)
	if !bytes.Equal(got, in) {
		t.Errorf("slipStuff(%v) = %v, want unchanged", in, got)
	}
}

func TestSlipUnstuff_RoundTrip(t *testing.T) {
	in := []byte{0x01, slipEnd, 0x02, slipEsc, 0x03, 0x00, 0xFF}
	stuffed := slipStuff(in)
	got, err := slipUnstuff(stuffed)
	if err != nil {
		t.Fatalf("slipUnstuff returned error: %v", err)
	}
	if !bytes.Equal(got, in) {
		t.Errorf("round trip = %v, want %v", got, in)
	}
}

func TestSlipUnstuff_InvalidEscapeSequence(t *testing.T) {
	_, err := slipUnstuff([]byte{slipEsc, 0x01})
	if err == nil {
		t.Fatal("expected error for invalid escape sequence")
	}
}

func TestSlipUnstuff_TruncatedEscape(t *testing.T) {
	_, err := slipUnstuff([]byte{0x01, slipEsc})
	if err == nil {
		t.Fatal("expected error for truncated escape sequence")
	}
}
