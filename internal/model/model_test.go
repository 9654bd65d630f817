package model

import (
	"testing"
)

func TestSectionName(t *testing.T) {
	tests := []struct {
		bin  int
		want string
	}{
		{1, ".bin_1"},
		{7, ".bin_7"},
		{42, ".bin_42"},
	}

	for _, tt := range tests {
		if got := SectionName(tt.bin); got != tt.want {
			t.Errorf("SectionName(%d): got %q, want %q", tt.bin, got, tt.want)
		}
	}
}

func TestPlacement_Binned(t *testing.T) {
	if !(Placement{Function: "f", Bin: 3}).Binned() {
		t.Error("placement in bin 3 should be binned")
	}
	if (Placement{Function: "g", Excluded: true}).Binned() {
		t.Error("excluded placement should not be binned")
	}
}
