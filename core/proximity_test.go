package core

import (
	"math"
	"testing"
)

func TestShiftedReciprocal(t *testing.T) {
	tests := []struct {
		name     string
		in, want float64
	}{
		{"zero distance", 0, 1},
		{"unit distance", 1, 0.5},
		{"large distance", 7, 0.125},
		{"infinite distance", math.Inf(1), 0},
	}
	for _, tt := range tests {
		if got := ShiftedReciprocal(tt.in); got != tt.want {
			t.Errorf("%s: ShiftedReciprocal(%v) = %v, want %v", tt.name, tt.in, got, tt.want)
		}
	}

	// NaN passes through so upstream data problems stay visible.
	if got := ShiftedReciprocal(math.NaN()); !math.IsNaN(got) {
		t.Errorf("ShiftedReciprocal(NaN) = %v, want NaN", got)
	}
}

func TestDivOr(t *testing.T) {
	if got := DivOr(6, 3, 1); got != 2 {
		t.Errorf("DivOr(6, 3, 1) = %v, want 2", got)
	}
	if got := DivOr(0, 0, 1); got != 1 {
		t.Errorf("DivOr(0, 0, 1) = %v, want the fallback 1", got)
	}
	if got := DivOr(0, 5, 1); got != 0 {
		t.Errorf("DivOr(0, 5, 1) = %v, want 0", got)
	}
	if got := DivOr(5, 0, 1); !math.IsInf(got, 1) {
		t.Errorf("DivOr(5, 0, 1) = %v, want +Inf", got)
	}
	if got := DivOr(math.NaN(), 3, 1); !math.IsNaN(got) {
		t.Errorf("DivOr(NaN, 3, 1) = %v, want NaN", got)
	}
}
