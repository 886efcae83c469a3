package numberutils

import (
	"testing"
)

func TestTruncateDecimals(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		places int
		want   string
	}{
		{"drops digits", 41.289999, 2, "41.28"},
		{"no rounding up", 2.159, 2, "2.15"},
		{"pads short fraction", 10.5, 2, "10.50"},
		{"integer", 7, 2, "7.00"},
		{"negative", -8.619999, 2, "-8.61"},
		{"negative zero", -0.001, 2, "0.00"},
		{"shortest repr kept", 0.1, 2, "0.10"},
		{"zero places", 12.99, 0, "12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateDecimals(tt.value, tt.places); got != tt.want {
				t.Errorf("TruncateDecimals(%v, %d) = %q, want %q", tt.value, tt.places, got, tt.want)
			}
		})
	}
}

func TestToFloatWithError(t *testing.T) {
	if v, err := ToFloatWithError(" 41.15 "); err != nil || v != 41.15 {
		t.Fatalf("ToFloatWithError() = %v, %v", v, err)
	}
	for _, in := range []string{"", "abc", "NaN", "Inf", "-Infinity"} {
		if _, err := ToFloatWithError(in); err == nil {
			t.Errorf("ToFloatWithError(%q) expected error", in)
		}
	}
}

func TestIsDigits(t *testing.T) {
	tests := map[string]bool{"123": true, "": false, "12a": false, "-1": false, "١٢": false}
	for in, want := range tests {
		if got := IsDigits(in); got != want {
			t.Errorf("IsDigits(%q) = %v, want %v", in, got, want)
		}
	}
}
