package stringutils

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"São Paulo", "sao paulo"},
		{"  Zürich ", "zurich"},
		{"KRAKÓW", "krakow"},
		{"ﬁnland", "finland"},
		{"Porto", "porto"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsBlank(t *testing.T) {
	if !IsBlank(" \t\n") {
		t.Error("expected whitespace to be blank")
	}
	if IsBlank(" a ") {
		t.Error("expected text not to be blank")
	}
}
