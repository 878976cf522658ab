package admin

import "testing"

func TestValidAccessCode(t *testing.T) {
	tests := []struct {
		name string
		code string
		want bool
	}{
		{"six digits", "123456", true},
		{"all zeros", "000000", true},
		{"too short", "12345", false},
		{"too long", "1234567", false},
		{"empty", "", false},
		{"letters", "12a456", false},
		{"spaces", "123 56", false},
		{"unicode digits rejected", "１２３４５６", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validAccessCode(tt.code); got != tt.want {
				t.Errorf("validAccessCode(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}
