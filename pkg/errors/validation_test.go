package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "row-1", false},
		{"valid with dot", "users.name", false},
		{"valid unicode", "größe", false},

		{"empty", "", true},
		{"too long", strings.Repeat("k", 300), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
		{"reserved colon", "row-1:before", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidKey) {
				t.Errorf("ValidateKey(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidKey)
			}
		})
	}
}

func TestValidateUniqueKeys(t *testing.T) {
	if err := ValidateUniqueKeys([]string{"a", "b", "c"}); err != nil {
		t.Errorf("ValidateUniqueKeys() unexpected error: %v", err)
	}

	err := ValidateUniqueKeys([]string{"a", "b", "a"})
	if !Is(err, ErrCodeDuplicateKey) {
		t.Fatalf("ValidateUniqueKeys() = %v, want %v", err, ErrCodeDuplicateKey)
	}
	if !strings.Contains(UserMessage(err), `"a"`) {
		t.Errorf("UserMessage() = %q, want it to name the duplicate key", UserMessage(err))
	}
}

func TestValidateDimension(t *testing.T) {
	tests := []struct {
		name    string
		v       float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"positive", 900, false},
		{"fractional", 12.5, false},
		{"negative", -1, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDimension("width", tt.v)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDimension(%v) error = %v, wantErr %v", tt.v, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRect(t *testing.T) {
	if err := ValidateRect(-10, -20, 100, 50); err != nil {
		t.Errorf("ValidateRect() negative origin should be allowed, got %v", err)
	}
	if err := ValidateRect(0, math.NaN(), 100, 50); err == nil {
		t.Error("ValidateRect() with NaN y should fail")
	}
	if err := ValidateRect(0, 0, -1, 50); !Is(err, ErrCodeInvalidRect) {
		t.Errorf("ValidateRect() negative width code = %v, want %v", GetCode(err), ErrCodeInvalidRect)
	}
}
