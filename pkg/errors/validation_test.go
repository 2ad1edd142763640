package errors

import (
	"math"
	"testing"
)

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"positive", 24, false},
		{"small positive", 1e-9, false},
		{"zero", 0, true},
		{"negative", -1, true},
		{"NaN", math.NaN(), true},
		{"+Inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePositive("value", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePositive(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidConfig) {
				t.Errorf("ValidatePositive(%v) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidConfig)
			}
		})
	}
}

func TestValidateBand(t *testing.T) {
	tests := []struct {
		name     string
		lo, hi   float64
		positive bool
		wantErr  bool
	}{
		{"valid radius band", 0.8, 1.5, true, false},
		{"degenerate band", 1, 1, true, false},
		{"inverted", 1.5, 0.8, true, true},
		{"zero lower bound", 0, 1.5, true, true},
		{"negative lower bound", -0.5, 1.5, true, true},
		{"zero allowed when not positive", 0, 2 * math.Pi, false, false},
		{"NaN lower", math.NaN(), 1, false, true},
		{"Inf upper", 0, math.Inf(1), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBand("band", tt.lo, tt.hi, tt.positive)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBand(%v, %v) error = %v, wantErr %v", tt.lo, tt.hi, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFraction(t *testing.T) {
	for _, v := range []float64{0, 0.5, 1} {
		if err := ValidateFraction("f", v); err != nil {
			t.Errorf("ValidateFraction(%v) = %v, want nil", v, err)
		}
	}
	for _, v := range []float64{-0.1, 1.1, math.NaN()} {
		if err := ValidateFraction("f", v); err == nil {
			t.Errorf("ValidateFraction(%v) = nil, want error", v)
		}
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "out/curves.png", false},
		{"absolute", "/tmp/curves.png", false},
		{"empty", "", true},
		{"null byte", "out\x00.png", true},
		{"newline", "out\n.png", true},
		{"too long", string(make([]byte, 600)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "2bigCurves", false},
		{"dashes", "two-big-curves", false},
		{"empty", "", true},
		{"slash", "a/b", true},
		{"dot", "a.png", true},
		{"space", "a b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName("prefix", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
