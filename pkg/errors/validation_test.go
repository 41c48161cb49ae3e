package errors

import (
	"testing"
)

func TestValidateInputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "data/example_2.ntd", false},
		{"absolute", "/tmp/k5.graph", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 5000)), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateInputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateWorkers(t *testing.T) {
	tests := []struct {
		n       int
		wantErr bool
	}{
		{0, false},
		{1, false},
		{MaxWorkers, false},
		{-1, true},
		{MaxWorkers + 1, true},
	}

	for _, tt := range tests {
		err := ValidateWorkers(tt.n)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateWorkers(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
	}
}

func TestValidateRepetitions(t *testing.T) {
	if err := ValidateRepetitions(5); err != nil {
		t.Errorf("ValidateRepetitions(5) = %v", err)
	}
	if err := ValidateRepetitions(0); err == nil {
		t.Error("ValidateRepetitions(0) should fail")
	}
}

func TestValidateChoice(t *testing.T) {
	allowed := []string{"json", "yaml", "csv"}

	if err := ValidateChoice("format", "YAML", allowed); err != nil {
		t.Errorf("ValidateChoice(YAML) = %v", err)
	}
	err := ValidateChoice("format", "xml", allowed)
	if !Is(err, ErrCodeInvalidInput) {
		t.Errorf("ValidateChoice(xml) = %v, want INVALID_INPUT", err)
	}
}

func TestValidatePossibleEdges(t *testing.T) {
	if err := ValidatePossibleEdges(64); err != nil {
		t.Errorf("ValidatePossibleEdges(64) = %v", err)
	}
	if err := ValidatePossibleEdges(65); !Is(err, ErrCodeArithmeticRange) {
		t.Errorf("ValidatePossibleEdges(65) = %v, want ARITHMETIC_RANGE", err)
	}
}
