package errors

import (
	"strings"
	"testing"
)

func TestValidateCategoryName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode Code
	}{
		{"valid simple", "Fruits", ""},
		{"valid underscore", "Banana_Cultivars", ""},
		{"valid unicode", "Früchte", ""},
		{"valid quote", "O'Reilly_books", ""},
		{"max length", strings.Repeat("a", MaxTitleLength), ""},

		{"empty", "", ErrCodeMissingCategory},
		{"too long", strings.Repeat("a", MaxTitleLength+1), ErrCodeMalformedParameter},
		{"null byte", "foo\x00bar", ErrCodeMalformedParameter},
		{"newline", "foo\nbar", ErrCodeMalformedParameter},
		{"invalid utf8", "foo\xffbar", ErrCodeMalformedParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCategoryName(tt.input)
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("ValidateCategoryName(%q) error = %v, want nil", tt.input, err)
				}
				return
			}
			if !Is(err, tt.wantCode) {
				t.Errorf("ValidateCategoryName(%q) error = %v, want code %s", tt.input, err, tt.wantCode)
			}
		})
	}
}

func TestValidateDSN(t *testing.T) {
	schemes := []string{"memory", "sqlite", "postgres"}
	tests := []struct {
		dsn     string
		wantErr bool
	}{
		{"memory:fixtures/wiki.toml", false},
		{"sqlite:wiki.db", false},
		{"postgres://localhost/wiki", false},
		{"", true},
		{"mysql://localhost/wiki", true},
		{"memoryfoo", true},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			err := ValidateDSN(tt.dsn, schemes)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDSN(%q) error = %v, wantErr %v", tt.dsn, err, tt.wantErr)
			}
		})
	}
}
