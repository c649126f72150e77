package nationalid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
		want      string
	}{
		{
			name:      "valid with dots and hyphen",
			input:     "12.345.678-5",
			wantValid: true,
			want:      "12345678-5",
		},
		{
			name:      "valid without separators",
			input:     "123456785",
			wantValid: true,
			want:      "12345678-5",
		},
		{
			name:      "valid lowercase k verifier",
			input:     "12345670-k",
			wantValid: true,
			want:      "12345670-K",
		},
		{
			name:      "valid zero verifier",
			input:     "12345675-0",
			wantValid: true,
			want:      "12345675-0",
		},
		{
			name:      "wrong check digit",
			input:     "12345678-4",
			wantValid: false,
		},
		{
			name:      "empty",
			input:     "   ",
			wantValid: false,
		},
		{
			name:      "too short",
			input:     "5",
			wantValid: false,
		},
		{
			name:      "non numeric body",
			input:     "ABCDEF-5",
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, result := Validate(tt.input)
			assert.Equal(t, tt.wantValid, valid)
			if tt.wantValid {
				assert.Equal(t, tt.want, result)
			} else {
				assert.NotEmpty(t, result, "invalid ids must carry a reason")
			}
		})
	}
}

func TestStrip(t *testing.T) {
	assert.Equal(t, "12345678K", Strip(" 12.345.678-k "))
	assert.Equal(t, "0", Strip("0"))
}

func TestHyphenate(t *testing.T) {
	assert.Equal(t, "12345678-5", Hyphenate("123456785"))
	assert.Equal(t, "5", Hyphenate("5"))
}
