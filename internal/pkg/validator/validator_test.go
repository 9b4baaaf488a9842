package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email   string  `json:"email" validate:"required,email"`
	Size    *string `json:"size,omitempty" validate:"omitempty,oneof=small medium large enterprise"`
	DueDate string  `json:"dueDate,omitempty" validate:"omitempty,isodate"`
}

func ptr(s string) *string { return &s }

func TestValidate(t *testing.T) {
	v := New()

	tests := []struct {
		name   string
		input  sample
		fields []string
	}{
		{"valid", sample{Email: "a@x.com", Size: ptr("small"), DueDate: "2026-01-31"}, nil},
		{"missing email", sample{}, []string{"email"}},
		{"bad enum and date", sample{Email: "a@x.com", Size: ptr("huge"), DueDate: "31/01/2026"}, []string{"size", "dueDate"}},
		{"rfc3339 date", sample{Email: "a@x.com", DueDate: "2026-01-31T10:00:00Z"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.Validate(tt.input)
			require.Len(t, errs, len(tt.fields))
			for i, f := range tt.fields {
				assert.Equal(t, f, errs[i].Field)
				assert.NotEmpty(t, errs[i].Message)
			}
		})
	}
}

func TestMessageUsesJSONName(t *testing.T) {
	errs := New().Validate(sample{Email: "nope"})
	require.Len(t, errs, 1)
	assert.Equal(t, "email must be a valid email address", errs[0].Message)
}
