package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Query  string   `json:"q" validate:"max=10"`
	SortBy string   `json:"sort_by" validate:"sort_field"`
	Types  []string `json:"type" validate:"omitempty,max=3,dive,resource_type"`
	Page   int      `json:"page" validate:"omitempty,min=1"`
	Name   string   `json:"name" validate:"required"`
}

func TestValidate(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		input   sample
		field   string
		message string
	}{
		{"valid", sample{Name: "x", SortBy: "title", Types: []string{"video", "ALL"}}, "", ""},
		{"empty sort is allowed", sample{Name: "x"}, "", ""},
		{"required", sample{}, "name", "name is required"},
		{"string max", sample{Name: "x", Query: "abcdefghijk"}, "q", "q must be at most 10 characters"},
		{"number min", sample{Name: "x", Page: -1}, "page", "page must be at least 1"},
		{"unknown sort", sample{Name: "x", SortBy: "views"}, "sort_by", "sort_by must be one of: relevance recent accessed type title"},
		{"unknown type", sample{Name: "x", Types: []string{"article"}}, "type[0]", "type[0] must be one of: video titulo podcast all"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field)
			assert.Equal(t, tt.message, verrs[0].Message)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}
