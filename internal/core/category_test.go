package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Category
		wantErr bool
	}{
		{name: "canonical upper case", input: "GROCERIES", want: CategoryGroceries},
		{name: "lower case", input: "groceries", want: CategoryGroceries},
		{name: "mixed case", input: "LeIsUrE", want: CategoryLeisure},
		{name: "surrounding whitespace", input: "  health ", want: CategoryHealth},
		{name: "others", input: "others", want: CategoryOthers},
		{name: "unknown", input: "food", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCategory(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidCategory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCategoryErrorListsValidValues(t *testing.T) {
	_, err := ParseCategory("food")
	require.Error(t, err)

	for _, c := range Categories() {
		assert.Contains(t, err.Error(), string(c))
	}
}

func TestCategoryValidate(t *testing.T) {
	for _, c := range Categories() {
		assert.NoError(t, c.Validate())
	}
	assert.Error(t, Category("SNACKS").Validate())
}
