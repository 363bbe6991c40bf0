package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string `json:"name" validate:"required,notblank"`
	Genre  string `json:"genre" validate:"required,genre"`
	Copies *int   `json:"copies" validate:"required,gte=0,lte=2147483647"`
}

func TestValidate(t *testing.T) {
	v := New()
	n := 1
	require.NoError(t, v.Validate(sample{Name: "x", Genre: "HISTORY", Copies: &n}))

	neg := -1
	err := v.Validate(sample{Name: "  ", Genre: "history", Copies: &neg})
	require.Error(t, err)

	d, ok := Describe(err)
	require.True(t, ok)
	require.Equal(t, "ValidationError", d.Name)
	require.Equal(t, "notblank", d.Errors["name"].Kind)
	require.Equal(t, "genre", d.Errors["genre"].Kind)
	require.Contains(t, d.Errors["genre"].Message, "is not a valid enum value")
	require.Equal(t, "copies must be 0 or greater", d.Errors["copies"].Message)
}

func TestValidate_CopiesUpperBound(t *testing.T) {
	v := New()
	top := 2147483647
	require.NoError(t, v.Validate(sample{Name: "x", Genre: "HISTORY", Copies: &top}))

	big := 3000000000
	d, ok := Describe(v.Validate(sample{Name: "x", Genre: "HISTORY", Copies: &big}))
	require.True(t, ok)
	require.Equal(t, "lte", d.Errors["copies"].Kind)
	require.Equal(t, "copies must be 2147483647 or less", d.Errors["copies"].Message)
}

func TestValidate_MissingPointer(t *testing.T) {
	err := New().Validate(sample{Name: "x", Genre: "FICTION"})
	d, ok := Describe(err)
	require.True(t, ok)
	require.Equal(t, "copies is required", d.Errors["copies"].Message)
}

func TestDescribe_NotValidation(t *testing.T) {
	_, ok := Describe(errors.New("boom"))
	require.False(t, ok)
}
