package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRegisterRequest(t *testing.T) {
	details, ok := Validate(RegisterRequest{Email: "nope", Password: "a", ConfirmPassword: "b"})
	require.False(t, ok)
	assert.Equal(t, "email", details["email"])
	assert.Equal(t, "eqfield=Password", details["confirm_password"])
	assert.Equal(t, "required", details["name"])

	_, ok = Validate(RegisterRequest{Email: "a@example.com", Password: "x", ConfirmPassword: "x", Name: "A"})
	assert.True(t, ok)
}

func TestProductFormToProduct(t *testing.T) {
	form := ProductForm{
		Title: "Vase", SKU: "V1", Artisan: "Asha",
		ListPrice: "120.50", Price: "100", Price50: "90", Price100: "80",
		CategoryID: 1, CoverTypeID: 2,
	}
	_, ok := Validate(form)
	require.True(t, ok)

	product, err := form.ToProduct()
	require.NoError(t, err)
	assert.Equal(t, "120.5", product.ListPrice.String())
	assert.Equal(t, int64(2), product.CoverTypeID)

	form.Price = "abc"
	details, ok := Validate(form)
	require.False(t, ok)
	assert.Equal(t, "numeric", details["price"])
}
