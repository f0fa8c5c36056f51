package utils

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	for _, raw := range []string{"", "0", "-1", "abc", "4.2"} {
		_, err := ParseID(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseCountAndPositive(t *testing.T) {
	n, err := ParseCount("quantity", " 0 ")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = ParseCount("quantity", "-3")
	assert.EqualError(t, err, "quantity: Ensure this value is greater than or equal to 0.")

	_, err = ParseCount("quantity", "three")
	assert.EqualError(t, err, "quantity: Enter a whole number.")

	n, err = ParsePositive("quantity", "3")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = ParsePositive("quantity", "0")
	assert.EqualError(t, err, "quantity: Ensure this value is greater than or equal to 1.")
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr string
	}{
		{"10", "10.00", ""},
		{"10.5", "10.50", ""},
		{" 599.99 ", "599.99", ""},
		{"0", "0.00", ""},
		{"10.500", "10.50", ""},
		{"", "", "This field is required."},
		{"ten", "", "Enter a number."},
		{"-1.00", "", "Ensure this value is greater than or equal to 0."},
		{"1.005", "", "Ensure that there are no more than 2 decimal places."},
		{"1000000", "", "Ensure that there are no more than 8 digits in total."},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			price, err := ParsePrice(tt.raw)
			if tt.wantErr != "" {
				var formErr *FormError
				require.True(t, errors.As(err, &formErr))
				assert.Equal(t, "price", formErr.Field)
				assert.Equal(t, tt.wantErr, formErr.Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, price.StringFixed(2))
		})
	}
}

func TestFieldErrors(t *testing.T) {
	errs := FieldErrors{}
	assert.False(t, errs.Any())

	errs.Add("name", "first")
	errs.Add("name", "second")
	assert.Equal(t, "first", errs["name"], "the first error for a field wins")

	assert.True(t, errs.Collect(&FormError{Field: "price", Message: "bad"}))
	assert.False(t, errs.Collect(errors.New("plain")))
	assert.Equal(t, "bad", errs["price"])
	assert.True(t, errs.Any())
}

type signupForm struct {
	Username  string `form:"username" binding:"required,max=150,username"`
	Email     string `form:"email" binding:"required,email"`
	Password1 string `form:"password1" binding:"required,min=8"`
	Password2 string `form:"password2" binding:"required,eqfield=Password1"`
}

func TestBindingErrors(t *testing.T) {
	require.NoError(t, RegisterValidators())

	err := binding.Validator.ValidateStruct(&signupForm{
		Username:  "bad name!",
		Email:     "not-an-email",
		Password1: "short",
		Password2: "different",
	})
	require.Error(t, err)

	errs := BindingErrors(err)
	assert.Contains(t, errs["username"], "Enter a valid username")
	assert.Equal(t, "Enter a valid email address.", errs["email"])
	assert.Equal(t, "Ensure this value has at least 8 characters.", errs["password1"])
	assert.Equal(t, "The two password fields didn't match.", errs["password2"])
}

func TestBindingErrorsRequired(t *testing.T) {
	require.NoError(t, RegisterValidators())

	errs := BindingErrors(binding.Validator.ValidateStruct(&signupForm{}))
	assert.Equal(t, "This field is required.", errs["username"])
	assert.Equal(t, "This field is required.", errs["email"])
}

func TestBindingErrorsNonValidation(t *testing.T) {
	errs := BindingErrors(errors.New("unexpected EOF"))
	assert.Equal(t, "The submitted form could not be read.", errs["form"])
	assert.Empty(t, BindingErrors(nil))
}

func TestRegisterValidators(t *testing.T) {
	require.NoError(t, RegisterValidators())
	require.NoError(t, RegisterValidators(), "repeat registration must report the first result")

	v := validator.New()
	require.NoError(t, registerValidators(v))
	assert.NoError(t, v.Var("jane.doe+1@shop", "username"))
	assert.Error(t, v.Var("jane doe", "username"))

	err := registerValidators("not a validator")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported validator engine string")
}
