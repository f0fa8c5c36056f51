package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// formErrorKey holds errors that belong to the whole form rather than one field
const formErrorKey = "form"

// MaxPrice is the exclusive upper bound of a product price (8 digits, 2 decimals)
var MaxPrice = decimal.NewFromInt(1_000_000)

// FieldErrors maps a form field name to its error message
type FieldErrors map[string]string

// Add records msg for field unless the field already has an error
func (e FieldErrors) Add(field, msg string) {
	if _, exists := e[field]; !exists {
		e[field] = msg
	}
}

// AddForm records an error for the whole form
func (e FieldErrors) AddForm(msg string) {
	e.Add(formErrorKey, msg)
}

// Any reports whether any error was recorded
func (e FieldErrors) Any() bool {
	return len(e) > 0
}

// FormError represents a rejected form value
type FormError struct {
	Field   string
	Message string
}

func (e *FormError) Error() string {
	return e.Field + ": " + e.Message
}

// BindingErrors converts a Gin binding error into per-field messages
func BindingErrors(err error) FieldErrors {
	errs := FieldErrors{}
	if err == nil {
		return errs
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		errs.AddForm("The submitted form could not be read.")
		return errs
	}

	for _, fe := range validationErrs {
		errs.Add(fe.Field(), fieldMessage(fe))
	}
	return errs
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "eqfield":
		return "The two password fields didn't match."
	case "number":
		return "Enter a whole number."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	default:
		return "Enter a valid value."
	}
}

// ParseID parses a positive numeric identifier from a path or form value
func ParseID(raw string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || n == 0 {
		return 0, &FormError{Field: "id", Message: "Select a valid choice."}
	}
	return uint(n), nil
}

// ParseCount parses a non-negative integer form value
func ParseCount(field, raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &FormError{Field: field, Message: "Enter a whole number."}
	}
	if n < 0 {
		return 0, &FormError{Field: field, Message: "Ensure this value is greater than or equal to 0."}
	}
	return n, nil
}

// ParsePositive parses an integer form value that must be at least 1
func ParsePositive(field, raw string) (int, error) {
	n, err := ParseCount(field, raw)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, &FormError{Field: field, Message: "Ensure this value is greater than or equal to 1."}
	}
	return n, nil
}

// ParsePrice parses a non-negative price with at most two decimal places
func ParsePrice(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, &FormError{Field: "price", Message: "This field is required."}
	}

	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, &FormError{Field: "price", Message: "Enter a number."}
	}
	if price.IsNegative() {
		return decimal.Zero, &FormError{Field: "price", Message: "Ensure this value is greater than or equal to 0."}
	}
	if !price.Equal(price.Round(2)) {
		return decimal.Zero, &FormError{Field: "price", Message: "Ensure that there are no more than 2 decimal places."}
	}
	if price.GreaterThanOrEqual(MaxPrice) {
		return decimal.Zero, &FormError{Field: "price", Message: "Ensure that there are no more than 8 digits in total."}
	}
	return price.Round(2), nil
}

// Collect records err in errs when it is a FormError, and reports whether it was
func (e FieldErrors) Collect(err error) bool {
	var formErr *FormError
	if errors.As(err, &formErr) {
		e.Add(formErr.Field, formErr.Message)
		return true
	}
	return false
}
