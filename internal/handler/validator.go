package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validator adapts go-playground/validator to Echo's Validator
// interface so handlers can call c.Validate on bound request bodies.
type Validator struct {
	v *validator.Validate
}

// NewValidator builds the validator used across all handlers.
func NewValidator() *Validator {
	return &Validator{v: validator.New()}
}

// Validate implements echo.Validator.  Tag failures come back as a 400
// with a generic message; field-level detail stays server-side.
func (cv *Validator) Validate(i interface{}) error {
	if err := cv.v.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return nil
}
