package config

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validator configuration validation interface (implemented by each module)
type Validator interface {
	Validate() error
}

// ValidateAll validates several configurations, stopping at the first failure.
// ozzo-validation field errors are converted to ErrInvalidOptions with a
// "fields" map in the error data.
func ValidateAll(validators ...Validator) error {
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return ConvertValidationError(err)
		}
	}
	return nil
}

// ConvertValidationError converts ozzo-validation errors into ErrInvalidOptions
func ConvertValidationError(err error) error {
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	fields := make(map[string]string, len(fieldErrs))
	for field, fieldErr := range fieldErrs {
		if fieldErr != nil {
			fields[field] = fieldErr.Error()
		}
	}
	return ErrInvalidOptions.WithData("fields", fields).Wrap(err)
}
