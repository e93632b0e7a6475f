package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/panelmap/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("filename", func(fl validator.FieldLevel) bool {
		return errors.ValidateFilename(fl.Field().String()) == nil
	})
	return v
}

// Validate checks every section against its constraints and reports the
// first violation.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, formatValidationError(err), "invalid config")
	}
	return nil
}

func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrs) == 0 {
		return err
	}

	e := validationErrs[0]
	field := e.Namespace()
	switch e.Tag() {
	case "required", "required_if":
		return fmt.Errorf("%s: field is required", field)
	case "min":
		return fmt.Errorf("%s: must have at least %s entries", field, e.Param())
	case "gt":
		return fmt.Errorf("%s: must be greater than %s", field, e.Param())
	case "gte":
		return fmt.Errorf("%s: must be at least %s", field, e.Param())
	case "lte":
		return fmt.Errorf("%s: must not exceed %s", field, e.Param())
	case "oneof":
		return fmt.Errorf("%s: %v is not one of [%s]", field, e.Value(), e.Param())
	case "filename":
		return fmt.Errorf("%s: %q must be a plain file name", field, e.Value())
	case "hexcolor":
		return fmt.Errorf("%s: %v is not a hex color", field, e.Value())
	default:
		return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
	}
}
