package common

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks `validate` struct tags and reports the first failing
// field by its json name.
func Validate(dst interface{}) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	first := fieldErrs[0]
	switch first.Tag() {
	case "required":
		return fmt.Errorf("%s is required", first.Field())
	case "min", "max", "len":
		return fmt.Errorf("%s must satisfy %s=%s", first.Field(), first.Tag(), first.Param())
	case "oneof":
		return fmt.Errorf("%s must be one of: %s", first.Field(), first.Param())
	case "email":
		return fmt.Errorf("%s must be a valid email", first.Field())
	case "hexcolor":
		return fmt.Errorf("%s must be a hex color", first.Field())
	default:
		return fmt.Errorf("%s is invalid", first.Field())
	}
}
