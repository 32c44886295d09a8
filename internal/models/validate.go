package models

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/matthieukhl/orders/internal/apperr"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON keys rather than Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

func validateStruct(entity string, s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperr.Invalid(entity, "", err.Error())
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return apperr.Missing(entity, fe.Field())
	case "gte":
		return apperr.Invalid(entity, fe.Field(), "must be greater than or equal to "+fe.Param())
	case "min":
		return apperr.Invalid(entity, fe.Field(), "must be at least "+fe.Param())
	default:
		return apperr.Invalid(entity, fe.Field(), "failed the "+fe.Tag()+" rule")
	}
}
