package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hackgods/medicare-hms/internal/doctor"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("specialty", func(fl validator.FieldLevel) bool {
		return doctor.ValidSpecialty(strings.TrimSpace(fl.Field().String()))
	})

	return v
}

// validationMessage turns the first failed rule into a sentence.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}

	fe := verrs[0]
	field := fe.Field()
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "uuid":
		return field + " must be a valid UUID"
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", field, fe.Param(), unit)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", field, fe.Param(), unit)
	case "datetime":
		if fe.Param() == "15:04" {
			return field + " must be HH:MM in 24-hour format"
		}
		return field + " must be a calendar date in YYYY-MM-DD format"
	case "specialty":
		return field + " must be one of " + strings.Join(doctor.Specialties, ", ")
	default:
		return field + " is invalid"
	}
}
