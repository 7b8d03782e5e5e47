// Package validation checks the shape of incoming requests before they
// reach the transfer engine. Business limits live in the engine.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	appErrors "ofo/internal/errors"
	"ofo/internal/models"

	"github.com/go-playground/validator/v10"
)

type RequestValidator struct {
	v *validator.Validate
}

func New() *RequestValidator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		return IsDigits(fl.Field().String())
	})
	_ = v.RegisterValidation("phone_id", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("wallet_type", func(fl validator.FieldLevel) bool {
		return models.WalletType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("bank", func(fl validator.FieldLevel) bool {
		return models.BankType(fl.Field().String()).Valid()
	})

	return &RequestValidator{v: v}
}

// Struct validates req and returns a VALIDATION_ERROR DomainError that
// lists every failing field.
func (rv *RequestValidator) Struct(req interface{}) error {
	err := rv.v.Struct(req)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return appErrors.Validation("INVALID_REQUEST", err.Error())
	}

	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return appErrors.Validation("INVALID_REQUEST", strings.Join(msgs, ", "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.ActualTag() {
	case "required":
		return fmt.Sprintf("field %s is required", fe.Field())
	case "digits":
		return fmt.Sprintf("field %s must contain digits only", fe.Field())
	case "min":
		return fmt.Sprintf("field %s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("field %s must be at most %s characters", fe.Field(), fe.Param())
	case "gt", "gte":
		return fmt.Sprintf("field %s must be greater than %s", fe.Field(), fe.Param())
	case "phone_id":
		return fmt.Sprintf("field %s must be a valid phone number", fe.Field())
	case "wallet_type":
		return fmt.Sprintf("field %s must be CASH or POINT", fe.Field())
	case "bank":
		return fmt.Sprintf("field %s must be one of BCA, BNI, BRI, MANDIRI", fe.Field())
	case "uuid":
		return fmt.Sprintf("field %s must be a valid id", fe.Field())
	case "datetime":
		return fmt.Sprintf("field %s must be a YYYY-MM-DD date", fe.Field())
	default:
		return fmt.Sprintf("field %s is invalid", fe.Field())
	}
}
