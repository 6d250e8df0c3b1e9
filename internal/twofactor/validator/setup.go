package validator

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

type SetupRequest struct {
	Password string `json:"password" validate:"required,max=1024"`
}

type SetupValidator struct {
	validate *validator.Validate
}

func NewSetupValidator() *SetupValidator {
	return &SetupValidator{validate: validator.New()}
}

// Validate returns field-level messages keyed by JSON field name.
func (v *SetupValidator) Validate(req *SetupRequest) map[string]any {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return map[string]any{"request": err.Error()}
	}

	details := make(map[string]any, len(validationErrs))
	for _, fe := range validationErrs {
		switch fe.Tag() {
		case "required":
			details["password"] = "password is required"
		case "max":
			details["password"] = fmt.Sprintf("password must be at most %s characters", fe.Param())
		default:
			details["password"] = fe.Error()
		}
	}
	return details
}
