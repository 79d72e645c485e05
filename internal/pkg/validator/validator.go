package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate returns field->tag violations, or nil when the struct is valid.
func Validate(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	out := make(map[string]string)
	for _, fe := range err.(validator.ValidationErrors) {
		out[fe.Field()] = fe.Tag()
	}
	return out
}
