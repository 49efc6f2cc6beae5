package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

func init() {
	// uuid_required: a uuid.UUID field that must not be the nil UUID.
	// `required` alone cannot express this; the validator does not treat
	// uuid.Nil as the array type's zero value.
	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		if id, ok := fl.Field().Interface().(uuid.UUID); ok {
			return id != uuid.Nil
		}
		return false
	})
}

// Validate checks data against its struct tags and returns the first
// failure as an error ("field 'X' failed on 'Y'"), or nil. Callers wrap
// the result in their own sentinel.
func Validate(data interface{}) error {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return err
	}
	first := errs[0]
	return fmt.Errorf("field '%s' failed on '%s'", first.StructNamespace(), first.Tag())
}
