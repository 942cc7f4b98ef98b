package utils

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// IsObjectIDHex reports whether s looks like a Mongo ObjectID.
func IsObjectIDHex(s string) bool {
	return objectIDPattern.MatchString(s)
}

// RegisterValidators installs the custom binding tags used by request DTOs.
// The category check is passed in so utils does not depend on models.
func RegisterValidators(categories func(string) bool) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return IsObjectIDHex(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return categories(fl.Field().String())
	})
}
