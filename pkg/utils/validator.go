package utils

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

type Validator struct {
	validate *validator.Validate
}

var phonePattern = regexp.MustCompile(`^0\d{9}$`)

func NewValidator() *Validator {
	v := validator.New()

	v.RegisterValidation("vn_phone", validatePhoneNumber)
	v.RegisterValidation("supported_image", validateImageType)

	return &Validator{validate: v}
}

func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

// Vietnamese mobile numbers: ten digits starting with 0.
func validatePhoneNumber(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}

func validateImageType(fl validator.FieldLevel) bool {
	mimeType := fl.Field().String()
	supportedTypes := map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	}
	return supportedTypes[mimeType]
}
