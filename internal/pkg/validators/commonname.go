package validators

import (
	"regexp"

	"github.com/go-playground/validator/v10"
	nonstandard "github.com/go-playground/validator/v10/non-standard/validators"
)

// CommonNameTag is the struct tag registered for CommonNameValidation.
const CommonNameTag = "commonname"

// NotBlankTag rejects strings that are empty or whitespace only.
const NotBlankTag = "notblank"

// CommonNamePattern matches group names and metadata property names.
var CommonNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{1,255}$`)

// CommonNameValidation validates that a string field is a common name.
func CommonNameValidation(fl validator.FieldLevel) bool {
	return CommonNamePattern.MatchString(fl.Field().String())
}

// New returns a validator with the custom validations of this package registered.
func New() *validator.Validate {
	validate := validator.New()
	// registration only fails for an empty tag or nil func
	_ = validate.RegisterValidation(CommonNameTag, CommonNameValidation)
	_ = validate.RegisterValidation(NotBlankTag, nonstandard.NotBlank)
	return validate
}
