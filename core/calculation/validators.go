package calculation

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/gradefinalboss/gradeboss/core"
)

var (
	calcKindTag  = "calckind"
	calcKindText = "unknown calculation kind"
)

// InitValidators registers the calculation validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(calcKindTag, calcKindValidation)
	core.RegisterCustomTranslation(validate, translator, calcKindTag, calcKindText)
}

func calcKindValidation(fl validator.FieldLevel) bool {
	return Kind(fl.Field().String()).IsValid()
}
