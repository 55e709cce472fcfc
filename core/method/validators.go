package method

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/yucheyahyasukaca/pengawas-sub001/core"
)

var (
	methodIDTag  = "methodid"
	methodIDText = "{0} bukan metode pendampingan yang dikenal"
)

// InitValidators registers the `methodid` tag.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(methodIDTag, methodIDValidation)
	core.RegisterCustomTranslation(validate, translator, methodIDTag, methodIDText)
}

func methodIDValidation(fl validator.FieldLevel) bool {
	switch v := fl.Field().Interface().(type) {
	case ID:
		return v.Valid()
	case string:
		return ID(v).Valid()
	default:
		return false
	}
}
