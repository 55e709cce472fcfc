package plan

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/yucheyahyasukaca/pengawas-sub001/core"
)

var (
	sectionIDTag  = "sectionid"
	sectionIDText = "{0} bukan bagian rencana program yang dikenal"
)

// InitValidators registers the `sectionid` tag.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(sectionIDTag, sectionIDValidation)
	core.RegisterCustomTranslation(validate, translator, sectionIDTag, sectionIDText)
}

func sectionIDValidation(fl validator.FieldLevel) bool {
	return SectionID(fl.Field().String()).Valid()
}
