package assessment

import (
	"reflect"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/yucheyahyasukaca/pengawas-sub001/core"
)

var (
	answerSetTag  = "answerset"
	answerSetText = "{0} berisi pertanyaan atau pilihan jawaban yang tidak dikenal"
)

// InitValidators registers the `answerset` tag. It rejects unknown question ids and options.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(answerSetTag, answerSetValidation)
	core.RegisterCustomTranslation(validate, translator, answerSetTag, answerSetText)
}

func answerSetValidation(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Map {
		return false
	}
	iter := field.MapRange()
	for iter.Next() {
		if !KnownQuestion(QuestionID(iter.Key().String())) {
			return false
		}
		if _, ok := NormalizeOption(iter.Value().String()); !ok {
			return false
		}
	}
	return true
}
