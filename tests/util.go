package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/yucheyahyasukaca/pengawas-sub001/core"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/assessment"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/method"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/plan"
)

var Supervisor = core.Supervisor{ID: "sup-1", Name: "Budi Santoso", Email: "budi@pengawas.test"}

// NewValidator returns a validator with every domain tag registered.
func NewValidator() *validator.Validate {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	assessment.InitValidators(validate, translator)
	method.InitValidators(validate, translator)
	plan.InitValidators(validate, translator)
	return validate
}

// UtamaAnswers is a complete answer set classified Berkembang / Rendah (Prioritas Utama).
func UtamaAnswers() assessment.AnswerSet {
	return assessment.AnswerSet{
		assessment.K1: assessment.OptionYes, assessment.K2: assessment.OptionYes,
		assessment.K3: assessment.OptionNo, assessment.K4: assessment.OptionNo,
		assessment.C1: assessment.OptionYes, assessment.C2: assessment.OptionYes,
		assessment.C3: assessment.OptionNo, assessment.C4: assessment.OptionNo,
		assessment.C5: assessment.OptionNo, assessment.C6: assessment.OptionNo,
	}
}

// MenengahAnswers is a complete answer set classified Berdaya / Rendah (Prioritas Menengah).
func MenengahAnswers() assessment.AnswerSet {
	as := UtamaAnswers()
	as[assessment.K1], as[assessment.K2] = assessment.OptionNo, assessment.OptionNo
	as[assessment.K3], as[assessment.K4] = assessment.OptionYes, assessment.OptionYes
	return as
}

// AkhirAnswers is a complete answer set classified Berdaya / Tinggi (Prioritas Akhir).
func AkhirAnswers() assessment.AnswerSet {
	as := MenengahAnswers()
	as[assessment.C5] = assessment.OptionYes
	return as
}

// CompleteSections fills every narrative section.
func CompleteSections() map[plan.SectionID]string {
	sections := make(map[plan.SectionID]string, len(plan.SectionIDs))
	for _, id := range plan.SectionIDs {
		sections[id] = "<p>Isi " + string(id) + "</p>"
	}
	return sections
}

// CreatePlan stores a draft for sup built from answers, methods and sections.
func CreatePlan(
	t *testing.T,
	repo plan.Repository,
	sup core.Supervisor,
	periode string,
	schoolIDs []string,
	answers assessment.AnswerSet,
	methods []method.ID,
	sections map[plan.SectionID]string,
	createdAt ...time.Time,
) plan.Document {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	doc := plan.Document{
		ID:                uuid.New().String(),
		SupervisorID:      sup.ID,
		Periode:           periode,
		Status:            plan.StatusDraft,
		SchoolIDs:         schoolIDs,
		Answers:           answers,
		SelectedMethodIDs: methods,
		Sections:          sections,
		CreatedAt:         tstamp,
		UpdatedAt:         tstamp,
	}
	doc, err := repo.SavePlan(context.Background(), doc)
	if err != nil {
		t.Fatalf("createPlan() failed: %v", err)
	}
	return doc
}
