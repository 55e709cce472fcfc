package plan

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yucheyahyasukaca/pengawas-sub001/core"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/assessment"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/method"
)

type Status string

const (
	StatusDraft  Status = "draft"
	StatusTerbit Status = "terbit"
)

func (s Status) Valid() bool { return s == StatusDraft || s == StatusTerbit }

// SectionID identifies one of the seven narrative sections (A-G).
type SectionID string

const (
	SectionLatarBelakang     SectionID = "latar_belakang"      // A
	SectionAnalisisSituasi   SectionID = "analisis_situasi"    // B
	SectionTujuan            SectionID = "tujuan"              // C
	SectionStrategi          SectionID = "strategi"            // D
	SectionRencanaAksi       SectionID = "rencana_aksi"        // E
	SectionAlokasiSumberDaya SectionID = "alokasi_sumber_daya" // F
	SectionMonev             SectionID = "monev"               // G
)

var SectionIDs = []SectionID{
	SectionLatarBelakang,
	SectionAnalisisSituasi,
	SectionTujuan,
	SectionStrategi,
	SectionRencanaAksi,
	SectionAlokasiSumberDaya,
	SectionMonev,
}

func (id SectionID) Valid() bool {
	for _, s := range SectionIDs {
		if s == id {
			return true
		}
	}
	return false
}

// Document is a Rencana Program. Levels and strategy are never stored: they are derived from
// Answers on every read.
type Document struct {
	ID                string               `json:"id"`
	SupervisorID      string               `json:"supervisor_id"`
	Periode           string               `json:"periode"`
	Status            Status               `json:"status"`
	SchoolIDs         []string             `json:"school_ids"`
	Answers           assessment.AnswerSet `json:"answers"`
	SelectedMethodIDs []method.ID          `json:"selected_method_ids"`
	Sections          map[SectionID]string `json:"sections"`
	CreatedAt         time.Time            `json:"created_at"`             // UTC
	UpdatedAt         time.Time            `json:"updated_at"`             // UTC
	PublishedAt       *time.Time           `json:"published_at,omitempty"` // UTC
}

func (d Document) IsPublished() bool { return d.Status == StatusTerbit }

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	c := d
	if d.SchoolIDs != nil {
		c.SchoolIDs = append([]string(nil), d.SchoolIDs...)
	}
	if d.SelectedMethodIDs != nil {
		c.SelectedMethodIDs = append([]method.ID(nil), d.SelectedMethodIDs...)
	}
	c.Answers = d.Answers.Clone()
	if d.Sections != nil {
		c.Sections = make(map[SectionID]string, len(d.Sections))
		for k, v := range d.Sections {
			c.Sections[k] = v
		}
	}
	if d.PublishedAt != nil {
		t := *d.PublishedAt
		c.PublishedAt = &t
	}
	return c
}

func (d Document) Classification() assessment.Classification {
	return assessment.Classify(d.Answers)
}

func (d Document) hasMethod(id method.ID) bool {
	for _, m := range d.SelectedMethodIDs {
		if m == id {
			return true
		}
	}
	return false
}

// NewPlan contains information needed to start a plan.
type NewPlan struct {
	Periode   string               `json:"periode" validate:"required,periode"`
	SchoolIDs []string             `json:"school_ids" validate:"omitempty,dive,notblank"`
	Answers   assessment.AnswerSet `json:"answers" validate:"omitempty,answerset"`
}

func (np *NewPlan) Validate(validate *validator.Validate) error {
	np.Periode = core.CleanString(np.Periode)
	if err := validate.Struct(np); err != nil {
		return err
	}
	np.SchoolIDs = core.UniqueStrings(np.SchoolIDs)
	np.Answers = np.Answers.Clean()
	return nil
}

// UpdatePlan is the full editable content of a draft; saving it overwrites the stored draft.
type UpdatePlan struct {
	Periode           string               `json:"periode" validate:"required,periode"`
	SchoolIDs         []string             `json:"school_ids" validate:"omitempty,dive,notblank"`
	Answers           assessment.AnswerSet `json:"answers" validate:"omitempty,answerset"`
	SelectedMethodIDs []method.ID          `json:"selected_method_ids" validate:"omitempty,dive,methodid"`
	Sections          map[SectionID]string `json:"sections" validate:"omitempty,dive,keys,sectionid,endkeys,max=100000"`
}

func (up *UpdatePlan) Validate(validate *validator.Validate) error {
	up.Periode = core.CleanString(up.Periode)
	if err := validate.Struct(up); err != nil {
		return err
	}
	up.SchoolIDs = core.UniqueStrings(up.SchoolIDs)
	up.Answers = up.Answers.Clean()
	up.SelectedMethodIDs = uniqueMethods(up.SelectedMethodIDs)
	return nil
}

// StepInput carries the fields a wizard step may write. Fields the step does not own are
// ignored; nil fields are left untouched.
type StepInput struct {
	SchoolIDs         []string             `json:"school_ids" validate:"omitempty,dive,notblank"`
	Answers           assessment.AnswerSet `json:"answers" validate:"omitempty,answerset"`
	SelectedMethodIDs []method.ID          `json:"selected_method_ids" validate:"omitempty,dive,methodid"`
	Sections          map[SectionID]string `json:"sections" validate:"omitempty,dive,keys,sectionid,endkeys,max=100000"`
}

func (in *StepInput) Validate(validate *validator.Validate) error {
	if err := validate.Struct(in); err != nil {
		return err
	}
	if in.SchoolIDs != nil {
		in.SchoolIDs = core.UniqueStrings(in.SchoolIDs)
	}
	if in.Answers != nil {
		in.Answers = in.Answers.Clean()
	}
	if in.SelectedMethodIDs != nil {
		in.SelectedMethodIDs = uniqueMethods(in.SelectedMethodIDs)
	}
	return nil
}

type QueryFilter struct {
	SupervisorID string `query:"-"`
	Periode      string `query:"periode"`
	Status       Status `query:"status"`
}

func (qf *QueryFilter) Clean() {
	qf.Periode = core.CleanString(qf.Periode)
	qf.Status = Status(core.CleanString(string(qf.Status), true /* lower */))
}

func (qf QueryFilter) Match(doc Document) bool {
	if qf.SupervisorID != "" && doc.SupervisorID != qf.SupervisorID {
		return false
	}
	if qf.Periode != "" && doc.Periode != qf.Periode {
		return false
	}
	if qf.Status != "" && doc.Status != qf.Status {
		return false
	}
	return true
}

func uniqueMethods(ids []method.ID) []method.ID {
	seen := make(map[method.ID]bool, len(ids))
	out := make([]method.ID, 0, len(ids))
	for _, id := range ids {
		id = method.ID(core.CleanString(string(id), true /* lower */))
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
