package plan

import (
	"github.com/yucheyahyasukaca/pengawas-sub001/core/method"
)

// FieldKind tells how a step field is checked for completeness.
type FieldKind int

const (
	FieldSection FieldKind = iota // narrative rich text
	FieldAnswers                  // full assessment questionnaire
	FieldSchools                  // at least one target school
	FieldMethods                  // at least one catalog method
)

type Field struct {
	Kind    FieldKind
	Section SectionID // FieldSection only
}

func sectionField(id SectionID) Field { return Field{Kind: FieldSection, Section: id} }

func (f Field) filled(doc Document) bool {
	switch f.Kind {
	case FieldSection:
		return !IsBlankRichText(doc.Sections[f.Section])
	case FieldAnswers:
		return doc.Answers.Complete()
	case FieldSchools:
		for _, id := range doc.SchoolIDs {
			if id != "" {
				return true
			}
		}
		return false
	case FieldMethods:
		for _, id := range doc.SelectedMethodIDs {
			if _, ok := method.Get(id); ok {
				return true
			}
		}
		return false
	default:
		return false
	}
}

type Step struct {
	Number             int     `json:"number"`
	Key                string  `json:"key"`
	Title              string  `json:"title"`
	Fields             []Field `json:"-"`
	RequiredForPublish bool    `json:"required_for_publish"`
}

func (s Step) owns(kind FieldKind, section SectionID) bool {
	for _, f := range s.Fields {
		if f.Kind == kind && (kind != FieldSection || f.Section == section) {
			return true
		}
	}
	return false
}

// Layout is an ordered set of steps sharing one gating rule: step n is open only when every
// step before it is complete.
type Layout struct {
	Name  string
	Steps []Step
}

var (
	WizardLayout = Layout{
		Name: "wizard",
		Steps: []Step{
			{Number: 1, Key: "wawancara", Title: "Wawancara", RequiredForPublish: true,
				Fields: []Field{{Kind: FieldSchools}, {Kind: FieldAnswers}}},
			{Number: 2, Key: "analisis", Title: "Analisis", RequiredForPublish: true,
				Fields: []Field{sectionField(SectionLatarBelakang), sectionField(SectionAnalisisSituasi)}},
			{Number: 3, Key: "strategi", Title: "Strategi", RequiredForPublish: true,
				Fields: []Field{sectionField(SectionTujuan), sectionField(SectionStrategi)}},
			{Number: 4, Key: "metode", Title: "Metode", RequiredForPublish: true,
				Fields: []Field{{Kind: FieldMethods}}},
			{Number: 5, Key: "dokumen", Title: "Dokumen",
				Fields: []Field{
					sectionField(SectionRencanaAksi),
					sectionField(SectionAlokasiSumberDaya),
					sectionField(SectionMonev),
				}},
		},
	}

	SectionLayout = Layout{
		Name: "sections",
		Steps: []Step{
			{Number: 1, Key: "A", Title: "Latar Belakang", Fields: []Field{sectionField(SectionLatarBelakang)}},
			{Number: 2, Key: "B", Title: "Analisis Situasi", Fields: []Field{sectionField(SectionAnalisisSituasi)}},
			{Number: 3, Key: "C", Title: "Tujuan", Fields: []Field{sectionField(SectionTujuan)}},
			{Number: 4, Key: "D", Title: "Strategi dan Program Kerja", Fields: []Field{sectionField(SectionStrategi)}},
			{Number: 5, Key: "E", Title: "Rencana Aksi", Fields: []Field{sectionField(SectionRencanaAksi)}},
			{Number: 6, Key: "F", Title: "Alokasi Sumber Daya", Fields: []Field{sectionField(SectionAlokasiSumberDaya)}},
			{Number: 7, Key: "G", Title: "Monitoring dan Evaluasi", Fields: []Field{sectionField(SectionMonev)}},
		},
	}
)

// LayoutByName returns the layout called name; "" is the wizard.
func LayoutByName(name string) (Layout, bool) {
	switch name {
	case "", WizardLayout.Name:
		return WizardLayout, true
	case SectionLayout.Name:
		return SectionLayout, true
	default:
		return Layout{}, false
	}
}

// Step returns step number n (1-based).
func (l Layout) Step(n int) (Step, bool) {
	if n < 1 || n > len(l.Steps) {
		return Step{}, false
	}
	return l.Steps[n-1], true
}

// IsStepComplete reports whether every field of step n is filled. Unknown steps are incomplete.
func (l Layout) IsStepComplete(n int, doc Document) bool {
	step, ok := l.Step(n)
	if !ok {
		return false
	}
	for _, f := range step.Fields {
		if !f.filled(doc) {
			return false
		}
	}
	return true
}

// IsAccessible reports whether step n may be opened: step 1 always, step n>1 only when
// steps 1..n-1 are all complete.
func (l Layout) IsAccessible(n int, doc Document) bool {
	if _, ok := l.Step(n); !ok {
		return false
	}
	for i := 1; i < n; i++ {
		if !l.IsStepComplete(i, doc) {
			return false
		}
	}
	return true
}

func (l Layout) AccessibleSteps(doc Document) []int {
	steps := make([]int, 0, len(l.Steps))
	for _, s := range l.Steps {
		if !l.IsAccessible(s.Number, doc) {
			break
		}
		steps = append(steps, s.Number)
	}
	return steps
}

func (l Layout) CompletedSteps(doc Document) []int {
	steps := make([]int, 0, len(l.Steps))
	for _, s := range l.Steps {
		if l.IsStepComplete(s.Number, doc) {
			steps = append(steps, s.Number)
		}
	}
	return steps
}

// Progress is completed steps / total steps * 100. It is always computed, never stored.
func (l Layout) Progress(doc Document) float64 {
	if len(l.Steps) == 0 {
		return 0
	}
	return float64(len(l.CompletedSteps(doc))) / float64(len(l.Steps)) * 100
}

// IncompleteRequired returns the publish-required steps that are not complete.
func (l Layout) IncompleteRequired(doc Document) []Step {
	var steps []Step
	for _, s := range l.Steps {
		if s.RequiredForPublish && !l.IsStepComplete(s.Number, doc) {
			steps = append(steps, s)
		}
	}
	return steps
}
