package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yucheyahyasukaca/pengawas-sub001/core/assessment"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/method"
)

func completeAnswers() assessment.AnswerSet {
	as := make(assessment.AnswerSet)
	for _, q := range assessment.Questions() {
		as[q.ID] = assessment.OptionYes
	}
	return as
}

func fullDocument() Document {
	sections := make(map[SectionID]string, len(SectionIDs))
	for _, id := range SectionIDs {
		sections[id] = "<p>" + string(id) + "</p>"
	}
	return Document{
		SchoolIDs:         []string{"sch-1"},
		Answers:           completeAnswers(),
		SelectedMethodIDs: []method.ID{method.Coaching},
		Sections:          sections,
	}
}

func TestSectionLayout_partialDocument(t *testing.T) {
	doc := Document{Sections: map[SectionID]string{
		SectionLatarBelakang:   "<p>A</p>",
		SectionAnalisisSituasi: "<p>B</p>",
		SectionTujuan:          "<p>C</p>",
		SectionStrategi:        "<p><br></p>",
	}}

	assert.InDelta(t, 42.857, SectionLayout.Progress(doc), 0.001)
	assert.Equal(t, []int{1, 2, 3}, SectionLayout.CompletedSteps(doc))
	assert.Equal(t, []int{1, 2, 3, 4}, SectionLayout.AccessibleSteps(doc))
	assert.True(t, SectionLayout.IsAccessible(4, doc))
	assert.False(t, SectionLayout.IsAccessible(5, doc), "section E")
}

func TestLayout_IsAccessible(t *testing.T) {
	doc := fullDocument()
	for _, layout := range []Layout{WizardLayout, SectionLayout} {
		for _, s := range layout.Steps {
			assert.True(t, layout.IsAccessible(s.Number, doc), "%s step %d", layout.Name, s.Number)
		}
		assert.False(t, layout.IsAccessible(0, doc))
		assert.False(t, layout.IsAccessible(len(layout.Steps)+1, doc))
		assert.True(t, layout.IsAccessible(1, Document{}))
	}
}

func TestWizardLayout_noSkipAhead(t *testing.T) {
	// later steps filled but the interview is not
	doc := fullDocument()
	doc.SchoolIDs = nil

	assert.False(t, WizardLayout.IsStepComplete(1, doc))
	assert.True(t, WizardLayout.IsStepComplete(4, doc))
	for n := 2; n <= 5; n++ {
		assert.False(t, WizardLayout.IsAccessible(n, doc), "step %d", n)
	}
	assert.Equal(t, []int{1}, WizardLayout.AccessibleSteps(doc))
	assert.Equal(t, []int{2, 3, 4, 5}, WizardLayout.CompletedSteps(doc))
}

// Clearing fields one at a time: no step is ever open while an earlier one is incomplete, and
// progress only grows as fields are filled back in.
func TestLayout_gatingAndProgressProperties(t *testing.T) {
	type mutation func(*Document)
	var mutations []mutation
	for _, id := range SectionIDs {
		id := id
		mutations = append(mutations, func(d *Document) { d.Sections[id] = "&nbsp;" })
	}
	mutations = append(mutations,
		func(d *Document) { d.SchoolIDs = nil },
		func(d *Document) { delete(d.Answers, assessment.C6) },
		func(d *Document) { d.SelectedMethodIDs = []method.ID{"gone"} },
	)

	for _, layout := range []Layout{WizardLayout, SectionLayout} {
		doc := fullDocument()
		assert.Equal(t, float64(100), layout.Progress(doc))

		prev := layout.Progress(doc)
		states := []Document{doc.Clone()}
		for _, m := range mutations {
			m(&doc)
			states = append(states, doc.Clone())
			p := layout.Progress(doc)
			assert.LessOrEqual(t, p, prev, "%s: removing a field raised progress", layout.Name)
			prev = p
		}
		assert.Equal(t, float64(0), layout.Progress(doc))

		for _, st := range states {
			for _, s := range layout.Steps {
				if !layout.IsAccessible(s.Number, st) {
					continue
				}
				for before := 1; before < s.Number; before++ {
					assert.True(t, layout.IsStepComplete(before, st), "%s: step %d open with step %d incomplete", layout.Name, s.Number, before)
				}
			}
			assert.Equal(t, layout.Progress(st) == 100, len(layout.CompletedSteps(st)) == len(layout.Steps))
		}
	}
}

func TestWizardLayout_IncompleteRequired(t *testing.T) {
	doc := fullDocument()
	doc.SelectedMethodIDs = nil
	doc.Sections[SectionMonev] = ""

	missing := WizardLayout.IncompleteRequired(doc)
	if assert.Len(t, missing, 1) {
		assert.Equal(t, 4, missing[0].Number)
	}
	assert.Empty(t, WizardLayout.IncompleteRequired(fullDocument()))
	assert.Empty(t, SectionLayout.IncompleteRequired(Document{}))
}

func TestLayoutByName(t *testing.T) {
	l, ok := LayoutByName("")
	assert.True(t, ok)
	assert.Equal(t, WizardLayout.Name, l.Name)
	l, ok = LayoutByName("sections")
	assert.True(t, ok)
	assert.Len(t, l.Steps, 7)
	_, ok = LayoutByName("lol")
	assert.False(t, ok)
}
