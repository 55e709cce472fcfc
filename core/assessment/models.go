package assessment

import "strings"

// QuestionID identifies one questionnaire item.
type QuestionID string

const (
	// Kesadaran Refleksi
	K1 QuestionID = "k1"
	K2 QuestionID = "k2"
	K3 QuestionID = "k3"
	K4 QuestionID = "k4"

	// Kapasitas Memimpin Perubahan
	C1 QuestionID = "c1"
	C2 QuestionID = "c2"
	C3 QuestionID = "c3"
	C4 QuestionID = "c4"
	C5 QuestionID = "c5"
	C6 QuestionID = "c6"
)

// Option is the selected answer of a question.
type Option string

const (
	OptionYes Option = "yes"
	OptionNo  Option = "no"
)

var optionAliases = map[string]Option{
	"yes":   OptionYes,
	"ya":    OptionYes,
	"true":  OptionYes,
	"no":    OptionNo,
	"tidak": OptionNo,
	"false": OptionNo,
}

// NormalizeOption maps the accepted spellings (yes/ya/true, no/tidak/false) to an Option.
func NormalizeOption(s string) (Option, bool) {
	opt, ok := optionAliases[strings.ToLower(strings.TrimSpace(s))]
	return opt, ok
}

type Group string

const (
	GroupReflection Group = "kesadaran_refleksi"
	GroupCapacity   Group = "kapasitas_memimpin_perubahan"
)

// Question describes a questionnaire item. For reflection questions Indicator is the reflection
// level a "yes" supports; for capacity questions it is the capacity tier a "yes" affirms.
type Question struct {
	ID        QuestionID `json:"id"`
	Group     Group      `json:"group"`
	Indicator string     `json:"indicator"`
	Text      string     `json:"text"`
}

var (
	ReflectionQuestions = []Question{
		{ID: K1, Group: GroupReflection, Indicator: string(Berkembang), Text: "Kepala sekolah belum dapat menyebutkan kelemahan praktik kepemimpinannya."},
		{ID: K2, Group: GroupReflection, Indicator: string(Berkembang), Text: "Kepala sekolah cenderung menganggap masalah sekolah berasal dari pihak lain."},
		{ID: K3, Group: GroupReflection, Indicator: string(Berdaya), Text: "Kepala sekolah mampu mengidentifikasi kelemahan praktiknya berdasarkan data."},
		{ID: K4, Group: GroupReflection, Indicator: string(Berdaya), Text: "Kepala sekolah secara rutin merefleksikan dampak kepemimpinannya."},
	}

	CapacityQuestions = []Question{
		{ID: C1, Group: GroupCapacity, Indicator: string(Rendah), Text: "Kepala sekolah membutuhkan arahan untuk menyusun program perubahan."},
		{ID: C2, Group: GroupCapacity, Indicator: string(Rendah), Text: "Kepala sekolah belum pernah memimpin program perubahan."},
		{ID: C3, Group: GroupCapacity, Indicator: string(Sedang), Text: "Kepala sekolah mampu menyusun program perubahan dengan pendampingan."},
		{ID: C4, Group: GroupCapacity, Indicator: string(Sedang), Text: "Kepala sekolah dapat menggerakkan sebagian warga sekolah."},
		{ID: C5, Group: GroupCapacity, Indicator: string(Tinggi), Text: "Kepala sekolah mandiri merancang dan mengevaluasi program perubahan."},
		{ID: C6, Group: GroupCapacity, Indicator: string(Tinggi), Text: "Kepala sekolah menggerakkan seluruh warga sekolah dan mitra."},
	}
)

// Questions returns every questionnaire item, reflection questions first.
func Questions() []Question {
	qs := make([]Question, 0, len(ReflectionQuestions)+len(CapacityQuestions))
	qs = append(qs, ReflectionQuestions...)
	return append(qs, CapacityQuestions...)
}

// KnownQuestion reports whether id is part of the questionnaire.
func KnownQuestion(id QuestionID) bool {
	for _, q := range Questions() {
		if q.ID == id {
			return true
		}
	}
	return false
}

// AnswerSet maps question ids to the selected option. Partial sets are valid.
type AnswerSet map[QuestionID]Option

// Clean returns a copy holding only known questions with a recognised option, normalised.
func (as AnswerSet) Clean() AnswerSet {
	clean := make(AnswerSet, len(as))
	for qid, opt := range as {
		qid = QuestionID(strings.ToLower(strings.TrimSpace(string(qid))))
		if !KnownQuestion(qid) {
			continue
		}
		if norm, ok := NormalizeOption(string(opt)); ok {
			clean[qid] = norm
		}
	}
	return clean
}

// Clone returns a shallow copy; nil stays nil.
func (as AnswerSet) Clone() AnswerSet {
	if as == nil {
		return nil
	}
	c := make(AnswerSet, len(as))
	for k, v := range as {
		c[k] = v
	}
	return c
}

// answered returns the normalised option for qid, if any.
func (as AnswerSet) answered(qid QuestionID) (Option, bool) {
	opt, ok := as[qid]
	if !ok {
		return "", false
	}
	return NormalizeOption(string(opt))
}

// Complete reports whether every question of the questionnaire has a valid answer.
func (as AnswerSet) Complete() bool {
	for _, q := range Questions() {
		if _, ok := as.answered(q.ID); !ok {
			return false
		}
	}
	return true
}
