package method

// ID identifies a Metode Pendampingan. The set is closed.
type ID string

const (
	Training     ID = "training"
	Mentoring    ID = "mentoring"
	Coaching     ID = "coaching"
	Facilitating ID = "facilitating"
	Consulting   ID = "consulting"
)

// IDs lists every method ID in catalog order.
var IDs = []ID{Training, Mentoring, Coaching, Facilitating, Consulting}

func (id ID) Valid() bool {
	for _, known := range IDs {
		if id == known {
			return true
		}
	}
	return false
}

// Method is an immutable catalog entry.
type Method struct {
	ID                  ID       `json:"id" yaml:"id"`
	Title               string   `json:"title" yaml:"title"`
	Scope               string   `json:"lingkup" yaml:"lingkup"`
	Purpose             string   `json:"tujuan" yaml:"tujuan"`
	Audience            []string `json:"dibutuhkan_oleh" yaml:"dibutuhkan_oleh"`
	SuitabilityCriteria []string `json:"kriteria" yaml:"kriteria"`
	ExpectedOutputs     []string `json:"luaran" yaml:"luaran"`
}

// clone returns a copy that shares no slices with m.
func (m Method) clone() Method {
	m.Audience = append([]string(nil), m.Audience...)
	m.SuitabilityCriteria = append([]string(nil), m.SuitabilityCriteria...)
	m.ExpectedOutputs = append([]string(nil), m.ExpectedOutputs...)
	return m
}
