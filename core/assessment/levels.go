package assessment

// ReflectionLevel is the Kesadaran Refleksi level.
type ReflectionLevel string

const (
	ReflectionUndetermined ReflectionLevel = "undetermined"
	Berkembang             ReflectionLevel = "berkembang"
	Berdaya                ReflectionLevel = "berdaya"
)

func (l ReflectionLevel) Determined() bool { return l == Berkembang || l == Berdaya }

func (l ReflectionLevel) Label() string {
	switch l {
	case Berkembang:
		return "Berkembang"
	case Berdaya:
		return "Berdaya"
	default:
		return "Belum ditentukan"
	}
}

// CapacityLevel is the Kapasitas Memimpin Perubahan level.
type CapacityLevel string

const (
	CapacityUndetermined CapacityLevel = "undetermined"
	Rendah               CapacityLevel = "rendah"
	Sedang               CapacityLevel = "sedang"
	Tinggi               CapacityLevel = "tinggi"
)

func (l CapacityLevel) Determined() bool { return l.tier() > 0 }

func (l CapacityLevel) Label() string {
	switch l {
	case Rendah:
		return "Rendah"
	case Sedang:
		return "Sedang"
	case Tinggi:
		return "Tinggi"
	default:
		return "Belum ditentukan"
	}
}

func (l CapacityLevel) tier() int {
	switch l {
	case Rendah:
		return 1
	case Sedang:
		return 2
	case Tinggi:
		return 3
	default:
		return 0
	}
}

type Levels struct {
	Reflection ReflectionLevel `json:"reflection_level"`
	Capacity   CapacityLevel   `json:"capacity_level"`
}

// CalculateLevels derives both levels from answers. Unknown questions and unrecognised options
// are ignored; it never fails.
func CalculateLevels(answers AnswerSet) Levels {
	return Levels{
		Reflection: reflectionLevel(answers),
		Capacity:   capacityLevel(answers),
	}
}

// reflectionLevel needs all four reflection questions answered. Each "yes" counts towards the
// level its question indicates; ties go to Berdaya.
func reflectionLevel(answers AnswerSet) ReflectionLevel {
	var answered, developing, empowered int
	for _, q := range ReflectionQuestions {
		opt, ok := answers.answered(q.ID)
		if !ok {
			continue
		}
		answered++
		if opt != OptionYes {
			continue
		}
		if ReflectionLevel(q.Indicator) == Berkembang {
			developing++
		} else {
			empowered++
		}
	}
	if answered < len(ReflectionQuestions) {
		return ReflectionUndetermined
	}
	return reflectionTieBreak(developing, empowered)
}

// reflectionTieBreak: empowered >= developing resolves to Berdaya.
func reflectionTieBreak(developing, empowered int) ReflectionLevel {
	if empowered >= developing {
		return Berdaya
	}
	return Berkembang
}

// capacityLevel is the highest tier with an affirmed indicator. When nothing is affirmed the
// level stays undetermined until all six questions are answered, then floors at Rendah.
func capacityLevel(answers AnswerSet) CapacityLevel {
	var answered int
	best := CapacityUndetermined
	for _, q := range CapacityQuestions {
		opt, ok := answers.answered(q.ID)
		if !ok {
			continue
		}
		answered++
		if tier := CapacityLevel(q.Indicator); opt == OptionYes && tier.tier() > best.tier() {
			best = tier
		}
	}
	if best.Determined() {
		return best
	}
	if answered == len(CapacityQuestions) {
		return Rendah
	}
	return CapacityUndetermined
}

// Classification is the full classifier output for one answer set.
type Classification struct {
	Levels
	Strategy           *Strategy `json:"strategy"`
	ReflectionAnswered int       `json:"reflection_answered"`
	CapacityAnswered   int       `json:"capacity_answered"`
}

// Classify runs CalculateLevels and GetStrategy.
func Classify(answers AnswerSet) Classification {
	levels := CalculateLevels(answers)
	c := Classification{
		Levels:   levels,
		Strategy: GetStrategy(levels.Reflection, levels.Capacity),
	}
	for _, q := range ReflectionQuestions {
		if _, ok := answers.answered(q.ID); ok {
			c.ReflectionAnswered++
		}
	}
	for _, q := range CapacityQuestions {
		if _, ok := answers.answered(q.ID); ok {
			c.CapacityAnswered++
		}
	}
	return c
}
