package assessment

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	appfs "github.com/yucheyahyasukaca/pengawas-sub001/fs"
)

type Priority string

const (
	PrioritasUtama    Priority = "Prioritas Utama"
	PrioritasMenengah Priority = "Prioritas Menengah"
	PrioritasAkhir    Priority = "Prioritas Akhir"
)

// RankUndetermined orders unclassifiable plans after every priority.
const RankUndetermined = 4

// Rank orders priorities: Utama 1, Menengah 2, Akhir 3; anything else RankUndetermined.
func (p Priority) Rank() int {
	switch p {
	case PrioritasUtama:
		return 1
	case PrioritasMenengah:
		return 2
	case PrioritasAkhir:
		return 3
	default:
		return RankUndetermined
	}
}

func (p Priority) Valid() bool { return p.Rank() != RankUndetermined }

// Strategy is the immutable recommendation for one (reflection, capacity) cell.
type Strategy struct {
	Reflection  ReflectionLevel `json:"reflection_level" yaml:"reflection"`
	Capacity    CapacityLevel   `json:"capacity_level" yaml:"capacity"`
	Title       string          `json:"title" yaml:"title"`
	Priority    Priority        `json:"priority" yaml:"priority"`
	Kebutuhan   string          `json:"kebutuhan" yaml:"kebutuhan"`
	Description string          `json:"description" yaml:"description"`
}

// RankOf returns the priority rank of s; a nil strategy ranks RankUndetermined.
func RankOf(s *Strategy) int {
	if s == nil {
		return RankUndetermined
	}
	return s.Priority.Rank()
}

const matrixPath = "data/strategies.yaml"

var (
	reflectionLevels = []ReflectionLevel{Berkembang, Berdaya}
	capacityLevels   = []CapacityLevel{Rendah, Sedang, Tinggi}
)

type cell struct {
	reflection ReflectionLevel
	capacity   CapacityLevel
}

var (
	matrix     map[cell]Strategy
	matrixOnce sync.Once
)

type matrixFile struct {
	Strategies []Strategy `yaml:"strategies"`
}

// parseMatrix decodes the strategy table and checks it is exhaustive over the defined levels,
// with every cell fully populated and titled distinctly.
func parseMatrix(data []byte) (map[cell]Strategy, error) {
	var file matrixFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "decoding strategy matrix")
	}

	m := make(map[cell]Strategy, len(file.Strategies))
	titles := make(map[string]cell, len(file.Strategies))
	for i, s := range file.Strategies {
		c := cell{s.Reflection, s.Capacity}
		name := fmt.Sprintf("strategy %s/%s", s.Reflection, s.Capacity)
		if !s.Reflection.Determined() || !s.Capacity.Determined() {
			return nil, errors.Errorf("strategy #%d: invalid levels %q/%q", i, s.Reflection, s.Capacity)
		}
		if _, dup := m[c]; dup {
			return nil, errors.Errorf("%s: duplicated", name)
		}
		if !s.Priority.Valid() {
			return nil, errors.Errorf("%s: invalid priority %q", name, s.Priority)
		}
		var missing []string
		if strings.TrimSpace(s.Title) == "" {
			missing = append(missing, "title")
		}
		if strings.TrimSpace(s.Kebutuhan) == "" {
			missing = append(missing, "kebutuhan")
		}
		if strings.TrimSpace(s.Description) == "" {
			missing = append(missing, "description")
		}
		if len(missing) > 0 {
			return nil, errors.Errorf("%s: missing %s", name, strings.Join(missing, ", "))
		}
		if other, dup := titles[s.Title]; dup {
			return nil, errors.Errorf("%s: title shared with %s/%s", name, other.reflection, other.capacity)
		}
		titles[s.Title] = c
		m[c] = s
	}
	for _, r := range reflectionLevels {
		for _, c := range capacityLevels {
			if _, ok := m[cell{r, c}]; !ok {
				return nil, errors.Errorf("strategy %s/%s: unmapped", r, c)
			}
		}
	}
	return m, nil
}

func loadMatrix() map[cell]Strategy {
	matrixOnce.Do(func() {
		data, err := appfs.FS.ReadFile(matrixPath)
		if err != nil {
			panic(fmt.Sprintf("assessment: reading %s: %v", matrixPath, err))
		}
		if matrix, err = parseMatrix(data); err != nil {
			panic(fmt.Sprintf("assessment: %+v", err))
		}
	})
	return matrix
}

// GetStrategy looks up the strategy for a level pair. It returns nil when either level is
// undetermined: the assessment is not yet classifiable.
func GetStrategy(reflection ReflectionLevel, capacity CapacityLevel) *Strategy {
	if !reflection.Determined() || !capacity.Determined() {
		return nil
	}
	s, ok := loadMatrix()[cell{reflection, capacity}]
	if !ok {
		return nil
	}
	return &s
}

// Matrix returns every strategy, reflection-major, capacity ascending.
func Matrix() []Strategy {
	m := loadMatrix()
	out := make([]Strategy, 0, len(reflectionLevels)*len(capacityLevels))
	for _, r := range reflectionLevels {
		for _, c := range capacityLevels {
			out = append(out, m[cell{r, c}])
		}
	}
	return out
}
