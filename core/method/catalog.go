package method

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	appfs "github.com/yucheyahyasukaca/pengawas-sub001/fs"
)

const catalogPath = "data/methods.yaml"

var (
	catalog     map[ID]Method
	catalogOnce sync.Once
)

type catalogFile struct {
	Methods []Method `yaml:"methods"`
}

// parseCatalog decodes and checks a catalog document: exactly the known IDs, once each,
// with every descriptor field populated.
func parseCatalog(data []byte) (map[ID]Method, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "decoding method catalog")
	}

	cat := make(map[ID]Method, len(file.Methods))
	for i, m := range file.Methods {
		if !m.ID.Valid() {
			return nil, errors.Errorf("method #%d: unknown id %q", i, m.ID)
		}
		if _, dup := cat[m.ID]; dup {
			return nil, errors.Errorf("method %q: duplicated", m.ID)
		}
		var missing []string
		if strings.TrimSpace(m.Title) == "" {
			missing = append(missing, "title")
		}
		if strings.TrimSpace(m.Scope) == "" {
			missing = append(missing, "lingkup")
		}
		if strings.TrimSpace(m.Purpose) == "" {
			missing = append(missing, "tujuan")
		}
		if len(m.Audience) == 0 {
			missing = append(missing, "dibutuhkan_oleh")
		}
		if len(m.SuitabilityCriteria) == 0 {
			missing = append(missing, "kriteria")
		}
		if len(m.ExpectedOutputs) == 0 {
			missing = append(missing, "luaran")
		}
		if len(missing) > 0 {
			return nil, errors.Errorf("method %q: missing %s", m.ID, strings.Join(missing, ", "))
		}
		cat[m.ID] = m
	}
	for _, id := range IDs {
		if _, ok := cat[id]; !ok {
			return nil, errors.Errorf("method %q: not in catalog", id)
		}
	}
	return cat, nil
}

func load() map[ID]Method {
	catalogOnce.Do(func() {
		data, err := appfs.FS.ReadFile(catalogPath)
		if err != nil {
			panic(fmt.Sprintf("method: reading %s: %v", catalogPath, err))
		}
		if catalog, err = parseCatalog(data); err != nil {
			panic(fmt.Sprintf("method: %+v", err))
		}
	})
	return catalog
}

// All returns the five methods in catalog order.
func All() []Method {
	cat := load()
	methods := make([]Method, 0, len(IDs))
	for _, id := range IDs {
		methods = append(methods, cat[id].clone())
	}
	return methods
}

// Get returns the Method with the given ID.
func Get(id ID) (Method, bool) {
	m, ok := load()[id]
	if !ok {
		return Method{}, false
	}
	return m.clone(), true
}

// Resolve looks up ids in order. Unknown ids are skipped and reported in missing.
func Resolve(ids []ID) (methods []Method, missing []ID) {
	methods = make([]Method, 0, len(ids))
	for _, id := range ids {
		if m, ok := Get(id); ok {
			methods = append(methods, m)
		} else {
			missing = append(missing, id)
		}
	}
	return methods, missing
}
