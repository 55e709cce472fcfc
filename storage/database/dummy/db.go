package dummydb

import (
	"sync"

	"github.com/yucheyahyasukaca/pengawas-sub001/core/plan"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/school"
)

type (
	// DB is an in-memory store for debug runs and tests.
	DB struct {
		plan   *planTable
		school *schoolTable
	}

	planTable struct {
		sync.RWMutex
		table map[string]*plan.Document
	}

	schoolTable struct {
		sync.RWMutex
		table map[string]*school.School
	}
)

func Open() (*DB, error) {
	db := &DB{
		plan:   &planTable{table: make(map[string]*plan.Document)},
		school: &schoolTable{table: make(map[string]*school.School)},
	}
	return db, nil
}

// SeedSchools inserts or replaces schools.
func (db *DB) SeedSchools(schools ...school.School) {
	db.school.Lock()
	defer db.school.Unlock()

	for _, s := range schools {
		s := s
		db.school.table[s.ID] = &s
	}
}
