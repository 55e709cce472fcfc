package dummydb

import (
	"context"

	"github.com/yucheyahyasukaca/pengawas-sub001/core/school"
)

type schoolRepository struct {
	db *schoolTable
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *DB) school.Repository {
	return &schoolRepository{db: db.school}
}

func (repo *schoolRepository) QuerySchoolsByID(_ context.Context, ids []string) ([]school.School, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	schools := make([]school.School, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if s, ok := repo.db.table[id]; ok && !seen[id] {
			seen[id] = true
			schools = append(schools, *s)
		}
	}
	return schools, nil
}
