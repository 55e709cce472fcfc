package dummydb

import (
	"context"
	"sort"

	"github.com/yucheyahyasukaca/pengawas-sub001/core"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/plan"
)

type planRepository struct {
	db *planTable
}

var _ plan.Repository = (*planRepository)(nil) // interface compliance check

func NewPlanRepository(db *DB) plan.Repository {
	return &planRepository{db: db.plan}
}

func (repo *planRepository) SavePlan(_ context.Context, doc plan.Document) (plan.Document, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if stored, ok := repo.db.table[doc.ID]; ok {
		if stored.SupervisorID != doc.SupervisorID {
			return plan.Document{}, plan.ErrNotFound
		}
		if stored.IsPublished() && !doc.IsPublished() {
			return plan.Document{}, plan.ErrPublished
		}
	}
	stored := doc.Clone()
	repo.db.table[doc.ID] = &stored
	return stored.Clone(), nil
}

func (repo *planRepository) GetPlanByID(_ context.Context, id string) (plan.Document, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if doc, ok := repo.db.table[id]; ok {
		return doc.Clone(), nil
	}
	return plan.Document{}, plan.ErrNotFound
}

func (repo *planRepository) QueryPlans(_ context.Context, filter plan.QueryFilter, ordering ...core.DBOrdering) ([]plan.Document, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	docs := make([]plan.Document, 0, len(repo.db.table))
	for _, doc := range repo.db.table {
		if filter.Match(*doc) {
			docs = append(docs, doc.Clone())
		}
	}

	// map iteration is random: always settle on created_at, then id
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].CreatedAt.Before(docs[j].CreatedAt)
		}
		return docs[i].ID < docs[j].ID
	})
	for k := len(ordering) - 1; k >= 0; k-- {
		ord := ordering[k]
		sort.SliceStable(docs, func(i, j int) bool { return lessPlan(docs[i], docs[j], ord) })
	}
	return docs, nil
}

func lessPlan(a, b plan.Document, ord core.DBOrdering) bool {
	var less, greater bool
	switch ord.Field {
	case "created_at":
		less, greater = a.CreatedAt.Before(b.CreatedAt), a.CreatedAt.After(b.CreatedAt)
	case "updated_at":
		less, greater = a.UpdatedAt.Before(b.UpdatedAt), a.UpdatedAt.After(b.UpdatedAt)
	case "periode":
		less, greater = a.Periode < b.Periode, a.Periode > b.Periode
	case "status":
		less, greater = a.Status < b.Status, a.Status > b.Status
	default:
		return false
	}
	if ord.Ascending {
		return less
	}
	return greater
}
