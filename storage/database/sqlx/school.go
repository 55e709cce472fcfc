package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/yucheyahyasukaca/pengawas-sub001/core/school"
)

type schoolRow struct {
	ID      string      `db:"id"`
	NPSN    null.String `db:"npsn"`
	Name    string      `db:"name"`
	Address null.String `db:"address"`
}

type schoolRepository struct {
	db *sqlx.DB
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *sqlx.DB) school.Repository {
	return &schoolRepository{db: db}
}

// QuerySchoolsByID returns the schools in the order of ids.
func (repo schoolRepository) QuerySchoolsByID(ctx context.Context, ids []string) ([]school.School, error) {
	if len(ids) == 0 {
		return []school.School{}, nil
	}

	var rows []schoolRow
	q := repo.db.Rebind(`SELECT id, npsn, name, address FROM school WHERE id = ANY(?)`)
	if err := repo.db.SelectContext(ctx, &rows, q, pq.Array(ids)); err != nil {
		return nil, errors.Wrap(err, "querying schools")
	}

	byID := make(map[string]schoolRow, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}
	schools := make([]school.School, 0, len(rows))
	for _, id := range ids {
		r, ok := byID[id]
		if !ok {
			continue
		}
		delete(byID, id)
		schools = append(schools, school.School{
			ID:      r.ID,
			NPSN:    r.NPSN.String,
			Name:    r.Name,
			Address: r.Address.String,
		})
	}
	return schools, nil
}
