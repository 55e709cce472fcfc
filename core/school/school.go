package school

import (
	"context"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"
)

type (
	// School is a target school (sekolah binaan). School CRUD lives outside the engine.
	School struct {
		ID      string `json:"id"`
		NPSN    string `json:"npsn"`
		Name    string `json:"name"`
		Address string `json:"address"`
	}

	Repository interface {
		// QuerySchoolsByID returns the schools found among ids; unknown ids are omitted.
		QuerySchoolsByID(ctx context.Context, ids []string) ([]School, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	vala.BeginValidation().Validate(vala.IsNotNil(repo, "repo")).CheckAndPanic()
	return &Service{repo: repo}
}

func (svc *Service) QueryByID(ctx context.Context, ids []string) ([]School, error) {
	if len(ids) == 0 {
		return []School{}, nil
	}
	return svc.repo.QuerySchoolsByID(ctx, ids)
}

// Names maps school id to name for the given ids.
func (svc *Service) Names(ctx context.Context, ids []string) (map[string]string, error) {
	schools, err := svc.QueryByID(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "querying schools")
	}
	names := make(map[string]string, len(schools))
	for _, s := range schools {
		names[s.ID] = s.Name
	}
	return names, nil
}
