package recap

import (
	"context"
	"fmt"
	"sort"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/yucheyahyasukaca/pengawas-sub001/core"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/assessment"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/method"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/plan"
)

type (
	// Row is the read-only recap projection of one plan. It is rebuilt on every request.
	Row struct {
		PlanID          string                     `json:"plan_id"`
		Periode         string                     `json:"periode"`
		Status          plan.Status                `json:"status"`
		SupervisorID    string                     `json:"supervisor_id"`
		Schools         []string                   `json:"schools"`
		ReflectionLevel assessment.ReflectionLevel `json:"reflection_level"`
		CapacityLevel   assessment.CapacityLevel   `json:"capacity_level"`
		Priority        assessment.Priority        `json:"priority"`
		Rank            int                        `json:"rank"`
		Strategy        *assessment.Strategy       `json:"strategy"`
		Methods         []method.Method            `json:"methods"`
		ExpectedOutputs [][]string                 `json:"expected_outputs"` // positional to Methods
	}

	// Aggregator turns plan documents into recap rows.
	Aggregator struct {
		logger core.Logger
	}
)

func NewAggregator(logger core.Logger) *Aggregator {
	vala.BeginValidation().Validate(vala.IsNotNil(logger, "logger")).CheckAndPanic()
	return &Aggregator{logger: logger}
}

// Build returns one row per document, stable-sorted by priority rank. Unclassifiable plans
// default to Prioritas Akhir and sort after every classified one. schoolNames maps school id
// to name; ids without a name are listed as is.
func (agg *Aggregator) Build(docs []plan.Document, schoolNames map[string]string) []Row {
	rows := make([]Row, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, agg.row(doc, schoolNames))
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Rank < rows[j].Rank })
	return rows
}

func (agg *Aggregator) row(doc plan.Document, schoolNames map[string]string) Row {
	c := doc.Classification()
	r := Row{
		PlanID:          doc.ID,
		Periode:         doc.Periode,
		Status:          doc.Status,
		SupervisorID:    doc.SupervisorID,
		Schools:         make([]string, 0, len(doc.SchoolIDs)),
		ReflectionLevel: c.Reflection,
		CapacityLevel:   c.Capacity,
		Priority:        assessment.PrioritasAkhir,
		Rank:            assessment.RankOf(c.Strategy),
		Strategy:        c.Strategy,
	}
	if c.Strategy != nil {
		r.Priority = c.Strategy.Priority
	} else if c.Reflection.Determined() && c.Capacity.Determined() {
		agg.logger.Warn(fmt.Sprintf("recap: no strategy for %s/%s", c.Reflection, c.Capacity),
			map[string]interface{}{"plan_id": doc.ID})
	}

	for _, id := range doc.SchoolIDs {
		name, ok := schoolNames[id]
		if !ok {
			agg.logger.Warn("recap: unknown school", map[string]interface{}{"plan_id": doc.ID, "school_id": id})
			name = id
		}
		r.Schools = append(r.Schools, name)
	}

	methods, missing := method.Resolve(doc.SelectedMethodIDs)
	if len(missing) > 0 {
		agg.logger.Warn("recap: unknown methods", map[string]interface{}{"plan_id": doc.ID, "method_ids": missing})
	}
	r.Methods = methods
	r.ExpectedOutputs = make([][]string, 0, len(methods))
	for _, m := range methods {
		r.ExpectedOutputs = append(r.ExpectedOutputs, m.ExpectedOutputs)
	}
	return r
}

type (
	Filter struct {
		Periode string      `query:"periode"`
		Status  plan.Status `query:"status"`
	}

	// Service loads a supervisor's plans and school names and builds the recap.
	Service struct {
		plans   *plan.Service
		schools SchoolNamer
		agg     *Aggregator
	}

	SchoolNamer interface {
		Names(ctx context.Context, ids []string) (map[string]string, error)
	}
)

func NewService(plans *plan.Service, schools SchoolNamer, logger core.Logger) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(plans, "plans"),
		vala.IsNotNil(schools, "schools"),
	).CheckAndPanic()
	return &Service{plans: plans, schools: schools, agg: NewAggregator(logger)}
}

// Generate builds sup's recap. Plans are read oldest first so ties keep creation order.
func (svc *Service) Generate(ctx context.Context, sup core.Supervisor, filter Filter) ([]Row, error) {
	docs, err := svc.plans.Query(ctx, sup, plan.QueryFilter{Periode: filter.Periode, Status: filter.Status},
		core.DBOrdering{Field: "created_at", Ascending: true})
	if err != nil {
		return nil, errors.Wrap(err, "querying plans")
	}

	var ids []string
	for _, doc := range docs {
		ids = append(ids, doc.SchoolIDs...)
	}
	names, err := svc.schools.Names(ctx, core.UniqueStrings(ids))
	if err != nil {
		return nil, errors.Wrap(err, "resolving school names")
	}
	return svc.agg.Build(docs, names), nil
}
