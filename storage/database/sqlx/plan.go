package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/types"

	"github.com/yucheyahyasukaca/pengawas-sub001/core"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/assessment"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/method"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/plan"
)

const planColumns = `id, supervisor_id, periode, status, school_ids, answers, selected_method_ids, sections,
	created_at, updated_at, published_at`

// orderable maps DBOrdering fields to columns; anything else is ignored.
var orderable = map[string]string{
	"created_at":   "created_at",
	"updated_at":   "updated_at",
	"published_at": "published_at",
	"periode":      "periode",
	"status":       "status",
}

type planRow struct {
	ID                string            `db:"id"`
	SupervisorID      string            `db:"supervisor_id"`
	Periode           string            `db:"periode"`
	Status            string            `db:"status"`
	SchoolIDs         types.StringArray `db:"school_ids"`
	Answers           types.JSON        `db:"answers"`
	SelectedMethodIDs types.StringArray `db:"selected_method_ids"`
	Sections          types.JSON        `db:"sections"`
	CreatedAt         time.Time         `db:"created_at"`
	UpdatedAt         time.Time         `db:"updated_at"`
	PublishedAt       null.Time         `db:"published_at"`
}

type planRepository struct {
	db *sqlx.DB
}

var _ plan.Repository = (*planRepository)(nil) // interface compliance check

func NewPlanRepository(db *sqlx.DB) plan.Repository {
	return &planRepository{db: db}
}

func (repo planRepository) toRow(doc plan.Document) (planRow, error) {
	row := planRow{
		ID:           doc.ID,
		SupervisorID: doc.SupervisorID,
		Periode:      doc.Periode,
		Status:       string(doc.Status),
		SchoolIDs:    types.StringArray(doc.SchoolIDs),
		CreatedAt:    doc.CreatedAt.UTC(),
		UpdatedAt:    doc.UpdatedAt.UTC(),
		PublishedAt:  null.TimeFromPtr(doc.PublishedAt),
	}
	if row.SchoolIDs == nil {
		row.SchoolIDs = types.StringArray{}
	}
	row.SelectedMethodIDs = make(types.StringArray, 0, len(doc.SelectedMethodIDs))
	for _, id := range doc.SelectedMethodIDs {
		row.SelectedMethodIDs = append(row.SelectedMethodIDs, string(id))
	}

	answers := doc.Answers
	if answers == nil {
		answers = assessment.AnswerSet{}
	}
	if err := row.Answers.Marshal(answers); err != nil {
		return planRow{}, errors.Wrap(err, "encoding answers")
	}
	sections := doc.Sections
	if sections == nil {
		sections = map[plan.SectionID]string{}
	}
	if err := row.Sections.Marshal(sections); err != nil {
		return planRow{}, errors.Wrap(err, "encoding sections")
	}
	return row, nil
}

func (repo planRepository) fromRow(row planRow) (plan.Document, error) {
	doc := plan.Document{
		ID:                row.ID,
		SupervisorID:      row.SupervisorID,
		Periode:           row.Periode,
		Status:            plan.Status(row.Status),
		SchoolIDs:         []string(row.SchoolIDs),
		SelectedMethodIDs: make([]method.ID, 0, len(row.SelectedMethodIDs)),
		CreatedAt:         row.CreatedAt.UTC(),
		UpdatedAt:         row.UpdatedAt.UTC(),
	}
	if doc.SchoolIDs == nil {
		doc.SchoolIDs = []string{}
	}
	for _, id := range row.SelectedMethodIDs {
		doc.SelectedMethodIDs = append(doc.SelectedMethodIDs, method.ID(id))
	}
	if row.PublishedAt.Valid {
		t := row.PublishedAt.Time.UTC()
		doc.PublishedAt = &t
	}
	if err := row.Answers.Unmarshal(&doc.Answers); err != nil {
		return plan.Document{}, errors.Wrap(err, "decoding answers")
	}
	if err := row.Sections.Unmarshal(&doc.Sections); err != nil {
		return plan.Document{}, errors.Wrap(err, "decoding sections")
	}
	return doc, nil
}

// trapNoRowsErr maps psql "no rows" err to plan.ErrNotFound
func (repo planRepository) trapNoRowsErr(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return plan.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

// SavePlan upserts doc. A row owned by another supervisor is left alone and reported as
// plan.ErrNotFound.
func (repo planRepository) SavePlan(ctx context.Context, doc plan.Document) (plan.Document, error) {
	if _, err := uuid.Parse(doc.ID); err != nil {
		return plan.Document{}, errors.Wrap(err, "invalid plan ID")
	}
	row, err := repo.toRow(doc)
	if err != nil {
		return plan.Document{}, err
	}

	stmt, err := repo.db.PrepareNamedContext(ctx, `
		INSERT INTO rencana_program (`+planColumns+`)
		VALUES (:id, :supervisor_id, :periode, :status, :school_ids, :answers, :selected_method_ids, :sections,
			:created_at, :updated_at, :published_at)
		ON CONFLICT (id) DO UPDATE SET
			periode = EXCLUDED.periode,
			status = EXCLUDED.status,
			school_ids = EXCLUDED.school_ids,
			answers = EXCLUDED.answers,
			selected_method_ids = EXCLUDED.selected_method_ids,
			sections = EXCLUDED.sections,
			updated_at = EXCLUDED.updated_at,
			published_at = EXCLUDED.published_at
		WHERE rencana_program.supervisor_id = EXCLUDED.supervisor_id
			AND (rencana_program.status <> 'terbit' OR EXCLUDED.status = 'terbit')
		RETURNING `+planColumns)
	if err != nil {
		return plan.Document{}, errors.Wrap(err, "preparing plan upsert")
	}
	defer func() { _ = stmt.Close() }()

	var saved planRow
	if err = stmt.GetContext(ctx, &saved, row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return plan.Document{}, repo.rejectedSaveErr(ctx, doc)
		}
		return plan.Document{}, errors.Wrap(err, "upserting plan")
	}
	return repo.fromRow(saved)
}

// rejectedSaveErr explains an upsert that matched no row: the plan belongs to another
// supervisor (plan.ErrNotFound) or it was published and doc is a draft (plan.ErrPublished).
func (repo planRepository) rejectedSaveErr(ctx context.Context, doc plan.Document) error {
	stored, err := repo.GetPlanByID(ctx, doc.ID)
	if err != nil {
		return err
	}
	if stored.SupervisorID == doc.SupervisorID && stored.IsPublished() {
		return plan.ErrPublished
	}
	return plan.ErrNotFound
}

func (repo planRepository) GetPlanByID(ctx context.Context, id string) (plan.Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return plan.Document{}, plan.ErrNotFound
	}

	var row planRow
	q := repo.db.Rebind(`SELECT ` + planColumns + ` FROM rencana_program WHERE id = ?`)
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return plan.Document{}, repo.trapNoRowsErr(err, "finding plan by ID")
	}
	return repo.fromRow(row)
}

func (repo planRepository) QueryPlans(ctx context.Context, filter plan.QueryFilter, ordering ...core.DBOrdering) ([]plan.Document, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.SupervisorID != "" {
		where = append(where, "supervisor_id = ?")
		args = append(args, filter.SupervisorID)
	}
	if filter.Periode != "" {
		where = append(where, "periode = ?")
		args = append(args, filter.Periode)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}

	q := `SELECT ` + planColumns + ` FROM rencana_program`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}

	orderList := make([]string, 0, len(ordering)+2)
	for _, ord := range ordering {
		if col, ok := orderable[ord.Field]; ok {
			orderList = append(orderList, core.DBOrdering{Field: col, Ascending: ord.Ascending}.String())
		}
	}
	orderList = append(orderList, "created_at ASC", "id ASC")
	q += " ORDER BY " + strings.Join(orderList, ", ")

	var rows []planRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying plans")
	}
	docs := make([]plan.Document, 0, len(rows))
	for _, row := range rows {
		doc, err := repo.fromRow(row)
		if err != nil {
			return nil, errors.Wrapf(err, "plan %s", row.ID)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
