package plan

import (
	"context"
	"fmt"
	"math"
	"net/mail"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/yucheyahyasukaca/pengawas-sub001/core"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/assessment"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/method"
)

var (
	// errors
	ErrNotFound   = errors.New("rencana program not found")
	ErrPublished  = errors.New("rencana program sudah terbit dan tidak dapat diubah")
	ErrIncomplete = errors.New("rencana program belum lengkap")
)

const publishedTemplate = "plan_published"

type (
	// Repository persists plan documents. SavePlan is an upsert keyed by Document.ID that
	// overwrites the stored record as a whole (last write wins). A Terbit record is never
	// overwritten by a draft: SavePlan returns ErrPublished instead.
	Repository interface {
		SavePlan(ctx context.Context, doc Document) (Document, error)
		GetPlanByID(ctx context.Context, id string) (Document, error)
		// QueryPlans applies AND operation on available QueryFilter fields.
		QueryPlans(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Document, error)
	}

	Service struct {
		repo   Repository
		mailer core.EmailService
		logger core.Logger
		now    func() time.Time
	}

	// View is the read-only builder projection of a document.
	View struct {
		Layout          string                     `json:"layout"`
		ReflectionLevel assessment.ReflectionLevel `json:"reflection_level"`
		CapacityLevel   assessment.CapacityLevel   `json:"capacity_level"`
		Strategy        *assessment.Strategy       `json:"strategy"`
		ProgressPercent float64                    `json:"progress_percent"`
		AccessibleSteps []int                      `json:"accessible_steps"`
		CompletedSteps  []int                      `json:"completed_steps"`
	}

	publishedMailData struct {
		SupervisorName string
		Periode        string
		Priority       string
		SchoolCount    int
	}
)

func NewService(repo Repository, mailer core.EmailService, logger core.Logger) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
		vala.IsNotNil(mailer, "mailer"),
		vala.IsNotNil(logger, "logger"),
	).CheckAndPanic()

	return &Service{
		repo:   repo,
		mailer: mailer,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Start resumes the supervisor's draft for np.Periode, or creates one. created reports which.
func (svc *Service) Start(ctx context.Context, sup core.Supervisor, np NewPlan) (doc Document, created bool, err error) {
	drafts, err := svc.repo.QueryPlans(ctx, QueryFilter{SupervisorID: sup.ID, Periode: np.Periode, Status: StatusDraft},
		core.DBOrdering{Field: "updated_at"})
	if err != nil {
		return Document{}, false, errors.Wrap(err, "querying drafts")
	}
	if len(drafts) > 0 {
		return drafts[0], false, nil
	}

	now := svc.now()
	doc = Document{
		ID:                uuid.New().String(),
		SupervisorID:      sup.ID,
		Periode:           np.Periode,
		Status:            StatusDraft,
		SchoolIDs:         np.SchoolIDs,
		Answers:           np.Answers,
		SelectedMethodIDs: []method.ID{},
		Sections:          make(map[SectionID]string),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if doc.SchoolIDs == nil {
		doc.SchoolIDs = []string{}
	}
	if doc.Answers == nil {
		doc.Answers = assessment.AnswerSet{}
	}
	if doc, err = svc.repo.SavePlan(ctx, doc); err != nil {
		return Document{}, false, errors.Wrap(err, "saving plan")
	}
	return doc, true, nil
}

// Get returns the plan id owned by sup.
func (svc *Service) Get(ctx context.Context, sup core.Supervisor, id string) (Document, error) {
	doc, err := svc.repo.GetPlanByID(ctx, id)
	if err != nil {
		return Document{}, err
	}
	if doc.SupervisorID != sup.ID {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

// Query lists sup's plans, most recently updated first unless ordering says otherwise.
func (svc *Service) Query(ctx context.Context, sup core.Supervisor, filter QueryFilter, ordering ...core.DBOrdering) ([]Document, error) {
	filter.Clean()
	filter.SupervisorID = sup.ID
	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "updated_at"}}
	}
	return svc.repo.QueryPlans(ctx, filter, ordering...)
}

func (svc *Service) getDraft(ctx context.Context, sup core.Supervisor, id string) (Document, error) {
	doc, err := svc.Get(ctx, sup, id)
	if err != nil {
		return Document{}, err
	}
	if doc.IsPublished() {
		return Document{}, ErrPublished
	}
	return doc, nil
}

func (svc *Service) save(ctx context.Context, doc Document) (Document, error) {
	doc.UpdatedAt = svc.now()
	saved, err := svc.repo.SavePlan(ctx, doc)
	if err != nil {
		return Document{}, errors.Wrap(err, "saving plan")
	}
	return saved, nil
}

// SaveDraft overwrites the editable content of draft id with up. The status is unchanged.
func (svc *Service) SaveDraft(ctx context.Context, sup core.Supervisor, id string, up UpdatePlan) (Document, error) {
	doc, err := svc.getDraft(ctx, sup, id)
	if err != nil {
		return Document{}, err
	}

	doc.Periode = up.Periode
	doc.SchoolIDs = nonNilStrings(up.SchoolIDs)
	doc.Answers = up.Answers
	if doc.Answers == nil {
		doc.Answers = assessment.AnswerSet{}
	}
	doc.SelectedMethodIDs = up.SelectedMethodIDs
	if doc.SelectedMethodIDs == nil {
		doc.SelectedMethodIDs = []method.ID{}
	}
	doc.Sections = make(map[SectionID]string, len(up.Sections))
	for k, v := range up.Sections {
		doc.Sections[k] = v
	}
	return svc.save(ctx, doc)
}

// SaveStep writes the fields owned by wizard step n. A locked step is left untouched and
// applied is false.
func (svc *Service) SaveStep(ctx context.Context, sup core.Supervisor, id string, n int, in StepInput) (doc Document, applied bool, err error) {
	step, ok := WizardLayout.Step(n)
	if !ok {
		return Document{}, false, core.NewValidationError(nil, core.FieldError{
			Field: "step",
			Error: fmt.Sprintf("langkah %d tidak dikenal", n),
		})
	}
	if doc, err = svc.getDraft(ctx, sup, id); err != nil {
		return Document{}, false, err
	}
	if !WizardLayout.IsAccessible(n, doc) {
		return doc, false, nil
	}

	if step.owns(FieldSchools, "") && in.SchoolIDs != nil {
		doc.SchoolIDs = in.SchoolIDs
	}
	if step.owns(FieldAnswers, "") && in.Answers != nil {
		doc.Answers = in.Answers
	}
	if step.owns(FieldMethods, "") && in.SelectedMethodIDs != nil {
		doc.SelectedMethodIDs = in.SelectedMethodIDs
	}
	for sid, text := range in.Sections {
		if !step.owns(FieldSection, sid) {
			continue
		}
		if doc.Sections == nil {
			doc.Sections = make(map[SectionID]string)
		}
		doc.Sections[sid] = text
	}

	if doc, err = svc.save(ctx, doc); err != nil {
		return Document{}, false, err
	}
	return doc, true, nil
}

// ToggleMethod adds mid to the selection, or removes it when already selected. Selection is
// free: it does not depend on the computed strategy.
func (svc *Service) ToggleMethod(ctx context.Context, sup core.Supervisor, id string, mid method.ID) (Document, error) {
	if !mid.Valid() {
		return Document{}, core.NewValidationError(nil, core.FieldError{
			Field: "method",
			Error: fmt.Sprintf("%q bukan metode pendampingan yang dikenal", mid),
		})
	}
	doc, err := svc.getDraft(ctx, sup, id)
	if err != nil {
		return Document{}, err
	}

	if doc.hasMethod(mid) {
		kept := make([]method.ID, 0, len(doc.SelectedMethodIDs))
		for _, m := range doc.SelectedMethodIDs {
			if m != mid {
				kept = append(kept, m)
			}
		}
		doc.SelectedMethodIDs = kept
	} else {
		doc.SelectedMethodIDs = append(doc.SelectedMethodIDs, mid)
	}
	return svc.save(ctx, doc)
}

// Publish moves a complete draft to Terbit. Publishing a Terbit plan returns it unchanged.
// An incomplete draft is not modified; the returned *core.ValidationError has one field per
// missing step (step_<n>).
func (svc *Service) Publish(ctx context.Context, sup core.Supervisor, id string) (Document, error) {
	doc, err := svc.Get(ctx, sup, id)
	if err != nil {
		return Document{}, err
	}
	if doc.IsPublished() {
		return doc, nil
	}

	if missing := WizardLayout.IncompleteRequired(doc); len(missing) > 0 {
		fields := make([]core.FieldError, 0, len(missing))
		for _, s := range missing {
			fields = append(fields, core.FieldError{
				Field: "step_" + strconv.Itoa(s.Number),
				Error: fmt.Sprintf("langkah %d (%s) belum lengkap", s.Number, s.Title),
			})
		}
		return Document{}, core.NewValidationError(ErrIncomplete, fields...)
	}

	now := svc.now()
	doc.Status = StatusTerbit
	doc.PublishedAt = &now
	if doc, err = svc.save(ctx, doc); err != nil {
		return Document{}, err
	}
	svc.notifyPublished(sup, doc)
	return doc, nil
}

func (svc *Service) notifyPublished(sup core.Supervisor, doc Document) {
	if sup.Email == "" {
		svc.logger.Warn(fmt.Sprintf("plan %s published: supervisor has no email", doc.ID), sup)
		return
	}

	priority := assessment.PrioritasAkhir
	if s := doc.Classification().Strategy; s != nil {
		priority = s.Priority
	}
	svc.mailer.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: sup.Name, Address: sup.Email}},
		Subject:      "Rencana Program " + doc.Periode + " terbit",
		TemplateName: publishedTemplate,
		TemplateData: publishedMailData{
			SupervisorName: sup.Name,
			Periode:        doc.Periode,
			Priority:       string(priority),
			SchoolCount:    len(doc.SchoolIDs),
		},
	})
}

// View projects doc through layout for presentation.
func (svc *Service) View(doc Document, layout Layout) View {
	c := doc.Classification()
	return View{
		Layout:          layout.Name,
		ReflectionLevel: c.Reflection,
		CapacityLevel:   c.Capacity,
		Strategy:        c.Strategy,
		ProgressPercent: math.Round(layout.Progress(doc)*10) / 10,
		AccessibleSteps: layout.AccessibleSteps(doc),
		CompletedSteps:  layout.CompletedSteps(doc),
	}
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
