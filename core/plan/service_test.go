package plan_test

import (
	"context"
	"net/mail"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yucheyahyasukaca/pengawas-sub001/core"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/assessment"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/method"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/plan"
	emailsvc "github.com/yucheyahyasukaca/pengawas-sub001/services/email"
	dummydb "github.com/yucheyahyasukaca/pengawas-sub001/storage/database/dummy"
	testutil "github.com/yucheyahyasukaca/pengawas-sub001/tests"
)

var (
	ctx      = context.Background()
	sup      = testutil.Supervisor
	validate = testutil.NewValidator()
	conf     = &core.Config{
		AppName:          "Pengawas",
		DefaultFromEmail: mail.Address{Name: "Pengawas", Address: "noreply@pengawas.test"},
	}
)

func newService(t *testing.T) (*plan.Service, plan.Repository) {
	t.Helper()
	db, err := dummydb.Open()
	require.NoError(t, err)
	repo := dummydb.NewPlanRepository(db)
	return plan.NewService(repo, emailsvc.NewConsoleServiceMock(conf, &core.NopLogger{}), &core.NopLogger{}), repo
}

func startPlan(t *testing.T, svc *plan.Service) plan.Document {
	t.Helper()
	doc, created, err := svc.Start(ctx, sup, plan.NewPlan{Periode: "2024/2025"})
	require.NoError(t, err)
	require.True(t, created)
	return doc
}

func completeUpdate() plan.UpdatePlan {
	return plan.UpdatePlan{
		Periode:           "2024/2025",
		SchoolIDs:         []string{"sch-1", "sch-2"},
		Answers:           testutil.UtamaAnswers(),
		SelectedMethodIDs: []method.ID{method.Coaching, method.Mentoring},
		Sections:          testutil.CompleteSections(),
	}
}

func TestService_Start(t *testing.T) {
	svc, _ := newService(t)

	doc := startPlan(t, svc)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, sup.ID, doc.SupervisorID)
	assert.Equal(t, plan.StatusDraft, doc.Status)
	assert.Empty(t, doc.SelectedMethodIDs)

	// same period resumes the draft
	again, created, err := svc.Start(ctx, sup, plan.NewPlan{Periode: "2024/2025"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, doc.ID, again.ID)

	other, created, err := svc.Start(ctx, sup, plan.NewPlan{Periode: "2025/2026"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, doc.ID, other.ID)
}

func TestService_Get(t *testing.T) {
	svc, _ := newService(t)
	doc := startPlan(t, svc)

	_, err := svc.Get(ctx, core.Supervisor{ID: "someone-else"}, doc.ID)
	assert.Equal(t, plan.ErrNotFound, err)

	_, err = svc.Get(ctx, sup, "missing")
	assert.Equal(t, plan.ErrNotFound, errors.Cause(err))
}

func TestService_SaveDraft_roundTrip(t *testing.T) {
	svc, _ := newService(t)
	doc := startPlan(t, svc)
	up := completeUpdate()

	saved, err := svc.SaveDraft(ctx, sup, doc.ID, up)
	require.NoError(t, err)
	assert.Equal(t, plan.StatusDraft, saved.Status)

	reloaded, err := svc.Get(ctx, sup, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, up.Answers, reloaded.Answers)
	assert.Equal(t, up.Sections, reloaded.Sections)
	assert.Equal(t, up.SelectedMethodIDs, reloaded.SelectedMethodIDs)
	assert.Equal(t, up.SchoolIDs, reloaded.SchoolIDs)

	// last write wins, as a whole
	up2 := plan.UpdatePlan{Periode: "2024/2025", SchoolIDs: []string{"sch-3"}}
	_, err = svc.SaveDraft(ctx, sup, doc.ID, up2)
	require.NoError(t, err)
	reloaded, _ = svc.Get(ctx, sup, doc.ID)
	assert.Equal(t, []string{"sch-3"}, reloaded.SchoolIDs)
	assert.Empty(t, reloaded.Sections)
	assert.Empty(t, reloaded.SelectedMethodIDs)
}

func TestService_SaveStep(t *testing.T) {
	svc, _ := newService(t)
	doc := startPlan(t, svc)

	// step 3 is locked on a fresh draft
	got, applied, err := svc.SaveStep(ctx, sup, doc.ID, 3, plan.StepInput{
		Sections: map[plan.SectionID]string{plan.SectionTujuan: "<p>tujuan</p>"},
	})
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Empty(t, got.Sections)

	// step 1 writes only what it owns
	got, applied, err = svc.SaveStep(ctx, sup, doc.ID, 1, plan.StepInput{
		SchoolIDs:         []string{"sch-1"},
		Answers:           testutil.UtamaAnswers(),
		SelectedMethodIDs: []method.ID{method.Training},
		Sections:          map[plan.SectionID]string{plan.SectionLatarBelakang: "<p>A</p>"},
	})
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, []string{"sch-1"}, got.SchoolIDs)
	assert.Empty(t, got.SelectedMethodIDs)
	assert.Empty(t, got.Sections)
	assert.True(t, plan.WizardLayout.IsAccessible(2, got))

	got, applied, err = svc.SaveStep(ctx, sup, doc.ID, 2, plan.StepInput{
		Sections: map[plan.SectionID]string{
			plan.SectionLatarBelakang:   "<p>A</p>",
			plan.SectionAnalisisSituasi: "<p>B</p>",
		},
	})
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, "<p>B</p>", got.Sections[plan.SectionAnalisisSituasi])
	assert.True(t, plan.WizardLayout.IsAccessible(3, got))

	_, _, err = svc.SaveStep(ctx, sup, doc.ID, 9, plan.StepInput{})
	assert.True(t, core.IsValidationError(err))
}

func TestService_ToggleMethod(t *testing.T) {
	svc, _ := newService(t)
	doc := startPlan(t, svc)

	doc, err := svc.ToggleMethod(ctx, sup, doc.ID, method.Coaching)
	require.NoError(t, err)
	doc, err = svc.ToggleMethod(ctx, sup, doc.ID, method.Training)
	require.NoError(t, err)
	assert.Equal(t, []method.ID{method.Coaching, method.Training}, doc.SelectedMethodIDs)

	doc, err = svc.ToggleMethod(ctx, sup, doc.ID, method.Coaching)
	require.NoError(t, err)
	assert.Equal(t, []method.ID{method.Training}, doc.SelectedMethodIDs)

	_, err = svc.ToggleMethod(ctx, sup, doc.ID, "lol")
	assert.True(t, core.IsValidationError(err))
}

func TestService_Publish_incomplete(t *testing.T) {
	svc, _ := newService(t)
	doc := startPlan(t, svc)
	up := completeUpdate()
	up.SelectedMethodIDs = nil
	_, err := svc.SaveDraft(ctx, sup, doc.ID, up)
	require.NoError(t, err)

	_, err = svc.Publish(ctx, sup, doc.ID)
	require.Error(t, err)
	verr, ok := errors.Cause(err).(*core.ValidationError)
	require.True(t, ok)
	assert.Equal(t, plan.ErrIncomplete, verr.Err)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "step_4", verr.Fields[0].Field)

	reloaded, err := svc.Get(ctx, sup, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.StatusDraft, reloaded.Status)
	assert.Nil(t, reloaded.PublishedAt)
}

func TestService_Publish(t *testing.T) {
	emailsvc.ResetSentMessages()
	svc, _ := newService(t)
	doc := startPlan(t, svc)
	_, err := svc.SaveDraft(ctx, sup, doc.ID, completeUpdate())
	require.NoError(t, err)

	published, err := svc.Publish(ctx, sup, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.StatusTerbit, published.Status)
	require.NotNil(t, published.PublishedAt)

	sent := emailsvc.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, sup.Email, sent[0].To[0].Address)
	assert.Contains(t, sent[0].TextContent, "Prioritas Utama")

	// re-publishing is a no-op
	again, err := svc.Publish(ctx, sup, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, *published.PublishedAt, *again.PublishedAt)
	assert.Len(t, emailsvc.SentMessages(), 1)

	_, err = svc.SaveDraft(ctx, sup, doc.ID, completeUpdate())
	assert.Equal(t, plan.ErrPublished, err)
	_, err = svc.ToggleMethod(ctx, sup, doc.ID, method.Training)
	assert.Equal(t, plan.ErrPublished, err)
	_, _, err = svc.SaveStep(ctx, sup, doc.ID, 1, plan.StepInput{})
	assert.Equal(t, plan.ErrPublished, err)
}

// publishingRepo runs beforeSave once, right before the next SavePlan reaches the store.
type publishingRepo struct {
	plan.Repository
	beforeSave func()
}

func (repo *publishingRepo) SavePlan(ctx context.Context, doc plan.Document) (plan.Document, error) {
	if hook := repo.beforeSave; hook != nil {
		repo.beforeSave = nil
		hook()
	}
	return repo.Repository.SavePlan(ctx, doc)
}

func TestService_writeAfterConcurrentPublish(t *testing.T) {
	tests := []struct {
		name  string
		write func(svc *plan.Service, id string) error
	}{
		{name: "save draft", write: func(svc *plan.Service, id string) error {
			_, err := svc.SaveDraft(ctx, sup, id, completeUpdate())
			return err
		}},
		{name: "save step", write: func(svc *plan.Service, id string) error {
			_, _, err := svc.SaveStep(ctx, sup, id, 1, plan.StepInput{SchoolIDs: []string{"sch-9"}})
			return err
		}},
		{name: "toggle method", write: func(svc *plan.Service, id string) error {
			_, err := svc.ToggleMethod(ctx, sup, id, method.Training)
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publisher, store := newService(t)
			doc := startPlan(t, publisher)
			_, err := publisher.SaveDraft(ctx, sup, doc.ID, completeUpdate())
			require.NoError(t, err)

			repo := &publishingRepo{Repository: store}
			repo.beforeSave = func() {
				_, err := publisher.Publish(ctx, sup, doc.ID)
				require.NoError(t, err)
			}
			editor := plan.NewService(repo, emailsvc.NewConsoleServiceMock(conf, &core.NopLogger{}), &core.NopLogger{})

			err = tt.write(editor, doc.ID)
			assert.Equal(t, plan.ErrPublished, errors.Cause(err))

			stored, err := store.GetPlanByID(ctx, doc.ID)
			require.NoError(t, err)
			assert.Equal(t, plan.StatusTerbit, stored.Status)
			assert.NotNil(t, stored.PublishedAt)
			assert.Equal(t, []string{"sch-1", "sch-2"}, stored.SchoolIDs)
		})
	}
}

func TestNewService(t *testing.T) {
	db, err := dummydb.Open()
	require.NoError(t, err)
	repo := dummydb.NewPlanRepository(db)
	mailer := emailsvc.NewConsoleServiceMock(conf, &core.NopLogger{})

	assert.NotPanics(t, func() { plan.NewService(repo, mailer, &core.NopLogger{}) })
	assert.Panics(t, func() { plan.NewService(repo, mailer, nil) })
	assert.Panics(t, func() { plan.NewService(nil, mailer, &core.NopLogger{}) })
}

func TestService_Query(t *testing.T) {
	svc, _ := newService(t)
	doc := startPlan(t, svc)
	_, _, err := svc.Start(ctx, sup, plan.NewPlan{Periode: "2025/2026"})
	require.NoError(t, err)
	_, _, err = svc.Start(ctx, core.Supervisor{ID: "sup-2"}, plan.NewPlan{Periode: "2024/2025"})
	require.NoError(t, err)

	docs, err := svc.Query(ctx, sup, plan.QueryFilter{})
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	docs, err = svc.Query(ctx, sup, plan.QueryFilter{Periode: " 2024/2025 "})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, doc.ID, docs[0].ID)

	docs, err = svc.Query(ctx, sup, plan.QueryFilter{Status: plan.StatusTerbit})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestService_View(t *testing.T) {
	svc, _ := newService(t)
	doc := startPlan(t, svc)
	doc.Answers = assessment.AnswerSet{assessment.K1: "yes", assessment.K2: "yes", assessment.K3: "no", assessment.K4: "no", assessment.C1: "yes", assessment.C2: "yes"}

	v := svc.View(doc, plan.WizardLayout)
	assert.Equal(t, assessment.Berkembang, v.ReflectionLevel)
	assert.Equal(t, assessment.Rendah, v.CapacityLevel)
	require.NotNil(t, v.Strategy)
	assert.Equal(t, assessment.PrioritasUtama, v.Strategy.Priority)
	assert.Equal(t, float64(0), v.ProgressPercent)
	assert.Equal(t, []int{1}, v.AccessibleSteps)

	doc.Sections = map[plan.SectionID]string{
		plan.SectionLatarBelakang:   "A",
		plan.SectionAnalisisSituasi: "B",
		plan.SectionTujuan:          "C",
	}
	v = svc.View(doc, plan.SectionLayout)
	assert.Equal(t, 42.9, v.ProgressPercent)
	assert.Equal(t, []int{1, 2, 3, 4}, v.AccessibleSteps)
}

func TestNewPlan_Validate(t *testing.T) {
	tests := []struct {
		name    string
		np      plan.NewPlan
		wantErr bool
	}{
		{name: "year", np: plan.NewPlan{Periode: "2024"}},
		{name: "academic year", np: plan.NewPlan{Periode: " 2024/2025 ", Answers: assessment.AnswerSet{"k1": "ya"}}},
		{name: "missing periode", np: plan.NewPlan{}, wantErr: true},
		{name: "bad periode", np: plan.NewPlan{Periode: "2024-2025"}, wantErr: true},
		{name: "blank school", np: plan.NewPlan{Periode: "2024", SchoolIDs: []string{" "}}, wantErr: true},
		{name: "unknown question", np: plan.NewPlan{Periode: "2024", Answers: assessment.AnswerSet{"k9": "yes"}}, wantErr: true},
		{name: "unknown option", np: plan.NewPlan{Periode: "2024", Answers: assessment.AnswerSet{"k1": "maybe"}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.np.Validate(validate)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewPlan.Validate() error = %v; wantErr %v", err, tt.wantErr)
			}
		})
	}

	np := plan.NewPlan{Periode: " 2024/2025 ", SchoolIDs: []string{"b", "a", "b"}, Answers: assessment.AnswerSet{"k1": "Ya"}}
	require.NoError(t, np.Validate(validate))
	assert.Equal(t, "2024/2025", np.Periode)
	assert.Equal(t, []string{"b", "a"}, np.SchoolIDs)
	assert.Equal(t, assessment.AnswerSet{assessment.K1: assessment.OptionYes}, np.Answers)
}

func TestUpdatePlan_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*plan.UpdatePlan)
		wantErr bool
	}{
		{name: "complete", mutate: func(*plan.UpdatePlan) {}},
		{name: "unknown section", mutate: func(up *plan.UpdatePlan) { up.Sections["lol"] = "x" }, wantErr: true},
		{name: "unknown method", mutate: func(up *plan.UpdatePlan) { up.SelectedMethodIDs = append(up.SelectedMethodIDs, "lol") }, wantErr: true},
		{name: "no methods", mutate: func(up *plan.UpdatePlan) { up.SelectedMethodIDs = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := completeUpdate()
			tt.mutate(&up)
			err := up.Validate(validate)
			if (err != nil) != tt.wantErr {
				t.Errorf("UpdatePlan.Validate() error = %v; wantErr %v", err, tt.wantErr)
			}
		})
	}

	up := completeUpdate()
	up.SelectedMethodIDs = []method.ID{method.Coaching, method.Coaching, method.Training}
	require.NoError(t, up.Validate(validate))
	assert.Equal(t, []method.ID{method.Coaching, method.Training}, up.SelectedMethodIDs)
}
