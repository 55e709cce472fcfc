package echoapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	. "github.com/yucheyahyasukaca/pengawas-sub001/apps/api/echo"
	"github.com/yucheyahyasukaca/pengawas-sub001/core"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/assessment"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/method"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/plan"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/recap"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/school"
	emailsvc "github.com/yucheyahyasukaca/pengawas-sub001/services/email"
	dummydb "github.com/yucheyahyasukaca/pengawas-sub001/storage/database/dummy"
)

var (
	conf = &core.Config{
		AppName:          "Pengawas",
		SecretKey:        "secret",
		TestMode:         true,
		DefaultFromEmail: mail.Address{Name: "Pengawas", Address: "noreply@pengawas.test"},
		Server:           core.ServerConfig{JWTExpirationDelta: 10 * time.Minute},
	}

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

type (
	httpErr struct {
		Error string `json:"error"`
	}

	planResponse struct {
		Plan    plan.Document `json:"plan"`
		View    plan.View     `json:"view"`
		Applied *bool         `json:"applied"`
	}

	fixture struct {
		srv      *Server
		planRepo plan.Repository
		db       *dummydb.DB
	}
)

func setup(t *testing.T) fixture {
	t.Helper()
	db, err := dummydb.Open()
	require.NoError(t, err)
	db.SeedSchools(
		school.School{ID: "sch-1", NPSN: "20100001", Name: "SD Negeri 1 Sukamaju"},
		school.School{ID: "sch-2", NPSN: "20100002", Name: "SD Negeri 2 Sukamaju"},
	)

	translator := core.NewTranslator()
	validate := validator.New()
	core.InitValidators(validate, translator)
	assessment.InitValidators(validate, translator)
	method.InitValidators(validate, translator)
	plan.InitValidators(validate, translator)

	logger := &core.NopLogger{}
	planRepo := dummydb.NewPlanRepository(db)
	planSvc := plan.NewService(planRepo, emailsvc.NewConsoleServiceMock(conf, logger), logger)
	schoolSvc := school.NewService(dummydb.NewSchoolRepository(db))
	recapSvc := recap.NewService(planSvc, schoolSvc, logger)

	srv := NewServer(ServerDeps{
		Conf:           conf,
		Logger:         logger,
		PlanSvc:        planSvc,
		RecapSvc:       recapSvc,
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
	})
	t.Cleanup(func() { _ = srv.Close() })
	return fixture{srv: srv, planRepo: planRepo, db: db}
}

func getToken(t *testing.T, sup core.Supervisor) string {
	t.Helper()
	token, err := GenerateToken(NewSupervisorClaims(sup, conf), conf.SecretKey)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

// do serves one request and returns the recorder.
func (f fixture) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case []byte:
		buf.Write(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			panic(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode() failed: %v; body %s", err, rec.Body.String())
	}
}

func requireCode(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, want, rec.Body.String())
	}
}

var _ http.Handler = (*Server)(nil) // interface compliance check
