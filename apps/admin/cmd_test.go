package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/yucheyahyasukaca/pengawas-sub001/apps/api/echo"
	"github.com/yucheyahyasukaca/pengawas-sub001/core"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/method"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/plan"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/recap"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/school"
	emailsvc "github.com/yucheyahyasukaca/pengawas-sub001/services/email"
	dummydb "github.com/yucheyahyasukaca/pengawas-sub001/storage/database/dummy"
	testutil "github.com/yucheyahyasukaca/pengawas-sub001/tests"
)

var conf = &core.Config{
	AppName:   "Pengawas",
	SecretKey: "secret",
	Server:    core.ServerConfig{JWTExpirationDelta: time.Hour},
}

func setup(t *testing.T) (*commandLine, plan.Repository, *bytes.Buffer) {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	db.SeedSchools(school.School{ID: "sch-1", NPSN: "20100001", Name: "SD Negeri 1 Sukamaju"})

	// never connects: the migration runner is mocked
	sqlDB, err := sql.Open("postgres", "host=localhost dbname=pengawas_test sslmode=disable")
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	logger := &core.NopLogger{}
	planRepo := dummydb.NewPlanRepository(db)
	plans := plan.NewService(planRepo, emailsvc.NewConsoleServiceMock(conf, logger), logger)
	schools := school.NewService(dummydb.NewSchoolRepository(db))

	out := new(bytes.Buffer)
	return &commandLine{
		conf:     conf,
		db:       sqlDB,
		recapSvc: recap.NewService(plans, schools, logger),
		out:      out,
	}, planRepo, out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func (tt cliTest) check(t *testing.T, err error) {
	t.Helper()
	switch {
	case err == nil:
		if tt.wantErr != nil || tt.wantErrStr != "" {
			t.Errorf("cli.run() error = nil, wantErr %v %s", tt.wantErr, tt.wantErrStr)
		}
	case tt.wantErr != nil:
		if err != tt.wantErr {
			t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
		}
	case tt.wantErrStr != "":
		if !strings.Contains(err.Error(), tt.wantErrStr) {
			t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
		}
	default:
		t.Errorf("cli.run() unexpected error = %v", err)
	}
}

func Test_commandLine_run(t *testing.T) {
	cli, _, _ := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "recap without supervisor", args: []string{"recap"}, wantErr: errHelp},
		{name: "recap bad status", args: []string{"recap", "-supervisor", "sup-1", "-status", "arsip"}, wantErrStr: "unknown status"},
		{name: "recap unknown flag", args: []string{"recap", "-lol"}, wantErrStr: "flag provided but not defined"},
		{name: "token without name", args: []string{"token", "-supervisor", "sup-1"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(args))
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _, _ := setup(t)

	runMigrationsFunc = func(db *sql.DB, command string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "create", args: []string{"migrate", "create", "add_visits", "sql"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(args))
		})
	}

	t.Run("no database", func(t *testing.T) {
		noDB := &commandLine{conf: conf, out: new(bytes.Buffer)}
		assert.Equal(t, errNoDatabase, noDB.run([]string{"admin", "migrate", "up"}))
	})
}

func Test_commandLine_recap(t *testing.T) {
	cli, planRepo, out := setup(t)
	sup := testutil.Supervisor
	now := time.Now().UTC()
	methods := []method.ID{method.Coaching}
	akhir := testutil.CreatePlan(t, planRepo, sup, "2024/2025", []string{"sch-1"}, testutil.AkhirAnswers(), methods, nil, now.Add(-2*time.Hour))
	utama := testutil.CreatePlan(t, planRepo, sup, "2024/2025", []string{"sch-1"}, testutil.UtamaAnswers(), methods, nil, now.Add(-time.Hour))
	_ = testutil.CreatePlan(t, planRepo, sup, "2023/2024", nil, nil, nil, nil, now)

	t.Run("json", func(t *testing.T) {
		isTerminalFunc = func() bool { return true }
		out.Reset()
		require.NoError(t, cli.run([]string{"admin", "recap", "-supervisor", sup.ID, "-periode", "2024/2025", "-json"}))

		var rows []recap.Row
		require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
		require.Len(t, rows, 2)
		assert.Equal(t, utama.ID, rows[0].PlanID)
		assert.Equal(t, akhir.ID, rows[1].PlanID)
		assert.Equal(t, []string{"SD Negeri 1 Sukamaju"}, rows[0].Schools)
	})

	t.Run("piped output is json", func(t *testing.T) {
		isTerminalFunc = func() bool { return false }
		out.Reset()
		require.NoError(t, cli.run([]string{"admin", "recap", "-supervisor", "sup-unknown"}))
		assert.Equal(t, "[]\n", out.String())
	})

	t.Run("table", func(t *testing.T) {
		isTerminalFunc = func() bool { return true }
		out.Reset()
		require.NoError(t, cli.run([]string{"admin", "recap", "-supervisor", sup.ID}))

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 4)
		assert.True(t, strings.HasPrefix(lines[0], "NO"))
		assert.Contains(t, lines[1], "Prioritas Utama")
		assert.Contains(t, lines[2], "Prioritas Akhir")
		assert.Contains(t, lines[3], "2023/2024")
		assert.Contains(t, lines[3], "Belum ditentukan")
	})

	t.Run("empty table", func(t *testing.T) {
		isTerminalFunc = func() bool { return true }
		out.Reset()
		require.NoError(t, cli.run([]string{"admin", "recap", "-supervisor", "sup-unknown"}))
		assert.Equal(t, "Belum ada rencana program.\n", out.String())
	})
}

func Test_commandLine_token(t *testing.T) {
	cli, _, out := setup(t)

	require.NoError(t, cli.run([]string{"admin", "token", "-supervisor", "sup-9", "-name", "Siti", "-email", "Siti@Pengawas.test"}))

	claims := new(echoapi.Claims)
	_, err := jwt.ParseWithClaims(strings.TrimSpace(out.String()), claims, func(*jwt.Token) (interface{}, error) {
		return []byte(conf.SecretKey), nil
	})
	require.NoError(t, err)
	assert.Equal(t, core.Supervisor{ID: "sup-9", Name: "Siti", Email: "siti@pengawas.test"}, claims.Supervisor())
	assert.True(t, claims.IsPengawas)
}
