package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/yucheyahyasukaca/pengawas-sub001/apps/api/echo"
	"github.com/yucheyahyasukaca/pengawas-sub001/core"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/assessment"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/method"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/plan"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/recap"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/school"
	emailsvc "github.com/yucheyahyasukaca/pengawas-sub001/services/email"
	logsvc "github.com/yucheyahyasukaca/pengawas-sub001/services/logger"
	"github.com/yucheyahyasukaca/pengawas-sub001/storage/database"
	dummydb "github.com/yucheyahyasukaca/pengawas-sub001/storage/database/dummy"
	sqlxrepos "github.com/yucheyahyasukaca/pengawas-sub001/storage/database/sqlx"
)

type (
	DBLoggerParam struct {
		dig.In
		Logger core.Logger `name:"dbLogger"`
	}

	// Storage is the repository set picked by conf.Database.Driver. DB is nil for the memory driver.
	Storage struct {
		dig.Out
		DB      *sqlx.DB
		Plans   plan.Repository
		Schools school.Repository
	}

	ServerParam struct {
		dig.In
		Conf       *core.Config
		Logger     core.Logger
		PlanSvc    *plan.Service
		RecapSvc   *recap.Service
		Validate   *validator.Validate
		Translator ut.Translator
	}
)

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newStorage(conf *core.Config, loggerParam DBLoggerParam) Storage {
	if conf.Database.InMemory() {
		db, err := dummydb.Open()
		if err != nil {
			loggerParam.Logger.Fatal(fmt.Sprintf("opening memory database: %v", err), err)
		}
		return Storage{Plans: dummydb.NewPlanRepository(db), Schools: dummydb.NewSchoolRepository(db)}
	}

	setUp := func() (*sqlx.DB, error) {
		ctx := context.Background()
		if err := database.CreateIfNotExist(ctx, conf); err != nil {
			return nil, err
		}

		db, err := database.Open(ctx, conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(db.DB); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return Storage{DB: db, Plans: sqlxrepos.NewPlanRepository(db), Schools: sqlxrepos.NewSchoolRepository(db)}
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	assessment.InitValidators(validate, translator)
	method.InitValidators(validate, translator)
	plan.InitValidators(validate, translator)
	return validate
}

func newSchoolNamer(svc *school.Service) recap.SchoolNamer { return svc }

func newServer(p ServerParam) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:       p.Conf,
		Logger:     p.Logger,
		PlanSvc:    p.PlanSvc,
		RecapSvc:   p.RecapSvc,
		Validate:   p.Validate,
		Translator: p.Translator,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStorage))
	must(c.Provide(newEmailService))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(plan.NewService))
	must(c.Provide(school.NewService))
	must(c.Provide(newSchoolNamer))
	must(c.Provide(recap.NewService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
