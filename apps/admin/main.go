package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/yucheyahyasukaca/pengawas-sub001/core"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/plan"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/recap"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/school"
	emailsvc "github.com/yucheyahyasukaca/pengawas-sub001/services/email"
	logsvc "github.com/yucheyahyasukaca/pengawas-sub001/services/logger"
	"github.com/yucheyahyasukaca/pengawas-sub001/storage/database"
	sqlxrepos "github.com/yucheyahyasukaca/pengawas-sub001/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	stdLogger := log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)

	cli := commandLine{conf: conf, out: os.Stdout}
	if needsDatabase(os.Args) {
		if conf.Database.InMemory() {
			logger.Fatal("the admin commands need a postgres database (set DATABASE_DRIVER=postgres)")
		}
		db, err := openDB(conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		defer db.Close()

		plans := plan.NewService(sqlxrepos.NewPlanRepository(db), emailsvc.NewConsoleService(conf, logger), logger)
		schools := school.NewService(sqlxrepos.NewSchoolRepository(db))
		cli.db = db.DB
		cli.recapSvc = recap.NewService(plans, schools, logger)
	}

	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			stdLogger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func openDB(conf *core.Config) (*sqlx.DB, error) {
	ctx := context.Background()
	if err := database.CreateIfNotExist(ctx, conf); err != nil {
		return nil, err
	}
	return database.Open(ctx, conf)
}

// needsDatabase reports whether the subcommand in args talks to storage.
func needsDatabase(args []string) bool {
	if len(args) < 2 {
		return false
	}
	switch args[1] {
	case "migrate", "recap":
		return true
	}
	return false
}
