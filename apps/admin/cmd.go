package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/yucheyahyasukaca/pengawas-sub001/core"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/plan"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/recap"
)

var (
	errHelp       = errors.New("help provided")
	errNoDatabase = errors.New("no database configured")
)

type commandLine struct {
	conf     *core.Config
	db       *sql.DB
	recapSvc *recap.Service
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose migration command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  recap -supervisor ID [-periode PERIODE] [-status draft|terbit] [-json] - print a supervisor's recap")
	fmt.Fprintln(cli.out, "  token -supervisor ID -name NAME [-email EMAIL] - issue a pengawas API token")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	recapCmd := flag.NewFlagSet("recap", flag.ContinueOnError)
	recapCmd.SetOutput(cli.out)
	recapSup := recapCmd.String("supervisor", "", "The supervisor's ID.")
	recapPeriode := recapCmd.String("periode", "", "Only plans of this period (eg. 2024/2025).")
	recapStatus := recapCmd.String("status", "", "Only plans with this status: draft or terbit.")
	recapJSON := recapCmd.Bool("json", false, "Print JSON even on a terminal.")

	tokenCmd := flag.NewFlagSet("token", flag.ContinueOnError)
	tokenCmd.SetOutput(cli.out)
	tokenSup := tokenCmd.String("supervisor", "", "The supervisor's ID (token subject).")
	tokenName := tokenCmd.String("name", "", "The supervisor's display name.")
	tokenEmail := tokenCmd.String("email", "", "The supervisor's email, used for publish notifications.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "recap":
		if err := recapCmd.Parse(args[2:]); err != nil {
			return err
		}
		if core.CleanString(*recapSup) == "" {
			recapCmd.Usage()
			return errHelp
		}
		filter := recap.Filter{
			Periode: core.CleanString(*recapPeriode),
			Status:  plan.Status(core.CleanString(*recapStatus, true /* lower */)),
		}
		if filter.Status != "" && !filter.Status.Valid() {
			return fmt.Errorf("unknown status %q: want draft or terbit", *recapStatus)
		}
		return cli.recap(core.Supervisor{ID: core.CleanString(*recapSup)}, filter, *recapJSON)
	case "token":
		if err := tokenCmd.Parse(args[2:]); err != nil {
			return err
		}
		sup := core.Supervisor{
			ID:    core.CleanString(*tokenSup),
			Name:  core.CleanString(*tokenName),
			Email: core.CleanString(*tokenEmail, true /* lower */),
		}
		if sup.ID == "" || sup.Name == "" {
			tokenCmd.Usage()
			return errHelp
		}
		return cli.token(sup)
	default:
		cli.printUsage()
		return errHelp
	}
}
