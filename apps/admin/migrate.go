package main

import (
	"github.com/yucheyahyasukaca/pengawas-sub001/storage/database"
)

var runMigrationsFunc = database.RunMigrations // mockable

func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errNoDatabase
	}
	return runMigrationsFunc(cli.db, args[0], args[1:]...)
}
