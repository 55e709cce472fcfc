package main

import (
	"fmt"

	echoapi "github.com/yucheyahyasukaca/pengawas-sub001/apps/api/echo"
	"github.com/yucheyahyasukaca/pengawas-sub001/core"
)

// token prints a signed pengawas token for sup, for local testing against the API.
func (cli *commandLine) token(sup core.Supervisor) error {
	token, err := echoapi.GenerateToken(echoapi.NewSupervisorClaims(sup, cli.conf), cli.conf.SecretKey)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cli.out, token)
	return err
}
