package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/yucheyahyasukaca/pengawas-sub001/core"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/plan"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/recap"
)

type recapApi struct {
	svc *recap.Service
}

func registerRecapAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *recap.Service) {
	api := recapApi{svc: svc}
	g.GET("/recap", api.generate, jwt, pengawasMiddleware())
}

func (api *recapApi) generate(ctx echo.Context) error {
	sup, err := getContextSupervisor(ctx)
	if err != nil {
		return err
	}
	var filter recap.Filter
	if err = ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to recap.Filter")
	}
	filter.Periode = core.CleanString(filter.Periode)
	filter.Status = plan.Status(core.CleanString(string(filter.Status), true /* lower */))
	if err = checkStatusFilter(filter.Status); err != nil {
		return err
	}

	rows, err := api.svc.Generate(ctx.Request().Context(), sup, filter)
	if err != nil {
		return errors.Wrap(err, "generating recap")
	}
	return ctx.JSON(http.StatusOK, rows)
}
