package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/yucheyahyasukaca/pengawas-sub001/core"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/method"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/plan"
)

type (
	planApi struct {
		svc      *plan.Service
		validate *validator.Validate
	}

	planResponse struct {
		Plan    plan.Document `json:"plan"`
		View    plan.View     `json:"view"`
		Applied *bool         `json:"applied,omitempty"` // step saves only
	}
)

func registerPlanAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *plan.Service, validate *validator.Validate) {
	api := planApi{
		svc:      svc,
		validate: validate,
	}

	pg := g.Group("/plans", jwt, pengawasMiddleware())
	pg.POST("", api.start)
	pg.GET("", api.query)

	// detail endpoints
	dg := pg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.saveDraft)
	dg.PUT("/steps/:step", api.saveStep)
	dg.POST("/methods/:method/toggle", api.toggleMethod)
	dg.POST("/publish", api.publish)
}

func (api *planApi) respond(ctx echo.Context, code int, doc plan.Document, applied ...bool) error {
	layout, err := bindLayout(ctx)
	if err != nil {
		return err
	}
	res := planResponse{Plan: doc, View: api.svc.View(doc, layout)}
	if len(applied) > 0 {
		res.Applied = &applied[0]
	}
	return ctx.JSON(code, res)
}

// Handlers

func (api *planApi) start(ctx echo.Context) error {
	sup, err := getContextSupervisor(ctx)
	if err != nil {
		return err
	}
	var data plan.NewPlan
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPlan")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	doc, created, err := api.svc.Start(ctx.Request().Context(), sup, data)
	if err != nil {
		return errors.Wrap(err, "starting plan")
	}
	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	return api.respond(ctx, code, doc)
}

func (api *planApi) query(ctx echo.Context) error {
	sup, err := getContextSupervisor(ctx)
	if err != nil {
		return err
	}
	var filter plan.QueryFilter
	if err = ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()
	if err = checkStatusFilter(filter.Status); err != nil {
		return err
	}
	var ord Ordering
	ord.Bind(ctx)

	docs, err := api.svc.Query(ctx.Request().Context(), sup, filter, ord.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying plans")
	}
	return ctx.JSON(http.StatusOK, docs)
}

// checkStatusFilter rejects a status query parameter that names no plan status.
func checkStatusFilter(s plan.Status) error {
	if s != "" && !s.Valid() {
		return core.NewValidationError(nil, core.FieldError{Field: "status", Error: "status harus draft atau terbit"})
	}
	return nil
}

func (api *planApi) retrieve(ctx echo.Context) error {
	sup, err := getContextSupervisor(ctx)
	if err != nil {
		return err
	}
	doc, err := api.svc.Get(ctx.Request().Context(), sup, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting plan")
	}
	return api.respond(ctx, http.StatusOK, doc)
}

func (api *planApi) saveDraft(ctx echo.Context) error {
	sup, err := getContextSupervisor(ctx)
	if err != nil {
		return err
	}
	var data plan.UpdatePlan
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdatePlan")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	doc, err := api.svc.SaveDraft(ctx.Request().Context(), sup, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "saving draft")
	}
	return api.respond(ctx, http.StatusOK, doc)
}

func (api *planApi) saveStep(ctx echo.Context) error {
	sup, err := getContextSupervisor(ctx)
	if err != nil {
		return err
	}
	step, err := strconv.Atoi(ctx.Param("step"))
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "step", Error: "langkah harus berupa angka"})
	}
	var data plan.StepInput
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StepInput")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	doc, applied, err := api.svc.SaveStep(ctx.Request().Context(), sup, ctx.Param("id"), step, data)
	if err != nil {
		return errors.Wrap(err, "saving step")
	}
	return api.respond(ctx, http.StatusOK, doc, applied)
}

func (api *planApi) toggleMethod(ctx echo.Context) error {
	sup, err := getContextSupervisor(ctx)
	if err != nil {
		return err
	}
	doc, err := api.svc.ToggleMethod(ctx.Request().Context(), sup, ctx.Param("id"), method.ID(core.CleanString(ctx.Param("method"), true /* lower */)))
	if err != nil {
		return errors.Wrap(err, "toggling method")
	}
	return api.respond(ctx, http.StatusOK, doc)
}

func (api *planApi) publish(ctx echo.Context) error {
	sup, err := getContextSupervisor(ctx)
	if err != nil {
		return err
	}
	doc, err := api.svc.Publish(ctx.Request().Context(), sup, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "publishing plan")
	}
	return api.respond(ctx, http.StatusOK, doc)
}
