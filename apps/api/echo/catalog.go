package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/yucheyahyasukaca/pengawas-sub001/core/assessment"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/method"
)

type catalogApi struct {
	validate *validator.Validate
}

// classifyRequest is the body of POST /assessment/classify.
type classifyRequest struct {
	Answers assessment.AnswerSet `json:"answers" validate:"omitempty,answerset"`
}

func registerCatalogAPI(g *echo.Group, validate *validator.Validate) {
	api := catalogApi{validate: validate}

	g.GET("/methods", api.queryMethods)
	g.GET("/strategies", api.queryStrategies)
	g.GET("/assessment/questions", api.queryQuestions)
	g.POST("/assessment/classify", api.classify)
}

func (api *catalogApi) queryMethods(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, method.All())
}

func (api *catalogApi) queryStrategies(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, assessment.Matrix())
}

func (api *catalogApi) queryQuestions(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, assessment.Questions())
}

func (api *catalogApi) classify(ctx echo.Context) error {
	var data classifyRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to classifyRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, assessment.Classify(data.Answers.Clean()))
}
