package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core/subject"
)

type subjectApi struct {
	svc      subject.ServiceInterface
	validate *validator.Validate
}

func registerSubjectAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc subject.ServiceInterface, validate *validator.Validate) {
	api := subjectApi{
		svc:      svc,
		validate: validate,
	}

	sg := g.Group("/subjects", jwt)
	sg.GET("", api.query)
	sg.POST("", api.create)
	sg.GET("/:id", api.retrieve)
	sg.PUT("/:id", api.update)
	sg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *subjectApi) query(ctx echo.Context) error {
	filter := new(subject.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, echo.Map{"subjects": []subject.Subject{}})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	subjects, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"subjects": subjects})
}

func (api *subjectApi) create(ctx echo.Context) error {
	var data subject.NewSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}

	reqCtx := ctx.Request().Context()
	if err := data.Validate(reqCtx, api.validate, api.svc); err != nil {
		return err
	}
	s, err := api.svc.Create(reqCtx, data)
	if err != nil {
		return errors.Wrap(err, "creating subject")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"subject": s})
}

func (api *subjectApi) retrieve(ctx echo.Context) error {
	s, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding subject")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"subject": s})
}

func (api *subjectApi) update(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	orig, err := api.svc.GetByID(reqCtx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding subject")
	}

	var data subject.UpdateSubject
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSubject")
	}
	if err = data.Validate(reqCtx, orig, api.validate, api.svc); err != nil {
		return err
	}
	s, err := api.svc.Update(reqCtx, orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating subject")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"subject": s})
}

func (api *subjectApi) destroy(ctx echo.Context) error {
	s, err := api.svc.Archive(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "archiving subject")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"subject": s})
}
