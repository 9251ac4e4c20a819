package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core/professor"
)

type professorApi struct {
	svc      professor.ServiceInterface
	validate *validator.Validate
}

func registerProfessorAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc professor.ServiceInterface, validate *validator.Validate) {
	api := professorApi{
		svc:      svc,
		validate: validate,
	}

	pg := g.Group("/professors", jwt)
	pg.GET("", api.query)
	pg.POST("", api.create)
	pg.GET("/:id", api.retrieve)
	pg.PUT("/:id", api.update)
	pg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *professorApi) query(ctx echo.Context) error {
	filter := new(professor.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, echo.Map{"professors": []professor.Professor{}})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	professors, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying professors")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"professors": professors})
}

func (api *professorApi) create(ctx echo.Context) error {
	var data professor.NewProfessor
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProfessor")
	}

	reqCtx := ctx.Request().Context()
	if err := data.Validate(reqCtx, api.validate, api.svc); err != nil {
		return err
	}
	p, err := api.svc.Create(reqCtx, data)
	if err != nil {
		return errors.Wrap(err, "creating professor")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"professor": p})
}

func (api *professorApi) retrieve(ctx echo.Context) error {
	p, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding professor")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"professor": p})
}

// update writes the supplied fields; an empty or missing `rfc` clears the stored RFC.
func (api *professorApi) update(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	orig, err := api.svc.GetByID(reqCtx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding professor")
	}

	var data professor.UpdateProfessor
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProfessor")
	}
	if err = data.Validate(reqCtx, orig, api.validate, api.svc); err != nil {
		return err
	}
	p, err := api.svc.Update(reqCtx, orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating professor")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"professor": p})
}

func (api *professorApi) destroy(ctx echo.Context) error {
	p, err := api.svc.Archive(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "archiving professor")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"professor": p})
}
