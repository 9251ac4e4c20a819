package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core/career"
	"github.com/trezcool/registrar/core/studyplan"
)

type careerApi struct {
	svc      career.ServiceInterface
	plans    studyplan.ServiceInterface
	validate *validator.Validate
}

func registerCareerAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc career.ServiceInterface,
	plans studyplan.ServiceInterface,
	validate *validator.Validate,
) {
	api := careerApi{
		svc:      svc,
		plans:    plans,
		validate: validate,
	}

	cg := g.Group("/careers", jwt)
	cg.GET("", api.query)
	cg.POST("", api.create)
	cg.GET("/:id", api.retrieve)
	cg.PUT("/:id", api.update)
	cg.DELETE("/:id", api.destroy)
	cg.GET("/:id/study-plans", api.studyPlans)
}

// Handlers

func (api *careerApi) query(ctx echo.Context) error {
	filter := new(career.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, echo.Map{"careers": []career.Career{}})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	careers, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying careers")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"careers": careers})
}

func (api *careerApi) create(ctx echo.Context) error {
	var data career.NewCareer
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCareer")
	}

	reqCtx := ctx.Request().Context()
	if err := data.Validate(reqCtx, api.validate, api.svc); err != nil {
		return err
	}
	c, err := api.svc.Create(reqCtx, data)
	if err != nil {
		return errors.Wrap(err, "creating career")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"career": c})
}

func (api *careerApi) retrieve(ctx echo.Context) error {
	c, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding career")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"career": c})
}

func (api *careerApi) update(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	orig, err := api.svc.GetByID(reqCtx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding career")
	}

	var data career.UpdateCareer
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCareer")
	}
	if err = data.Validate(reqCtx, orig, api.validate, api.svc); err != nil {
		return err
	}
	c, err := api.svc.Update(reqCtx, orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating career")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"career": c})
}

func (api *careerApi) destroy(ctx echo.Context) error {
	c, err := api.svc.Archive(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "archiving career")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"career": c})
}

// studyPlans lists the StudyPlans of a Career.
func (api *careerApi) studyPlans(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	c, err := api.svc.GetByID(reqCtx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding career")
	}

	filter := new(studyplan.QueryFilter)
	if err = ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, echo.Map{"studyPlans": []studyplan.StudyPlan{}})
	}
	filter.CareerID = c.ID
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	plans, err := api.plans.Query(reqCtx, filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying study plans")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"studyPlans": plans})
}
