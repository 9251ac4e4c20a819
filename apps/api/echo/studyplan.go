package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core/studyplan"
)

type studyPlanApi struct {
	svc      studyplan.ServiceInterface
	validate *validator.Validate
}

func registerStudyPlanAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc studyplan.ServiceInterface, validate *validator.Validate) {
	api := studyPlanApi{
		svc:      svc,
		validate: validate,
	}

	pg := g.Group("/study-plans", jwt)
	pg.GET("", api.query)
	pg.POST("", api.create)
	pg.GET("/:id", api.retrieve)
	pg.PUT("/:id", api.update)
	pg.DELETE("/:id", api.destroy)
	pg.POST("/:id/restore", api.restore)

	// subject associations
	pg.PUT("/:id/subjects", api.replaceSubjects)
	pg.GET("/:id/periods", api.periods)
	pg.GET("/:id/candidates", api.candidates)
}

// Handlers

func (api *studyPlanApi) query(ctx echo.Context) error {
	filter := new(studyplan.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, echo.Map{"studyPlans": []studyplan.StudyPlan{}})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	plans, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying study plans")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"studyPlans": plans})
}

func (api *studyPlanApi) create(ctx echo.Context) error {
	var data studyplan.NewStudyPlan
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudyPlan")
	}

	reqCtx := ctx.Request().Context()
	if err := data.Validate(reqCtx, api.validate, api.svc); err != nil {
		return err
	}
	sp, err := api.svc.Create(reqCtx, data)
	if err != nil {
		return errors.Wrap(err, "creating study plan")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"studyPlan": sp})
}

func (api *studyPlanApi) retrieve(ctx echo.Context) error {
	sp, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"), populateParam(ctx))
	if err != nil {
		return errors.Wrap(err, "finding study plan")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"studyPlan": sp})
}

func (api *studyPlanApi) update(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	orig, err := api.svc.GetByID(reqCtx, ctx.Param("id"), false)
	if err != nil {
		return errors.Wrap(err, "finding study plan")
	}

	var data studyplan.UpdateStudyPlan
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudyPlan")
	}
	if err = data.Validate(reqCtx, orig, api.validate, api.svc); err != nil {
		return err
	}
	if _, err = api.svc.Update(reqCtx, orig.ID, data); err != nil {
		return errors.Wrap(err, "updating study plan")
	}
	return api.respond(ctx, orig.ID)
}

func (api *studyPlanApi) destroy(ctx echo.Context) error {
	sp, err := api.svc.Archive(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "archiving study plan")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"studyPlan": sp})
}

func (api *studyPlanApi) restore(ctx echo.Context) error {
	sp, err := api.svc.Restore(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "restoring study plan")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"studyPlan": sp})
}

func (api *studyPlanApi) replaceSubjects(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	orig, err := api.svc.GetByID(reqCtx, ctx.Param("id"), false)
	if err != nil {
		return errors.Wrap(err, "finding study plan")
	}

	var data studyplan.ReplaceSubjects
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReplaceSubjects")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}
	if _, err = api.svc.ReplaceSubjects(reqCtx, orig.ID, data.Subjects); err != nil {
		return errors.Wrap(err, "replacing study plan subjects")
	}
	return api.respond(ctx, orig.ID)
}

func (api *studyPlanApi) periods(ctx echo.Context) error {
	buckets, err := api.svc.Periods(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "grouping study plan subjects")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"periods": buckets})
}

func (api *studyPlanApi) candidates(ctx echo.Context) error {
	var cf studyplan.CandidateFilter
	if err := ctx.Bind(&cf); err != nil {
		return errors.Wrap(err, "binding to CandidateFilter")
	}

	subjects, err := api.svc.Candidates(ctx.Request().Context(), ctx.Param("id"), cf)
	if err != nil {
		return errors.Wrap(err, "listing candidate subjects")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"subjects": subjects})
}

// respond sends the fresh state of a StudyPlan, populated when `populate_subjects` is set.
func (api *studyPlanApi) respond(ctx echo.Context, id string) error {
	sp, err := api.svc.GetByID(ctx.Request().Context(), id, populateParam(ctx))
	if err != nil {
		return errors.Wrap(err, "finding study plan")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"studyPlan": sp})
}
