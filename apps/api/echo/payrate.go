package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core/payrate"
)

type payRateApi struct {
	svc      payrate.ServiceInterface
	validate *validator.Validate
}

func registerPayRateAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc payrate.ServiceInterface, validate *validator.Validate) {
	api := payRateApi{
		svc:      svc,
		validate: validate,
	}

	pg := g.Group("/pay-rates", jwt)
	pg.GET("", api.query)
	pg.POST("", api.create)
	pg.GET("/:id", api.retrieve)
	pg.PUT("/:id", api.update)
	pg.DELETE("/:id", api.reset)
}

// Handlers

func (api *payRateApi) query(ctx echo.Context) error {
	filter := new(payrate.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, echo.Map{"payRates": []payrate.PayRate{}})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	rates, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying pay rates")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"payRates": rates})
}

func (api *payRateApi) create(ctx echo.Context) error {
	var data payrate.NewPayRate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPayRate")
	}

	reqCtx := ctx.Request().Context()
	if err := data.Validate(reqCtx, api.validate, api.svc); err != nil {
		return err
	}
	pr, err := api.svc.Create(reqCtx, data)
	if err != nil {
		return errors.Wrap(err, "creating pay rate")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"payRate": pr})
}

func (api *payRateApi) retrieve(ctx echo.Context) error {
	pr, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding pay rate")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"payRate": pr})
}

func (api *payRateApi) update(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	orig, err := api.svc.GetByID(reqCtx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding pay rate")
	}

	var data payrate.UpdatePayRate
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdatePayRate")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}
	pr, err := api.svc.Update(reqCtx, orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating pay rate")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"payRate": pr})
}

// reset zeroes every rate; pay rates are never removed.
func (api *payRateApi) reset(ctx echo.Context) error {
	pr, err := api.svc.Reset(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "resetting pay rate")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"payRate": pr})
}
