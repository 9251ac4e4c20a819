package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/registrar/core"
)

// registerCatalogAPI exposes the closed enumerations so that clients can build their pickers.
func registerCatalogAPI(g *echo.Group, jwt echo.MiddlewareFunc) {
	cg := g.Group("/catalog", jwt)
	cg.GET("/academic-levels", listChoices(core.AcademicLevelChoices))
	cg.GET("/classifications", listChoices(core.ClassificationChoices))
	cg.GET("/period-denominations", listChoices(core.PeriodDenominationChoices))
}

func listChoices(choices func() []core.Choice) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, echo.Map{"choices": choices()})
	}
}
