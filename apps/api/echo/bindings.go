package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/registrar/core"
)

var orderingParam = "ordering"

// Ordering is bound from `?ordering=name,-createdAt`; a leading "-" sorts descending.
type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	val := strings.TrimSpace(ctx.QueryParam(orderingParam))
	if val == "" {
		return
	}

	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

// populateParam reports whether the request asks for subjects to be expanded.
func populateParam(ctx echo.Context) bool {
	return core.ParseFlag(ctx.QueryParam("populate_subjects"))
}
