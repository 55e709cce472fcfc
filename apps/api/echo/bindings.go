package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/yucheyahyasukaca/pengawas-sub001/core"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/plan"
)

var orderingParam = "ordering"

// Ordering is bound from `?ordering=-updated_at,periode`; a leading "-" sorts descending.
type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	data := ctx.QueryParams()
	if len(data) == 0 {
		return
	}
	val, ok := data[orderingParam]
	if !ok || len(val) == 0 || val[0] == "" {
		return
	}

	for _, field := range strings.Split(val[0], ",") {
		field = strings.TrimSpace(field)
		if field == "" || field == "-" {
			continue
		}
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

// bindLayout reads ?layout=; it selects the progress layout: wizard (default) or sections.
func bindLayout(ctx echo.Context) (plan.Layout, error) {
	name := strings.ToLower(strings.TrimSpace(ctx.QueryParam("layout")))
	layout, ok := plan.LayoutByName(name)
	if !ok {
		return plan.Layout{}, core.NewValidationError(nil, core.FieldError{Field: "layout", Error: "layout harus wizard atau sections"})
	}
	return layout, nil
}
