package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/veiligstallen/reports/internal/domain"
)

// ManageCache runs one lifecycle action against one cache family and
// returns the table's post-action status.
func (c *Controller) ManageCache(ctx echo.Context) error {
	var params domain.CacheParams
	if err := ctx.Bind(&params); err != nil {
		return err
	}
	if err := ctx.Validate(&params); err != nil {
		return err
	}

	family := domain.CacheFamily(ctx.Param("family"))

	status, err := c.cache.Manage(ctx.Request().Context(), family, params)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, status)
}

func (c *Controller) CacheStatusAll(ctx echo.Context) error {
	statuses, err := c.cache.StatusAll(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, statuses)
}
