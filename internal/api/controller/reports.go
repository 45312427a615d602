package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/veiligstallen/reports/internal/domain"
	"github.com/veiligstallen/reports/internal/pkg/constants"
)

func (c *Controller) RunReport(ctx echo.Context) error {
	var params domain.ReportParams
	if err := ctx.Bind(&params); err != nil {
		return err
	}
	params.ReportType = domain.ReportType(ctx.Param("reportType"))
	if err := ctx.Validate(&params); err != nil {
		return err
	}

	useCache := ctx.QueryParam("useCache") != "false"

	series, err := c.reports.Run(ctx.Request().Context(), authContext(ctx), params, useCache)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, series)
}

func (c *Controller) TransactionTotals(ctx echo.Context) error {
	var params domain.ReportParams
	if err := ctx.Bind(&params); err != nil {
		return err
	}
	params.ReportType = domain.ReportTransacties
	if err := ctx.Validate(&params); err != nil {
		return err
	}

	totals, err := c.reports.Totals(ctx.Request().Context(), authContext(ctx), params)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, totals)
}

func authContext(ctx echo.Context) domain.AuthContext {
	auth, _ := ctx.Get(constants.CtxKeyAuthContext).(domain.AuthContext)
	return auth
}
