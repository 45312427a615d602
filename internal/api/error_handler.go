package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/veiligstallen/reports/internal/domain"
	"github.com/veiligstallen/reports/internal/pkg/constants"
	"github.com/veiligstallen/reports/internal/pkg/logger"
)

func httpErrorHandler(err error, c echo.Context) {
	msg := err.Error()
	code := http.StatusInternalServerError
	for err != nil {
		if ce, ok := err.(*constants.CodedError); ok {
			code = ce.Code()
			break
		}
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			break
		}
		err = errors.Unwrap(err)
	}

	if code == http.StatusInternalServerError {
		// unclassified: detail goes to the server log, payload stays generic
		logger.Errorf(c.Request().Context(), "unhandled error: %s", msg)
		msg = "internal server error"
	}

	_ = c.JSON(code, domain.ErrorResponse{
		Message: msg,
		Code:    code,
	})
}
