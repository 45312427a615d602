package api

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/veiligstallen/reports/internal/domain"
	"github.com/veiligstallen/reports/internal/pkg/constants"
	"github.com/veiligstallen/reports/internal/pkg/logger"
	"github.com/veiligstallen/reports/internal/pkg/utils"
)

// RequestIDMiddleware tags every request with an id that shows up in log
// lines and in the response headers.
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		requestID := ctx.Request().Header.Get(echo.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx.Set(constants.CtxKeyRequestID, requestID)
		ctx.Response().Header().Set(echo.HeaderXRequestID, requestID)

		req := ctx.Request()
		ctx.SetRequest(req.WithContext(logger.WithRequestID(req.Context(), requestID)))

		return next(ctx)
	}
}

// AuthContextMiddleware extracts the caller's authorization context from
// the bearer token (or the secret cookie) minted by the surrounding
// application. No context means no access at all.
func (svc *APIService) AuthContextMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		tokenStr := ""
		if header := ctx.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(header, "Bearer ") {
			tokenStr = strings.TrimPrefix(header, "Bearer ")
		} else if cookie, err := ctx.Cookie(constants.CookieKeySecretToken); err == nil {
			tokenStr = cookie.Value
		}
		if tokenStr == "" {
			return constants.ErrUnauthorized
		}

		auth, err := utils.ParseContextToken(tokenStr)
		if err != nil {
			return err
		}

		ctx.Set(constants.CtxKeyAuthContext, *auth)
		return next(ctx)
	}
}

// RequireReportsAdmin guards the cache administration surface.
func (svc *APIService) RequireReportsAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		auth, ok := ctx.Get(constants.CtxKeyAuthContext).(domain.AuthContext)
		if !ok || !auth.ReportsAdmin {
			return constants.ErrForbidden
		}
		return next(ctx)
	}
}
