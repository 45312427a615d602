package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"

	"github.com/veiligstallen/reports/internal/pkg/constants"
)

// sonicBinder decodes JSON bodies with sonic and defers everything else
// (path/query params) to echo's default binder.
type sonicBinder struct {
	fallback echo.DefaultBinder
}

func NewBinder() *sonicBinder {
	return &sonicBinder{}
}

func (b *sonicBinder) Bind(i interface{}, c echo.Context) error {
	req := c.Request()
	if req.ContentLength != 0 && strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		if err := sonic.ConfigDefault.NewDecoder(req.Body).Decode(i); err != nil {
			return fmt.Errorf("%w: %s", constants.ErrInvalidParams, err.Error())
		}
		return b.fallback.BindPathParams(c, i)
	}
	return b.fallback.Bind(i, c)
}

// sonicSerializer renders JSON responses with sonic.
type sonicSerializer struct{}

func (sonicSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := sonic.ConfigDefault.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (sonicSerializer) Deserialize(c echo.Context, i interface{}) error {
	err := sonic.ConfigDefault.NewDecoder(c.Request().Body).Decode(i)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return err
}
