package api

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"

	"github.com/veiligstallen/reports/internal/api/controller"
	"github.com/veiligstallen/reports/internal/pkg/constants"
	"github.com/veiligstallen/reports/internal/pkg/logger"
	"github.com/veiligstallen/reports/internal/pkg/store"
	cacheService "github.com/veiligstallen/reports/internal/service/cache"
	reportService "github.com/veiligstallen/reports/internal/service/report"
)

type APIService struct {
	router        *echo.Echo
	reportService *reportService.Service
	cacheService  *cacheService.Service
}

func (svc *APIService) Serve(addr string) {
	logger.Fatal(context.Background(), svc.router.Start(addr))
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

func NewAPIService(store store.Store) (*APIService, error) {
	svc := &APIService{router: echo.New()}

	svc.router.HideBanner = true
	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.JSONSerializer = sonicSerializer{}
	svc.router.HTTPErrorHandler = httpErrorHandler
	svc.router.Use(RequestIDMiddleware)
	svc.router.Use(middleware.Logger())
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: viper.GetStringSlice(constants.ViperAllowedOrigins),
		AllowMethods: []string{echo.GET, echo.POST},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}))

	svc.reportService = reportService.NewReportService(store)
	svc.cacheService = cacheService.NewCacheService(store, cacheClearHorizonDays())

	api := svc.router.Group("/api/v1", svc.AuthContextMiddleware)
	cntrl := controller.NewController(svc.reportService, svc.cacheService)

	reports := api.Group("/reports")
	reports.POST("/transacties/totals", cntrl.TransactionTotals)
	reports.POST("/:reportType", cntrl.RunReport)

	api.GET("/cache/status", cntrl.CacheStatusAll)

	cache := api.Group("/cache", svc.RequireReportsAdmin)
	cache.POST("/:family", cntrl.ManageCache)

	return svc, nil
}

func cacheClearHorizonDays() int {
	days := viper.GetInt(constants.ViperCacheClearHorizonDays)
	if days <= 0 {
		days = 10 * 365
	}
	return days
}
