package controller

import (
	cacheService "github.com/veiligstallen/reports/internal/service/cache"
	reportService "github.com/veiligstallen/reports/internal/service/report"
)

type Controller struct {
	reports *reportService.Service
	cache   *cacheService.Service
}

func NewController(reports *reportService.Service, cache *cacheService.Service) *Controller {
	return &Controller{reports: reports, cache: cache}
}
