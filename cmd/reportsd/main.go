package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"github.com/veiligstallen/reports/internal/api"
	"github.com/veiligstallen/reports/internal/pkg/constants"
	"github.com/veiligstallen/reports/internal/pkg/logger"
	"github.com/veiligstallen/reports/internal/pkg/store"
	"github.com/veiligstallen/reports/internal/pkg/store/xpgx"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	initConfig(ctx)

	pool, err := xpgx.NewPool(ctx, viper.GetString(constants.ViperDatabaseURL))
	if err != nil {
		logger.Fatal(ctx, err)
	}
	defer pool.Close()

	st := store.NewStore(pool, viper.GetDuration(constants.ViperSQLTimeout))

	svc, err := api.NewAPIService(st)
	if err != nil {
		logger.Fatal(ctx, err)
	}

	go svc.Serve(viper.GetString(constants.ViperListenAddr))

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := svc.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(shutdownCtx, "shutdown: %s", err.Error())
	}
}

func initConfig(ctx context.Context) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/veiligstallen-reports")
	viper.AutomaticEnv()

	viper.SetDefault(constants.ViperListenAddr, ":8080")
	viper.SetDefault(constants.ViperSQLTimeout, 30*time.Second)
	viper.SetDefault(constants.ViperCacheClearHorizonDays, 10*365)
	viper.SetDefault(constants.ViperAllowedOrigins, []string{"http://localhost:3000"})

	if err := viper.ReadInConfig(); err != nil {
		// config file is optional; env vars can carry everything
		logger.Warnf(ctx, "no config file: %s", err.Error())
	}
}
