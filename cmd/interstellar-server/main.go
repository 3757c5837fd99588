package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tusker13-04/interstellar/internal/config"
	"github.com/Tusker13-04/interstellar/internal/http/handlers"
	"github.com/Tusker13-04/interstellar/internal/planner"
	"github.com/Tusker13-04/interstellar/internal/redis"
	"github.com/Tusker13-04/interstellar/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	var configPath string

	root := &cobra.Command{
		Use:   "interstellar-server",
		Short: "Cargo stowage planning server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}
	root.Flags().StringVar(&configPath, "config", "", "path to YAML config (env vars win)")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(configPath string) error {
	log := buildLogger()
	defer log.Sync()
	log = log.Named("main")

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Error("config load failed", zap.Error(err))
		return err
	}

	repo := redis.NewRepository(log, cfg.Redis.Addr, cfg.Redis.DB)
	defer repo.Close()

	pl := planner.New(log, planner.Options{
		FillThreshold:  cfg.Placement.FillThreshold,
		SmallItemRatio: cfg.Placement.SmallItemRatio,
		CostThreshold:  cfg.Rearrange.CostThreshold,
	})

	logSvc := service.NewLogService(log, repo.Logs)
	stowageSvc := service.NewStowageService(log, repo, pl, logSvc)
	searchSvc := service.NewSearchService(log, stowageSvc, pl, service.SearchOptions{
		TTL:            1000 * time.Millisecond,
		RefreshTimeout: 500 * time.Millisecond,
	})

	h := handlers.New(log, stowageSvc, searchSvc, logSvc)
	router := handlers.NewRouter(log, cfg, h)

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: router,

		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,

		MaxHeaderBytes: 1 << 15, // 32 KB

		ErrorLog: zap.NewStdLog(log.Named("http").WithOptions(zap.AddCallerSkip(1))),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("running HTTP server", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Error("server failed", zap.Error(err))
		return err
	case sig := <-stop:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
		return err
	}
	return nil
}

func buildLogger() *zap.Logger {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.EncoderConfig.TimeKey = ""
	logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logConfig.DisableStacktrace = true
	logConfig.DisableCaller = true
	return zap.Must(logConfig.Build())
}
