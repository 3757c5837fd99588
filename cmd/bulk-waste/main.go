// bulk-waste sweeps the catalog for expired and exhausted items and routes
// them to the waste manifest in one pass. Operator tooling; the server does
// the same on demand via POST /api/waste/identify.
package main

import (
	"context"
	"os"
	"time"

	"github.com/Tusker13-04/interstellar/internal/planner"
	"github.com/Tusker13-04/interstellar/internal/redis"
	"github.com/Tusker13-04/interstellar/internal/service"
	"github.com/Tusker13-04/interstellar/pkg/fmtt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	var (
		redisAddr string
		redisDB   int
		clockStr  string
		dryRun    bool
	)

	root := &cobra.Command{
		Use:   "bulk-waste",
		Short: "Classify expired/exhausted cargo and append it to the waste manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := buildLogger()
			defer log.Sync()
			log = log.Named("main")

			clock := time.Now().UTC()
			if clockStr != "" {
				ts, err := service.ParseTimestamp(clockStr)
				if err != nil {
					fmtt.PrintErrChain(err)
					return err
				}
				clock = ts
			}

			repo := redis.NewRepository(log, redisAddr, redisDB)
			defer repo.Close()

			logSvc := service.NewLogService(log, repo.Logs)
			svc := service.NewStowageService(log, repo, planner.New(log, planner.DefaultOptions()), logSvc)

			ctx := context.Background()

			if dryRun {
				w, err := svc.LoadWorld(ctx)
				if err != nil {
					fmtt.PrintErrChain(err)
					return err
				}
				entries := planner.New(log, planner.DefaultOptions()).ClassifyWaste(w, clock)
				for _, e := range entries {
					log.Info("would route to waste",
						zap.Int64("item", e.ItemID),
						zap.String("name", e.Name),
						zap.String("reason", string(e.Reason)))
				}
				log.Info("dry run complete", zap.Int("candidates", len(entries)))
				return nil
			}

			start := time.Now()
			entries, err := svc.IdentifyWaste(ctx, clock)
			if err != nil {
				fmtt.PrintErrChain(err)
				return err
			}
			for _, e := range entries {
				log.Info("routed to waste",
					zap.Int64("item", e.ItemID),
					zap.String("name", e.Name),
					zap.String("reason", string(e.Reason)),
					zap.String("container", e.ContainerID))
			}
			log.Info("sweep complete",
				zap.Int("routed", len(entries)),
				zap.Duration("took", time.Since(start)))
			return nil
		},
	}

	root.Flags().StringVar(&redisAddr, "redis-addr", "localhost:6379", "redis address")
	root.Flags().IntVar(&redisDB, "redis-db", 0, "redis database")
	root.Flags().StringVar(&clockStr, "clock", "", "classification clock (default: now, UTC)")
	root.Flags().BoolVar(&dryRun, "dry-run", false, "report candidates without mutating anything")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildLogger() *zap.Logger {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.EncoderConfig.TimeKey = ""
	logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logConfig.DisableStacktrace = true
	logConfig.DisableCaller = true
	logConfig.Level.SetLevel(zap.DebugLevel)
	return zap.Must(logConfig.Build())
}
