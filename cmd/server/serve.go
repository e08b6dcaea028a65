package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	httpDelivery "github.com/dealscout/backend/internal/delivery/http"
	"github.com/dealscout/backend/internal/infrastructure/scheduler"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var servePort string

// limiterIdle is how long a client IP may stay quiet before its bucket is dropped
const limiterIdle = 10 * time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := buildApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer env.Close()

		limiter := httpDelivery.NewIPRateLimiter(cfg.RateLimit.PerIP)

		jobs := append(env.sweepJobs(), scheduler.Job{
			Name: "ratelimit",
			Run:  func() int { return limiter.Sweep(limiterIdle) },
		})
		sweeper, err := scheduler.NewSweeper(cfg.Cache.SweepSchedule, jobs...)
		if err != nil {
			return err
		}
		sweeper.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			sweeper.Stop(stopCtx)
		}()

		router := httpDelivery.SetupRouter(cfg, httpDelivery.NewHandler(env.Search), limiter)

		port := servePort
		if port == "" {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%s", port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				zap.L().Warn("server shutdown", zap.Error(err))
			}
		}()

		zap.L().Info("starting server",
			zap.String("port", port),
			zap.String("environment", cfg.Server.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
