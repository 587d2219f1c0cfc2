package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/pro-scheduler/internal/audit"
	"github.com/BruksfildServices01/pro-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/pro-scheduler/internal/db"
	infraRepo "github.com/BruksfildServices01/pro-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/pro-scheduler/internal/lock"
	"github.com/BruksfildServices01/pro-scheduler/internal/logger"
	"github.com/BruksfildServices01/pro-scheduler/internal/metrics"
	"github.com/BruksfildServices01/pro-scheduler/internal/middleware"
	"github.com/BruksfildServices01/pro-scheduler/internal/notification"
	"github.com/BruksfildServices01/pro-scheduler/internal/routes"
	"github.com/BruksfildServices01/pro-scheduler/internal/storage"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "pro-scheduler",
		Short:        "Appointment booking API for service professionals",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply migrations before serving")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.New(cfg.LogLevel, cfg.Env)

			db, err := dbpkg.NewDB(cfg)
			if err != nil {
				return err
			}
			return dbpkg.Migrate(cmd.Context(), db, log)
		},
	}
}

func runServer(migrate bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel, cfg.Env)

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to database")
		return err
	}
	log.Info().Msg("connected to database")

	if migrate {
		if err := dbpkg.Migrate(context.Background(), db, log); err != nil {
			return err
		}
	}

	locker, err := newLocker(cfg, log)
	if err != nil {
		return err
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New("pro_scheduler")
	}

	opts := []notification.Option{notification.WithMetrics(m)}
	if cfg.S3Enabled() {
		store, err := storage.NewS3Store(storage.Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretKey,
		})
		if err != nil {
			return err
		}
		opts = append(opts, notification.WithInviteStore(store))
		log.Info().Str("bucket", cfg.S3Bucket).Msg("calendar invites stored in S3")
	}

	var sender notification.Sender
	if cfg.MailEnabled() {
		sender = notification.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	} else {
		sender = notification.NewLogSender(log)
		log.Warn().Msg("SMTP not configured, confirmations are only logged")
	}

	notifier := notification.NewDispatcher(sender, infraRepo.NewAppointmentGormRepository(db), log, opts...)
	auditor := audit.NewDispatcher(audit.New(db), log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(log), gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Log:      log,
		Locker:   locker,
		Notifier: notifier,
		Auditor:  auditor,
		Metrics:  m,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	// Late dispatches from requests still running are dropped.
	notifier.Close()
	auditor.Close()

	log.Info().Msg("server stopped")
	return nil
}

func newLocker(cfg *config.Config, log zerolog.Logger) (lock.Locker, error) {
	if cfg.RedisURL == "" {
		log.Info().Msg("using in-process booking lock")
		return lock.NewLocalLocker(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := lock.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	log.Info().Msg("using redis booking lock")
	return lock.NewRedisLocker(client, cfg.LockTTL()), nil
}
