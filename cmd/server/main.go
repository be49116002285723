package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rohits-web03/optivus/internal/api"
	"github.com/rohits-web03/optivus/internal/api/handlers"
	"github.com/rohits-web03/optivus/internal/api/services"
	"github.com/rohits-web03/optivus/internal/auth"
	"github.com/rohits-web03/optivus/internal/chat"
	"github.com/rohits-web03/optivus/internal/config"
	"github.com/rohits-web03/optivus/internal/drive"
	"github.com/rohits-web03/optivus/internal/logger"
	"github.com/rohits-web03/optivus/internal/repositories"
	"github.com/rohits-web03/optivus/internal/tracing"
	"gorm.io/gorm"
)

// @title Optivus API
// @version 1.0
// @description Cloud drive: files, folders, sessions and the assistant chat.
// @host localhost:8080
// @BasePath /
func main() {
	cfg, loaded := config.Load()
	lg := logger.New(os.Stderr, cfg.LogLevel, !cfg.IsProduction())
	if !loaded {
		lg.Debug("no env file found, using process environment")
	}

	if err := run(cfg, lg); err != nil {
		lg.Fatal("server stopped", "err", err)
	}
}

func run(cfg config.Config, lg *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.ServiceName, cfg.OTLPEndpoint, !cfg.IsProduction(), lg)
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	// Without the required settings the service still starts so the config status page can
	// explain what is missing. Every data operation then fails with a configuration error.
	var (
		db      *gorm.DB
		objects repositories.ObjectStore
	)
	missing := cfg.MissingBackend()
	if len(missing) > 0 {
		lg.Warn("backend not configured, data operations are disabled", "missing", missing)
	} else {
		db, err = repositories.ConnectDatabase(cfg.DB_URL)
		if err != nil {
			return err
		}
		lg.Info("connected to database")

		objects, err = openObjectStore(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		lg.Info("object store ready", "driver", cfg.Storage.Driver, "bucket", cfg.Storage.BucketName)
	}

	var bus auth.Bus = auth.NewLocalBus()
	if cfg.RedisAddr != "" {
		redisBus, err := auth.NewRedisBus(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, lg)
		if err != nil {
			return err
		}
		defer redisBus.Close()
		bus = redisBus
		lg.Info("session events over Redis", "addr", cfg.RedisAddr)
	}

	mailer, err := auth.NewMailer(cfg.SMTP, cfg.IsDevelopment(), lg.WithPrefix("mail"))
	if err != nil {
		return err
	}

	var users *repositories.Users
	if db != nil {
		users = repositories.NewUsers(db)
	}
	provider := auth.NewProvider(auth.Options{
		Users:       users,
		Bus:         bus,
		Signer:      auth.NewSigner(cfg.JWTSecret),
		OAuth:       services.GoogleOAuthConfig(cfg.OAuth),
		Mailer:      mailer,
		Logger:      lg.WithPrefix("auth"),
		SessionTTL:  cfg.SessionTTL,
		RecoveryTTL: cfg.PasswordResetTTL,
	})
	if err := provider.Start(ctx); err != nil {
		return err
	}
	defer provider.Close()

	client := drive.New(drive.Options{
		DB:            db,
		Objects:       objects,
		Missing:       missing,
		UploadWorkers: cfg.UploadWorkers,
		Logger:        lg.WithPrefix("drive"),
	})
	chatClient := chat.New(cfg.ChatWebhookURL, cfg.ChatRatePerMin, lg.WithPrefix("chat"))
	defer chatClient.Close()

	h := handlers.New(cfg, client, provider, chatClient, lg)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           api.SetupRouter(cfg, h, provider, lg),
		ReadHeaderTimeout: 5 * time.Second,
		// uploads and downloads need room; slow header senders are cut off above
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("starting Optivus server", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("could not listen on port %s: %w", cfg.Port, err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	lg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func openObjectStore(ctx context.Context, sc config.StorageConfig) (repositories.ObjectStore, error) {
	switch sc.Driver {
	case config.DriverMinIO:
		return repositories.NewMinioStore(ctx, sc.Endpoint, sc.AccessKeyID, sc.SecretAccessKey, sc.BucketName, sc.UseSSL)
	case config.DriverR2, "":
		return repositories.NewR2Store(sc.AccessKeyID, sc.SecretAccessKey, sc.AccountID, sc.Endpoint, sc.BucketName, sc.Region), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", sc.Driver)
}
