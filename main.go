package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/addwise/authapi/config"
	"github.com/addwise/authapi/dbhelper"
	"github.com/addwise/authapi/logging"
	"github.com/addwise/authapi/mailer"
	"github.com/addwise/authapi/middlewares"
	"github.com/addwise/authapi/oauth"
	"github.com/addwise/authapi/routes"
	"github.com/addwise/authapi/services"
	"github.com/addwise/authapi/utils"
)

func main() {
	// Setting up environment variables
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	// Setting up logs
	logger, closer, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		stop()
		closer.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Setting up database
	store, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.StoreDriver, err)
	}
	defer cleanup()
	logger.Info("user store ready", "driver", cfg.StoreDriver)

	creds := dbhelper.NewCredentials(store)
	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTSecretOld, cfg.TokenTTL)
	otps := services.NewOTPManager(creds, cfg.OTPTTL)

	var mail services.OTPSender
	smtpMailer, err := mailer.NewSMTPMailer(cfg.EmailHost, cfg.EmailPort, cfg.EmailUser, cfg.EmailPassword, cfg.OTPTTL)
	if err != nil {
		logger.Warn("password reset mail disabled", "error", err)
		mail = mailer.Disabled{}
	} else {
		mail = smtpMailer
	}
	if cfg.GoogleClientID == "" {
		logger.Warn("GOOGLE_CLIENT_ID not set, google sign-in will fail")
	}

	auth := services.NewAuth(creds, tokens, otps, mail, oauth.NewGoogleVerifier(cfg.GoogleClientID),
		services.WithConcealUnknownEmail(cfg.ConcealUnknownEmail))

	// Opening the webserver
	h := routes.NewHandler(auth, logger)
	guard := middlewares.NewGuard(tokens, creds, h.Unauthorized())
	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: routes.NewRouter(h, guard, routes.Options{
			AuthRateLimit:      cfg.AuthRateLimit,
			RateLimitIPLookups: cfg.RateLimitIPLookups,
			CORSOrigins:        cfg.CORSOrigins,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config) (dbhelper.UserStore, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreMySQL:
		db, err := dbhelper.OpenDB(dbhelper.MySQLDSN(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBName))
		if err != nil {
			return nil, nil, err
		}
		if err := dbhelper.InitDB(db); err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return dbhelper.NewGormStore(db), cleanup, nil
	case config.StoreMongo:
		client, err := dbhelper.OpenMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		}
		store, err := dbhelper.NewMongoStore(ctx, client.Database(cfg.MongoDatabase))
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		return store, cleanup, nil
	default:
		return dbhelper.NewMemoryStore(), func() {}, nil
	}
}
