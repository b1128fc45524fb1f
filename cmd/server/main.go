package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"symposium/config"
	authadapter "symposium/internal/adapters/auth"
	emailadapter "symposium/internal/adapters/email"
	"symposium/internal/delivery/web"
	"symposium/internal/delivery/web/controllers"
	"symposium/internal/delivery/web/middleware"
	"symposium/internal/delivery/web/views"
	"symposium/internal/repository/postgres"
	"symposium/internal/services"
)

const serviceTimeout = 5 * time.Second

func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to reach database", "err", err)
		os.Exit(1)
	}

	mailer, err := emailadapter.NewMailer(emailadapter.MailerConfig{
		Provider:    cfg.MailerProvider,
		FromAddress: cfg.MailerFromAddress,
		FromName:    cfg.MailerFromName,
		SES: emailadapter.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccessKey,
		},
	}, logger)
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}

	issuer, verifier := authadapter.NewJWTTokens(cfg.JWTSecret)
	hasher := authadapter.NewBcryptHasher(10)

	userRepo := postgres.NewUserRepository(db)
	talkRepo := postgres.NewTalkRepository(db)

	emailService := services.NewEmailService(mailer, emailadapter.NewTemplateRenderer())
	authService := services.NewAuthService(userRepo, hasher, issuer, cfg.TokenExpiry, emailService, logger)
	talkService := services.NewTalkService(talkRepo, serviceTimeout)

	renderer, err := views.New(logger)
	if err != nil {
		logger.Error("failed to parse templates", "err", err)
		os.Exit(1)
	}

	talkController := controllers.NewTalkController(logger, talkService, renderer)
	authController := controllers.NewAuthController(logger, authService, renderer, cfg.TokenExpiry)

	requireAuth := middleware.RequireAuth(verifier, logger)
	mux := web.NewRouter(talkController, authController, requireAuth)

	handler := middleware.LoggingMiddleware(logger, middleware.MethodOverride(mux))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
	logger.Info("server stopped")
}
