package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"surveydesk/internal/app/server/api"
	"surveydesk/internal/domain/auth"
	"surveydesk/internal/domain/mail"
	"surveydesk/internal/domain/settings"
	"surveydesk/internal/domain/stats"
	"surveydesk/internal/domain/survey"
	"surveydesk/internal/infrastructure/mailer"
	"surveydesk/internal/infrastructure/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Запустить HTTP-сервер",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg.DB, log)
	if err != nil {
		return fmt.Errorf("открытие хранилища: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("close storage", "error", err)
		}
	}()

	surveys := survey.NewService(store, log)

	var sender mail.Sender
	if smtp := mailer.New(cfg.Mail); smtp != nil {
		sender = smtp
	} else {
		log.Warn("SMTP is not configured, /send-email will answer 500")
	}

	mux := api.New(api.Deps{
		Env:          cfg.Env,
		Engine:       cfg.DB.Engine,
		StaticDir:    cfg.Server.StaticDir,
		SecureCookie: cfg.Auth.SecureCookie,
		Surveys:      surveys,
		Stats:        stats.NewService(surveys),
		Settings:     settings.NewService(store, log),
		Auth: auth.NewService(auth.Config{
			Username: cfg.Auth.Username,
			Password: cfg.Auth.Password,
			Secret:   cfg.Auth.SessionSecret,
			TTL:      cfg.Auth.SessionTTL,
		}, log),
		Mail:   mail.NewService(sender, mail.Config{From: cfg.Mail.From, To: cfg.Mail.To}, log),
		Backup: store,
	}, log)

	srv := &http.Server{
		Addr:              cfg.Server.RunAddress,
		Handler:           mux,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server started", "addr", srv.Addr, "env", cfg.Env, "engine", cfg.DB.Engine)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
