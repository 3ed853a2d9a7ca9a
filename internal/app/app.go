package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"golang.org/x/sync/errgroup"

	api "github.com/emelnikov/linkly/internal/api/http"
	"github.com/emelnikov/linkly/internal/auth"
	"github.com/emelnikov/linkly/internal/config"
	repo "github.com/emelnikov/linkly/internal/database/postgres"
	"github.com/emelnikov/linkly/internal/mailer"
	"github.com/emelnikov/linkly/internal/service"
	"github.com/emelnikov/linkly/internal/shortener"
	"github.com/emelnikov/linkly/pkg/postgres"
)

// Run wires the application together and serves HTTP until ctx is
// cancelled.
func Run(ctx context.Context, cfg *config.Config, logger *httplog.Logger) error {
	const op = "app.Run"

	db, err := postgres.New(
		ctx,
		cfg.Postgres.DSN(),
		postgres.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
		postgres.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
		postgres.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
		postgres.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
	)
	if err != nil {
		return fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}
	defer db.Close()

	if err := postgres.RunMigrations("file://migrations", cfg.Postgres.DSN()); err != nil {
		return fmt.Errorf("%s: failed to run migrations: %w", op, err)
	}

	userRepo := repo.NewUserRepository(db)
	linkRepo := repo.NewLinkRepository(db)

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)

	mail := mailer.New(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		AppURL:   cfg.AppURL,
	})

	provider := shortener.New(shortener.Config{
		Endpoint:  cfg.Shortener.Endpoint,
		APIKey:    cfg.Shortener.APIKey,
		Workspace: cfg.Shortener.Workspace,
		Domain:    cfg.Shortener.Domain,
		Timeout:   cfg.Shortener.Timeout,
	})

	accountSvc := service.NewAccountService(userRepo, mail, tokens, logger.Logger)
	linkSvc := service.NewLinkService(linkRepo, provider)

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        api.NewRouter(logger, accountSvc, linkSvc, tokens),
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}
