package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/go-chi/httplog/v2"

	"github.com/emelnikov/linkly/internal/app"
	"github.com/emelnikov/linkly/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx); err != nil {
		panic(err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return err
	}

	logger := httplog.NewLogger("linkly", httplog.Options{
		JSON:    cfg.Env == config.EnvProd,
		Concise: cfg.Env != config.EnvProd,
	})

	return app.Run(ctx, cfg, logger)
}
