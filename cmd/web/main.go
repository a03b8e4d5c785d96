//go:build js && wasm

package main

import (
	"context"
	"log/slog"
	"os"

	"check-my-fit/internal/config"
	"check-my-fit/internal/dom"
	"check-my-fit/internal/generate"
	"check-my-fit/internal/httpclient"
	"check-my-fit/internal/preview"
	"check-my-fit/internal/widget"
)

func main() {
	cfg := config.Load(config.DefaultBrowserEndpoint)
	logger := newLogger(cfg)

	ctx := context.Background()
	if err := dom.Ready(ctx); err != nil {
		logger.Error("page not ready", "err", err)
		return
	}

	endpoint, err := dom.ResolveEndpoint(dom.Location(), cfg.Endpoint)
	if err != nil {
		logger.Error("invalid endpoint", "endpoint", cfg.Endpoint, "err", err)
		return
	}

	httpClient := httpclient.New(httpclient.Options{
		Browser: true,
		Timeout: cfg.HTTPTimeout,
	})

	gen := generate.New(generate.Options{
		Endpoint:   endpoint,
		HTTPClient: httpClient,
		Logger:     logger,
	})

	reader := preview.New(preview.Options{
		MaxDimension: cfg.PreviewMaxDimension,
		Logger:       logger,
	})

	page, err := dom.Lookup(logger)
	if err != nil {
		logger.Error("page lookup failed", "err", err)
		return
	}

	opts := page.Options()
	opts.Generator = gen
	opts.Previewer = reader

	w, err := widget.New(opts)
	if err != nil {
		logger.Error("widget init failed", "err", err)
		return
	}

	page.Bind(ctx, w)
	logger.Info("widget ready", "endpoint", endpoint)

	select {}
}

func newLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}
