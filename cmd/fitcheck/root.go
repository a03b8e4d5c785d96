package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"check-my-fit/internal/config"
	"check-my-fit/internal/feedback"
	"check-my-fit/internal/generate"
	"check-my-fit/internal/httpclient"
	"check-my-fit/internal/preview"
	"check-my-fit/internal/selection"
	"check-my-fit/internal/terminal"
	"check-my-fit/internal/widget"
)

type options struct {
	Person   string
	Outfit   string
	Endpoint string
	Out      string
	Feedback string
}

// reportedError has already been printed by the console.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func newRootCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "fitcheck --person PHOTO --outfit PHOTO",
		Short: "See how an outfit looks on you",
		Long: `fitcheck sends a photo of you and a photo of an outfit to the try-on
service and saves the generated image.

The endpoint defaults to FITCHECK_ENDPOINT or ` + config.DefaultCLIEndpoint + `.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.Person, "person", "", "Photo of yourself")
	cmd.Flags().StringVar(&opts.Outfit, "outfit", "", "Photo of the outfit")
	cmd.Flags().StringVar(&opts.Endpoint, "endpoint", "", "Try-on endpoint URL")
	cmd.Flags().StringVar(&opts.Out, "out", "", "Where to save the result (default: tryon-result.<ext>)")
	cmd.Flags().StringVar(&opts.Feedback, "feedback", "", "Rate the result: up or down")

	return cmd
}

func run(ctx context.Context, opts options, stdout, stderr io.Writer) error {
	var reaction feedback.Reaction
	if strings.TrimSpace(opts.Feedback) != "" {
		r, ok := feedback.ParseReaction(opts.Feedback)
		if !ok {
			return fmt.Errorf("unknown feedback %q (want up or down)", opts.Feedback)
		}
		reaction = r
	}

	cfg := config.Load(config.DefaultCLIEndpoint)
	if endpoint := strings.TrimSpace(opts.Endpoint); endpoint != "" {
		cfg.Endpoint = endpoint
	}

	logger := newLogger(cfg, stderr)

	httpClient := httpclient.New(httpclient.Options{
		PreferIPv4: cfg.PreferIPv4,
		Timeout:    cfg.HTTPTimeout,
	})

	gen := generate.New(generate.Options{
		Endpoint:   cfg.Endpoint,
		HTTPClient: httpClient,
		Logger:     logger,
	})

	reader := preview.New(preview.Options{
		MaxDimension: cfg.PreviewMaxDimension,
		Logger:       logger,
	})

	console := terminal.New(stdout)
	subEls, _ := console.Submission()

	w, err := widget.New(widget.Options{
		Person:     console.Area(selection.Person),
		Outfit:     console.Area(selection.Outfit),
		Submission: subEls,
		Feedback:   console.Feedback(),
		Generator:  gen,
		Previewer:  reader,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	paths := []photoPath{
		{Slot: selection.Person, Path: opts.Person},
		{Slot: selection.Outfit, Path: opts.Outfit},
	}
	photos, err := loadPhotos(ctx, paths)
	if err != nil {
		return err
	}

	for i, photo := range photos {
		if photo == nil {
			continue
		}
		if !w.Area(paths[i].Slot).HandleFile(ctx, photo) {
			return fmt.Errorf("%s: not an image (%s)", paths[i].Path, photo.MimeType)
		}
	}
	w.Wait()

	if err := w.Submission.Submit(ctx); err != nil {
		return &reportedError{err: err}
	}

	if err := saveResult(w.Submission.State().Image, opts.Out, stdout); err != nil {
		return err
	}

	if reaction != "" {
		w.Feedback.Record(reaction)
	}
	return nil
}

// saveResult writes a data URI result to disk and prints remote URLs as is.
func saveResult(image, out string, stdout io.Writer) error {
	if !generate.IsDataURL(image) {
		_, err := fmt.Fprintln(stdout, image)
		return err
	}

	mimeType, data, err := generate.ParseDataURL(image)
	if err != nil {
		return fmt.Errorf("decode result: %w", err)
	}

	path := strings.TrimSpace(out)
	if path == "" {
		path = "tryon-result" + extensionFor(mimeType)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save result: %w", err)
	}

	_, err = fmt.Fprintf(stdout, "saved %s\n", path)
	return err
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".img"
}

func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

func isReported(err error) bool {
	var re *reportedError
	return errors.As(err, &re)
}
