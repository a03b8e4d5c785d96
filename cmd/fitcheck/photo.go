package main

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"check-my-fit/internal/selection"
)

type photoPath struct {
	Slot selection.Slot
	Path string
}

// loadPhotos reads every non-empty path concurrently. The result is indexed
// like paths; skipped entries stay nil.
func loadPhotos(ctx context.Context, paths []photoPath) ([]*selection.Bytes, error) {
	photos := make([]*selection.Bytes, len(paths))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, p := range paths {
		if strings.TrimSpace(p.Path) == "" {
			continue
		}
		i, p := i, p
		eg.Go(func() error {
			b, err := loadPhoto(egCtx, p.Path)
			if err != nil {
				return fmt.Errorf("%s photo: %w", p.Slot, err)
			}
			photos[i] = b
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return photos, nil
}

func loadPhoto(ctx context.Context, path string) (*selection.Bytes, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return &selection.Bytes{
		FileName: filepath.Base(path),
		MimeType: detectMime(path, data),
		Data:     data,
	}, nil
}

// detectMime prefers the extension and falls back to sniffing the content.
func detectMime(path string, data []byte) string {
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); byExt != "" {
		if i := strings.IndexByte(byExt, ';'); i >= 0 {
			byExt = byExt[:i]
		}
		return strings.TrimSpace(byExt)
	}
	sniffed := http.DetectContentType(data)
	if i := strings.IndexByte(sniffed, ';'); i >= 0 {
		sniffed = sniffed[:i]
	}
	return strings.TrimSpace(sniffed)
}
