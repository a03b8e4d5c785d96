package preview

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"check-my-fit/internal/selection"
)

var ErrDecode = errors.New("preview: cannot decode image")

const defaultMaxDimension = 1024

// Formats the decoder understands. Anything else that claims to be an image is
// handed back untouched and left to whatever renders the data URL.
var decodable = map[string]imaging.Format{
	"image/jpeg": imaging.JPEG,
	"image/jpg":  imaging.JPEG,
	"image/png":  imaging.PNG,
	"image/gif":  imaging.GIF,
	"image/webp": imaging.PNG,
	"image/bmp":  imaging.BMP,
	"image/tiff": imaging.TIFF,
}

type Options struct {
	MaxDimension int
	Logger       *slog.Logger
}

type Reader struct {
	maxDimension int
	logger       *slog.Logger
}

type Result struct {
	Source string
	Err    error
}

func New(opts Options) *Reader {
	maxDimension := opts.MaxDimension
	if maxDimension <= 0 {
		maxDimension = defaultMaxDimension
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Reader{
		maxDimension: maxDimension,
		logger:       logger,
	}
}

// ReadAsync runs Read on its own goroutine. The channel receives exactly one
// Result and is then closed.
func (r *Reader) ReadAsync(ctx context.Context, f selection.File) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		src, err := r.Read(ctx, f)
		out <- Result{Source: src, Err: err}
	}()
	return out
}

// Read returns a data URL for f, downscaled when either side exceeds the
// configured maximum dimension.
func (r *Reader) Read(ctx context.Context, f selection.File) (string, error) {
	if f == nil {
		return "", fmt.Errorf("%w: no file", ErrDecode)
	}

	rc, err := f.Open(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: open: %w", ErrDecode, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("%w: read: %w", ErrDecode, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrDecode)
	}

	mimeType := normalizeMime(f.Type())
	format, ok := decodable[mimeType]
	if !ok {
		r.logger.Debug("preview passthrough", "name", f.Name(), "mime", mimeType, "bytes", len(data))
		return DataURL(mimeType, data), nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecode, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= r.maxDimension && bounds.Dy() <= r.maxDimension {
		return DataURL(mimeType, data), nil
	}

	thumb := imaging.Fit(img, r.maxDimension, r.maxDimension, imaging.Lanczos)

	outMime := "image/jpeg"
	outFormat := imaging.JPEG
	if format == imaging.PNG || format == imaging.GIF {
		outMime = "image/png"
		outFormat = imaging.PNG
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, outFormat, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("%w: encode thumbnail: %w", ErrDecode, err)
	}

	r.logger.Debug("preview downscaled",
		"name", f.Name(),
		"from", fmt.Sprintf("%dx%d", bounds.Dx(), bounds.Dy()),
		"to", fmt.Sprintf("%dx%d", thumb.Bounds().Dx(), thumb.Bounds().Dy()),
	)
	return DataURL(outMime, buf.Bytes()), nil
}

func DataURL(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

func normalizeMime(value string) string {
	value = strings.TrimSpace(value)
	if strings.Contains(value, ";") {
		value = strings.TrimSpace(strings.SplitN(value, ";", 2)[0])
	}
	return strings.ToLower(value)
}
