package preview

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"check-my-fit/internal/selection"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.NRGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func decodeDataURL(t *testing.T, src string) (string, []byte) {
	t.Helper()
	meta, payload, ok := strings.Cut(src, ",")
	if !ok || !strings.HasPrefix(meta, "data:") || !strings.HasSuffix(meta, ";base64") {
		t.Fatalf("not a base64 data url: %.40q", src)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		t.Fatalf("decode base64: %v", err)
	}
	return strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64"), data
}

func TestReadSmallImageKeepsBytes(t *testing.T) {
	raw := encodePNG(t, 16, 8)
	r := New(Options{MaxDimension: 64})

	src, err := r.Read(context.Background(), &selection.Bytes{FileName: "p.png", MimeType: "image/png", Data: raw})
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}

	mime, data := decodeDataURL(t, src)
	if mime != "image/png" {
		t.Fatalf("mime = %q, want image/png", mime)
	}
	if !bytes.Equal(data, raw) {
		t.Fatalf("small image was re-encoded")
	}
}

func TestReadLargeImageIsDownscaled(t *testing.T) {
	raw := encodePNG(t, 200, 100)
	r := New(Options{MaxDimension: 50})

	src, err := r.Read(context.Background(), &selection.Bytes{MimeType: "image/png", Data: raw})
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}

	mime, data := decodeDataURL(t, src)
	if mime != "image/png" {
		t.Fatalf("mime = %q, want image/png", mime)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if cfg.Width != 50 || cfg.Height != 25 {
		t.Fatalf("thumbnail = %dx%d, want 50x25", cfg.Width, cfg.Height)
	}
}

func TestReadUnknownFormatPassesThrough(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`)
	r := New(Options{})

	src, err := r.Read(context.Background(), &selection.Bytes{MimeType: "image/svg+xml", Data: svg})
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	mime, data := decodeDataURL(t, src)
	if mime != "image/svg+xml" || !bytes.Equal(data, svg) {
		t.Fatalf("passthrough mismatch: %q %q", mime, data)
	}
}

type failingFile struct{}

func (failingFile) Name() string { return "broken.png" }
func (failingFile) Type() string { return "image/png" }
func (failingFile) Open(context.Context) (io.ReadCloser, error) {
	return nil, errors.New("disk on fire")
}

func TestReadFailures(t *testing.T) {
	tests := []struct {
		name string
		file selection.File
	}{
		{name: "nil file", file: nil},
		{name: "corrupt png", file: &selection.Bytes{MimeType: "image/png", Data: []byte{0x89, 0x50, 0x00}}},
		{name: "empty", file: &selection.Bytes{MimeType: "image/jpeg"}},
		{name: "open fails", file: failingFile{}},
	}

	r := New(Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := r.Read(context.Background(), tt.file)
			if !errors.Is(err, ErrDecode) {
				t.Fatalf("Read() error = %v, want ErrDecode", err)
			}
			if src != "" {
				t.Fatalf("Read() src = %q, want empty", src)
			}
		})
	}
}

func TestReadAsyncDeliversOnce(t *testing.T) {
	r := New(Options{})
	ch := r.ReadAsync(context.Background(), &selection.Bytes{MimeType: "image/png", Data: encodePNG(t, 4, 4)})

	res, ok := <-ch
	if !ok {
		t.Fatalf("channel closed without a result")
	}
	if res.Err != nil || !strings.HasPrefix(res.Source, "data:image/png;base64,") {
		t.Fatalf("unexpected result: %+v", res)
	}
	if _, ok := <-ch; ok {
		t.Fatalf("channel delivered a second result")
	}
}
