package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"check-my-fit/internal/selection"
)

const (
	DefaultEndpoint = "/generate"

	FieldPerson = "personPhoto"
	FieldOutfit = "outfitPhoto"
)

type Options struct {
	Endpoint   string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

func New(opts Options) *Client {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		endpoint:   endpoint,
		httpClient: httpClient,
		logger:     logger,
	}
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// Generate posts both photos and returns the image reference from the reply.
// Failures are *ServerError, *TransportError or *DecodeError.
func (c *Client) Generate(ctx context.Context, person, outfit selection.File) (string, error) {
	if person == nil || outfit == nil {
		return "", errors.New("generate: both photos are required")
	}

	body, contentType, err := buildBody(ctx, person, outfit)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("content-type", contentType)
	httpReq.Header.Set("accept", "application/json")

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("generate request failed", "endpoint", c.endpoint, "err", err)
		return "", &TransportError{Err: err}
	}
	defer httpResp.Body.Close()

	rawBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", &TransportError{Err: fmt.Errorf("read response: %w", err)}
	}

	c.logger.Info("generate",
		"status", httpResp.StatusCode,
		"bytes_out", len(body),
		"bytes_in", len(rawBody),
		"dur_ms", time.Since(start).Milliseconds(),
	)

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return "", newServerError(httpResp.StatusCode, rawBody)
	}

	var decoded response
	if err := json.Unmarshal(rawBody, &decoded); err != nil {
		return "", &DecodeError{Err: err}
	}
	if strings.TrimSpace(decoded.Image) == "" {
		return "", &DecodeError{Err: errMissingImage}
	}
	return decoded.Image, nil
}

type response struct {
	Image string `json:"image"`
	Error string `json:"error,omitempty"`
}

func buildBody(ctx context.Context, person, outfit selection.File) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, p := range []struct {
		field string
		file  selection.File
	}{
		{field: FieldPerson, file: person},
		{field: FieldOutfit, file: outfit},
	} {
		if err := writeFilePart(ctx, w, p.field, p.file); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func writeFilePart(ctx context.Context, w *multipart.Writer, field string, f selection.File) error {
	mimeType := strings.TrimSpace(f.Type())
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		escapeQuotes(field), escapeQuotes(partFilename(field, f.Name(), mimeType))))
	h.Set("Content-Type", mimeType)

	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create %s part: %w", field, err)
	}

	rc, err := f.Open(ctx)
	if err != nil {
		return fmt.Errorf("open %s: %w", field, err)
	}
	defer rc.Close()

	if _, err := io.Copy(part, rc); err != nil {
		return fmt.Errorf("copy %s: %w", field, err)
	}
	return nil
}

// The endpoint rejects parts without a filename, so unnamed blobs get one
// derived from the field and MIME type.
func partFilename(field, name, mimeType string) string {
	name = strings.TrimSpace(name)
	if name != "" {
		return name
	}
	ext := ".bin"
	if exts, _ := mime.ExtensionsByType(mimeType); len(exts) > 0 {
		ext = exts[0]
	}
	return field + ext
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
