package cloudstt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"clipscribe/internal/services"
)

// Config captures connection settings for the external service.
type Config struct {
	BaseURL    string
	Credential string
	Model      string
	Timeout    time.Duration
}

// Client talks to an OpenAI-compatible audio transcription endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient constructs a Client. A zero timeout defaults to 60 seconds.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	cfg.Timeout = timeout
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithHTTPClient overrides the underlying HTTP client (for testing).
func (c *Client) WithHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe uploads the audio file and returns the transcribed text.
// The request is bounded by the configured timeout regardless of the
// caller's context.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (string, error) {
	const stage = "cloud"

	file, err := os.Open(audioPath)
	if err != nil {
		return "", services.Wrap(services.ErrNotFound, stage, "open clip", audioPath, err)
	}
	defer file.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if c.cfg.Model != "" {
		if err := mw.WriteField("model", c.cfg.Model); err != nil {
			return "", services.Wrap(services.ErrTransient, stage, "build request", "", err)
		}
	}
	fw, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", services.Wrap(services.ErrTransient, stage, "build request", "", err)
	}
	if _, err := io.Copy(fw, file); err != nil {
		return "", services.Wrap(services.ErrTransient, stage, "read clip", "", err)
	}
	if err := mw.Close(); err != nil {
		return "", services.Wrap(services.ErrTransient, stage, "build request", "", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.cfg.BaseURL, &body)
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, stage, "build request", c.cfg.BaseURL, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Credential)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyTransportError(stage, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", classifyStatus(stage, resp)
	}

	var parsed transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", services.Wrap(services.ErrExternalTool, stage, "decode response", "", err)
	}
	return strings.TrimSpace(parsed.Text), nil
}

func classifyTransportError(stage string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return services.Wrap(services.ErrTimeout, stage, "upload clip", "request deadline exceeded", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return services.Wrap(services.ErrTimeout, stage, "upload clip", "network timeout", err)
	}
	return services.Wrap(services.ErrTransient, stage, "upload clip", "network failure", err)
}

func classifyStatus(stage string, resp *http.Response) error {
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	message := fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return services.Wrap(services.ErrUnauthorized, stage, "upload clip", message, nil)
	case http.StatusTooManyRequests:
		return services.Wrap(services.ErrRateLimited, stage, "upload clip", message, nil)
	default:
		// Server-side failures are worth retrying on a later run; anything
		// else is a request the service rejected outright.
		if resp.StatusCode >= 500 {
			return services.Wrap(services.ErrTransient, stage, "upload clip", message, nil)
		}
		return services.Wrap(services.ErrExternalTool, stage, "upload clip", message, nil)
	}
}
