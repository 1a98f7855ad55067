package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"treeview/internal/domain"
	models "treeview/internal/domain/models/tree"
	treeRepo "treeview/internal/domain/repositories/tree"
)

const (
	// DefaultDataPath is the fixed path of the payload endpoint
	DefaultDataPath = "/api/data"
	// DefaultTimeout bounds each attempt
	DefaultTimeout = 10 * time.Second
	// DefaultRetries is how many times a failed request is retried
	DefaultRetries = 3
	// DefaultBackoff is the wait before the first retry; it grows linearly
	DefaultBackoff = 200 * time.Millisecond
	// DefaultMaxBytes caps the response body we are willing to decode
	DefaultMaxBytes = 64 << 20
)

// ErrPayloadTooLarge is returned when the response body exceeds the configured cap.
// It is not retried.
var ErrPayloadTooLarge = errors.New("payload too large")

// TransportError is the terminal failure surfaced after retries are exhausted.
// StatusCode is 0 when no HTTP response was received.
type TransportError struct {
	StatusCode int
	Message    string
	Attempts   int
	Err        error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return e.Message
}

// Unwrap exposes the last underlying error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is() to match against ErrTransport
func (e *TransportError) Is(target error) bool {
	return target == domain.ErrTransport
}

// PayloadClient fetches the tree payload over HTTP.
// It implements PayloadSource, so the rest of the system cannot tell it from a local source.
type PayloadClient struct {
	baseURL    string
	dataPath   string
	retries    int
	backoff    time.Duration
	maxBytes   int64
	httpClient *http.Client
	logger     *slog.Logger
}

var _ treeRepo.PayloadSource = (*PayloadClient)(nil)

// Options configures a PayloadClient; zero values select the defaults
type Options struct {
	DataPath string
	Timeout  time.Duration
	Retries  int
	Backoff  time.Duration
	MaxBytes int64
}

// NewPayloadClient creates a new payload client
func NewPayloadClient(baseURL string, opts Options, logger *slog.Logger) *PayloadClient {
	if opts.DataPath == "" {
		opts.DataPath = DefaultDataPath
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.Backoff <= 0 {
		opts.Backoff = DefaultBackoff
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}

	return &PayloadClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		dataPath: opts.DataPath,
		retries:  opts.Retries,
		backoff:  opts.Backoff,
		maxBytes: opts.MaxBytes,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		logger: logger,
	}
}

// URL returns the full payload URL
func (c *PayloadClient) URL() string {
	return c.baseURL + c.dataPath
}

// Load implements PayloadSource. Every failure is retried up to the configured
// count; the last failure is returned as a *TransportError. A payload that arrives
// but cannot be decoded is not retried and surfaces as a malformed payload; one
// over the size cap is not retried either and surfaces as ErrPayloadTooLarge.
func (c *PayloadClient) Load(ctx context.Context) (*models.Payload, error) {
	var lastErr *TransportError

	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(attempt) * c.backoff
			c.logger.Debug("retrying payload request", "attempt", attempt, "wait", wait, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		body, err := c.get(ctx)
		if err == nil {
			return models.ParseJSON(body)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		var transportErr *TransportError
		if !errors.As(err, &transportErr) {
			return nil, err
		}
		transportErr.Attempts = attempt + 1
		lastErr = transportErr
	}

	c.logger.Warn("payload request failed",
		"url", c.URL(),
		"attempts", lastErr.Attempts,
		"status", lastErr.StatusCode,
		"error", lastErr.Err,
	)
	return nil, lastErr
}

func (c *PayloadClient) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Message: statusMessage(0, ""), Err: err}
	}
	defer func() { _ = resp.Body.Close() }() // Error ignored: response consumed

	// One byte past the cap tells an oversized body apart from one that fits exactly
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Message: "failed to read response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{
			StatusCode: resp.StatusCode,
			Message:    statusMessage(resp.StatusCode, http.StatusText(resp.StatusCode)),
			Err:        fmt.Errorf("API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	if int64(len(body)) > c.maxBytes {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", ErrPayloadTooLarge, c.maxBytes)
	}
	return body, nil
}

// statusMessage returns the user-facing text for a failed request
func statusMessage(status int, text string) string {
	switch status {
	case 0:
		return "Unable to connect to the server. Please check your internet connection."
	case http.StatusNotFound:
		return "The requested data could not be found."
	case http.StatusInternalServerError:
		return "Internal server error. Please try again later."
	case http.StatusServiceUnavailable:
		return "Service temporarily unavailable. Please try again later."
	default:
		return fmt.Sprintf("Server error: %d - %s", status, text)
	}
}
