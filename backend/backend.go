package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"genreserver/config"
)

// Inferrer runs genre inference for an audio file. The result is passed
// through to clients untouched, so it is returned as raw JSON.
type Inferrer interface {
	InferGenre(ctx context.Context, filePath string) (json.RawMessage, error)
}

// StatusError is returned when the model server answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Body)
}

// New builds the Inferrer selected by the inference config.
func New(cfg config.InferenceConfig) (Inferrer, error) {
	switch cfg.Backend {
	case config.BackendHTTP:
		return NewBackendClient(cfg.URL, cfg.Timeout), nil
	case config.BackendCommand:
		return NewCommand(cfg.Command, cfg.Args, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown inference backend %q", cfg.Backend)
	}
}

type inferRequest struct {
	FilePath string `json:"filePath"`
}

// Client represents a client to communicate with the model server.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewBackendClient creates a new Client posting to the given inference URL.
// A zero timeout means no client-side limit.
func NewBackendClient(url string, timeout time.Duration) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// InferGenre posts the file path to the model server and returns its JSON answer.
func (c *Client) InferGenre(ctx context.Context, filePath string) (json.RawMessage, error) {
	payload, err := json.Marshal(inferRequest{FilePath: filePath})
	if err != nil {
		return nil, fmt.Errorf("error encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}

	return decodeResult(body)
}

// decodeResult checks that out holds exactly one JSON value and returns it
// without surrounding whitespace.
func decodeResult(out []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(out)
	if len(trimmed) == 0 {
		return nil, errors.New("empty inference result")
	}
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("inference result is not valid JSON: %.200q", trimmed)
	}
	return json.RawMessage(trimmed), nil
}
