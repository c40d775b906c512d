// Package openrag provides the Go client SDK for the OpenRAG API: streaming
// and non-streaming chat, conversation history, semantic search, document
// ingestion, and settings.
//
// A minimal session looks like:
//
//	client, err := openrag.New(openrag.Config{
//		BaseURL: "http://localhost:8000",
//		APIKey:  os.Getenv("OPENRAG_API_KEY"),
//	})
//	if err != nil { ... }
//
//	stream, err := client.Chat.Stream(ctx, openrag.ChatRequest{Message: "Explain RAG"})
//	if err != nil { ... }
//	defer stream.Close()
//
//	for delta, err := range stream.Text() {
//		if err != nil { ... }
//		fmt.Print(delta)
//	}
package openrag

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	openraglog "github.com/openragproject/openrag-go/pkg/logger"
)

const (
	// EnvURL is the environment variable consulted when Config.BaseURL is empty.
	EnvURL = "OPENRAG_URL"

	// EnvAPIKey is the environment variable consulted when Config.APIKey is empty.
	EnvAPIKey = "OPENRAG_API_KEY"
)

// Config holds configuration for an OpenRAG client.
type Config struct {
	// BaseURL is the OpenRAG server URL (e.g., "http://localhost:8000").
	// Falls back to the OPENRAG_URL environment variable if empty.
	BaseURL string

	// APIKey authenticates every request.
	// Falls back to the OPENRAG_API_KEY environment variable if empty.
	APIKey string

	// HTTPClient overrides the transport. The default client carries no
	// overall timeout: streaming chat responses are long-lived, and deadlines
	// belong to the caller's context.
	HTTPClient *http.Client

	// Logger receives debug logs. Defaults to a discard logger.
	Logger *slog.Logger
}

// Client is an OpenRAG API client. Operations are grouped into services
// mirroring the API surface.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger

	// Chat provides streaming and non-streaming chat plus conversation history.
	Chat *ChatService

	// Documents provides knowledge base ingestion and deletion.
	Documents *DocumentsService

	// Search provides semantic search over ingested documents.
	Search *SearchService

	// Settings provides read access to server configuration.
	Settings *SettingsService
}

// New creates an OpenRAG client.
func New(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = os.Getenv(EnvURL)
	}
	if baseURL == "" {
		return nil, errors.New("openrag: base URL is required (set Config.BaseURL or OPENRAG_URL)")
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(EnvAPIKey)
	}
	if apiKey == "" {
		return nil, errors.New("openrag: API key is required (set Config.APIKey or OPENRAG_API_KEY)")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = openraglog.Nop()
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
		logger:     logger,
	}

	c.Chat = &ChatService{client: c}
	c.Documents = &DocumentsService{client: c}
	c.Search = &SearchService{client: c}
	c.Settings = &SettingsService{client: c}

	return c, nil
}

// doRequest issues an HTTP request with auth headers attached and returns the
// raw response with its body unconsumed, so streaming callers can take the
// body over. A non-success status is translated into a typed *Error after
// reading the error payload. Retries are a caller concern.
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("openrag: creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.logger.Debug("sending request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openrag: sending request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, c.errorFromResponse(resp)
	}

	return resp, nil
}

// doJSON issues a request with an optional JSON body and decodes the JSON
// response into out. The response body is always consumed and closed.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	contentType := ""

	if body != nil {
		payload, err := marshalJSON(body)
		if err != nil {
			return err
		}
		reader = payload
		contentType = "application/json"
	}

	resp, err := c.doRequest(ctx, method, path, reader, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	return decodeJSON(resp.Body, out)
}

// decodeJSON decodes a JSON response body, normalizing the error message.
func decodeJSON(r io.Reader, out any) error {
	if err := json.NewDecoder(r).Decode(out); err != nil {
		return fmt.Errorf("openrag: decoding response: %w", err)
	}
	return nil
}

// marshalJSON encodes a request body, normalizing the error message.
func marshalJSON(v any) (io.Reader, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("openrag: marshaling request: %w", err)
	}
	return bytes.NewReader(payload), nil
}

// errorFromResponse builds a typed *Error from a non-success response,
// pulling the human-readable message out of the server's error payload.
func (c *Client) errorFromResponse(resp *http.Response) error {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return errorFromStatus(resp.StatusCode, "")
	}

	// The server reports errors as {"error": "..."}; FastAPI-style
	// validation failures use {"detail": ...}.
	var payload struct {
		Error  string          `json:"error"`
		Detail json.RawMessage `json:"detail"`
	}

	message := strings.TrimSpace(string(raw))
	if err := json.Unmarshal(raw, &payload); err == nil {
		switch {
		case payload.Error != "":
			message = payload.Error
		case len(payload.Detail) > 0:
			var detail string
			if err := json.Unmarshal(payload.Detail, &detail); err == nil {
				message = detail
			} else {
				message = string(payload.Detail)
			}
		}
	}

	apiErr := errorFromStatus(resp.StatusCode, message)
	c.logger.Debug("request failed",
		"status", resp.StatusCode,
		"kind", string(apiErr.Kind),
	)

	return apiErr
}
