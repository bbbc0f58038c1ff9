// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/echoml/echo-tui/internal/model"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the backend client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota

	// ErrTypeValidation: the request was rejected locally before any
	// network traffic. The message names the missing or invalid field.
	ErrTypeValidation

	// ErrTypeBackend: the backend answered with a non-success status.
	// The message carries the backend's own detail text when present.
	ErrTypeBackend

	// ErrTypeNetwork: the backend could not be reached at all.
	ErrTypeNetwork

	// ErrTypeModelsUnavailable: the model registry could not be
	// fetched. Callers treat the registry as empty and keep running.
	ErrTypeModelsUnavailable

	// ErrTypeInvalidResponse: the backend answered with a success
	// status but an undecodable body.
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrModelsUnavailable = &ClientError{Type: ErrTypeModelsUnavailable, Message: "model registry unavailable"}
)

// errType extracts the ErrorType from err, if it is a ClientError.
func errType(err error) ErrorType {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Type
	}
	return ErrTypeUnknown
}

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool { return errType(err) == ErrTypeValidation }

// IsBackend reports whether err is a backend rejection.
func IsBackend(err error) bool { return errType(err) == ErrTypeBackend }

// IsNetwork reports whether err is a connectivity failure.
func IsNetwork(err error) bool { return errType(err) == ErrTypeNetwork }

// Detail returns the human-readable message for err: the backend's own
// detail text for backend errors, the error string otherwise.
func Detail(err error) string {
	if err == nil {
		return ""
	}
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Message
	}
	return err.Error()
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// Config holds configuration options for the backend client.
type Config struct {
	// BaseURL is the backend API base URL (default: http://127.0.0.1:8000)
	BaseURL string

	// Timeout for requests (default: 60s; generation can be slow)
	Timeout time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL: "http://127.0.0.1:8000",
		Timeout: 60 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the Echo backend API: the model
// registry, chat generation, and backend reset.
//
// The Client is safe for concurrent use.
type Client struct {
	mu         sync.RWMutex
	config     *Config
	httpClient *http.Client
}

// NewClient creates a client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a client with custom configuration.
func NewClientWithConfig(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8000"
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// BaseURL returns the backend base URL the client targets.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config.BaseURL
}

// SetBaseURL retargets the client, for config reloads. In-flight
// requests finish against the old URL.
func (c *Client) SetBaseURL(url string) {
	url = strings.TrimRight(url, "/")
	if url == "" {
		return
	}
	c.mu.Lock()
	c.config.BaseURL = url
	c.mu.Unlock()
}

// =============================================================================
// MODEL REGISTRY
// =============================================================================

// FetchModels retrieves the model registry. It never fails hard: any
// error yields an empty list plus ErrModelsUnavailable so the caller
// can keep running with chat disabled until a model is registered.
func (c *Client) FetchModels(ctx context.Context) ([]model.Model, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL()+"/api/models", nil)
	if err != nil {
		return []model.Model{}, wrapUnavailable(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return []model.Model{}, wrapUnavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return []model.Model{}, wrapUnavailable(nil)
	}

	var models []model.Model
	if err := json.NewDecoder(resp.Body).Decode(&models); err != nil {
		return []model.Model{}, wrapUnavailable(err)
	}
	if models == nil {
		models = []model.Model{}
	}
	return models, nil
}

func wrapUnavailable(cause error) error {
	return &ClientError{
		Type:    ErrTypeModelsUnavailable,
		Message: ErrModelsUnavailable.Message,
		Cause:   cause,
	}
}

// ValidateDraft checks a registration draft locally. It mirrors the
// form rules: a name, a known provider type, a model identifier, and an
// API key when the provider requires one.
func ValidateDraft(draft model.Model) error {
	if strings.TrimSpace(draft.Name) == "" {
		return &ClientError{Type: ErrTypeValidation, Message: "model name is required"}
	}
	if !draft.Type.Valid() {
		return &ClientError{Type: ErrTypeValidation, Message: "unknown provider type: " + string(draft.Type)}
	}
	if strings.TrimSpace(draft.ModelIdentifier) == "" {
		return &ClientError{Type: ErrTypeValidation, Message: "model identifier is required"}
	}
	if draft.Type.RequiresAPIKey() && strings.TrimSpace(draft.APIKey) == "" {
		return &ClientError{Type: ErrTypeValidation, Message: "API key is required for " + draft.Type.DisplayName() + " models"}
	}
	return nil
}

type registerRequest struct {
	Name            string `json:"name"`
	Type            string `json:"type"`
	ModelIdentifier string `json:"model_identifier"`
	APIKey          string `json:"api_key,omitempty"`
	Organization    string `json:"organization,omitempty"`
	ProjectID       string `json:"project_id,omitempty"`
}

// RegisterModel validates the draft locally, then submits it. The
// returned model carries the backend-assigned ID. Validation failures
// never reach the network.
func (c *Client) RegisterModel(ctx context.Context, draft model.Model) (*model.Model, error) {
	if err := ValidateDraft(draft); err != nil {
		return nil, err
	}

	payload := registerRequest{
		Name:            draft.Name,
		Type:            string(draft.Type),
		ModelIdentifier: draft.ModelIdentifier,
		APIKey:          draft.APIKey,
		Organization:    draft.Organization,
		ProjectID:       draft.ProjectID,
	}

	var registered model.Model
	if err := c.post(ctx, "/api/models", payload, &registered); err != nil {
		return nil, err
	}
	// The backend never echoes credentials back.
	registered.APIKey = ""
	return &registered, nil
}

// UnregisterModel removes a registered model. Builtin models are
// rejected locally, matching the backend rule, so the distinction does
// not depend on a round trip.
func (c *Client) UnregisterModel(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return &ClientError{Type: ErrTypeValidation, Message: "model ID is required"}
	}
	if (model.Model{ID: id}).Builtin() {
		return &ClientError{Type: ErrTypeValidation, Message: "built-in models cannot be removed"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.BaseURL()+"/api/models/"+id, nil)
	if err != nil {
		return &ClientError{Type: ErrTypeNetwork, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ClientError{Type: ErrTypeNetwork, Message: "backend unreachable", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return backendError(resp)
	}
	return nil
}

// =============================================================================
// CHAT
// =============================================================================

type chatRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// SendResult is the backend's reply to a chat request.
type SendResult struct {
	Response string `json:"response"`
	ModelID  string `json:"model_id"`
}

// SendMessage submits prompt text for generation by the identified
// model. Backend rejections come back as ErrTypeBackend carrying the
// backend's detail text; connectivity failures as ErrTypeNetwork.
func (c *Client) SendMessage(ctx context.Context, text, modelID string) (*SendResult, error) {
	if strings.TrimSpace(modelID) == "" {
		return nil, &ClientError{Type: ErrTypeValidation, Message: "no model selected"}
	}

	var result SendResult
	if err := c.post(ctx, "/api/chat", chatRequest{Text: text, ModelID: modelID}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Reset asks the backend to drop its conversational state. Local
// sessions are unaffected.
func (c *Client) Reset(ctx context.Context) error {
	return c.post(ctx, "/api/reset", struct{}{}, nil)
}

// =============================================================================
// INTERNALS
// =============================================================================

// post sends a JSON body and decodes a JSON reply into out (skipped
// when out is nil). 2xx is success; anything else becomes a backend
// error carrying the response detail.
func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &ClientError{Type: ErrTypeUnknown, Message: "failed to encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL()+path, bytes.NewReader(body))
	if err != nil {
		return &ClientError{Type: ErrTypeNetwork, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ClientError{Type: ErrTypeNetwork, Message: "backend unreachable", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return backendError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// backendError reads the error body and extracts the detail field the
// backend uses for human-readable rejections.
func backendError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var payload struct {
		Detail string `json:"detail"`
	}
	message := "request failed with status " + resp.Status
	if err := json.Unmarshal(data, &payload); err == nil && payload.Detail != "" {
		message = payload.Detail
	}
	return &ClientError{Type: ErrTypeBackend, Message: message}
}
