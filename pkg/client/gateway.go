// Package client is the Go SDK for the blog platform API. It mirrors the
// admin console's service layer: a thin gateway that attaches the shared
// service credential to every call and normalizes failures into a small set
// of error kinds, plus collection services for posts and users and a session
// store for the access/refresh token lifecycle.
//
// The service key is process configuration and never leaves the machine the
// SDK runs on; user-facing frontends are expected to sit behind a proxy that
// holds it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrorKind classifies a gateway failure for the caller.
type ErrorKind int

const (
	// KindGeneric covers non-2xx statuses with no more specific meaning.
	KindGeneric ErrorKind = iota
	// KindNotFound is a 404; collection services usually convert it to a
	// nil result rather than an error.
	KindNotFound
	// KindUpstream is a 5xx: the backend reached but failing. Retryable.
	KindUpstream
	// KindNetwork means the request never produced an HTTP response.
	KindNetwork
	// KindValidation is raised client-side before any network call.
	KindValidation
)

// GatewayError is the error type for every failure the SDK surfaces.
type GatewayError struct {
	Kind    ErrorKind
	Status  int // HTTP status, 0 when no response was received
	Message string
}

func (e *GatewayError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("gateway: HTTP %d: %s", e.Status, e.Message)
	}
	return "gateway: " + e.Message
}

// errKind extracts the ErrorKind from an error returned by the SDK.
func errKind(err error) ErrorKind {
	if ge, ok := err.(*GatewayError); ok {
		return ge.Kind
	}
	return KindGeneric
}

// IsNotFound reports whether err is a classified 404.
func IsNotFound(err error) bool { return errKind(err) == KindNotFound }

// Options configures a Gateway.
type Options struct {
	// BaseURL is the API root, e.g. "https://api.example.com".
	BaseURL string
	// ServiceKey is the shared service credential attached to every call.
	ServiceKey string
	// HTTPClient defaults to a client with a 30 second timeout.
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Gateway issues JSON-over-HTTP calls to the backend, attaching the service
// credential and classifying failures.
type Gateway struct {
	baseURL    string
	serviceKey string
	http       *http.Client
	log        zerolog.Logger
}

func NewGateway(opts Options) *Gateway {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Gateway{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		serviceKey: opts.ServiceKey,
		http:       hc,
		log:        opts.Logger,
	}
}

// Call issues a request and decodes the JSON response into out (which may be
// nil for calls with no interesting body). token, when non-empty, is sent as
// a bearer credential. body, when non-nil, is JSON-encoded.
func (g *Gateway) Call(ctx context.Context, method, endpoint, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &GatewayError{Kind: KindGeneric, Message: "encode request: " + err.Error()}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+endpoint, reader)
	if err != nil {
		return &GatewayError{Kind: KindGeneric, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-functions-key", g.serviceKey)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return &GatewayError{Kind: KindNetwork, Message: "network error: " + err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &GatewayError{Kind: KindNetwork, Status: resp.StatusCode, Message: "read response: " + err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return g.classify(resp.StatusCode, raw)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &GatewayError{Kind: KindGeneric, Status: resp.StatusCode, Message: "decode response: " + err.Error()}
	}
	return nil
}

// classify maps a non-2xx response to a GatewayError. The body may be a JSON
// error envelope or a bare string; neither crashes the caller.
func (g *Gateway) classify(status int, raw []byte) *GatewayError {
	msg := errorMessage(raw)
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d", status)
	}

	kind := KindGeneric
	switch {
	case status == http.StatusNotFound:
		kind = KindNotFound
	case status >= 500:
		kind = KindUpstream
	}

	return &GatewayError{Kind: kind, Status: status, Message: msg}
}

func errorMessage(raw []byte) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	return strings.TrimSpace(string(raw))
}
