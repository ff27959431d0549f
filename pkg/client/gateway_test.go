package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

var nopLogger = zerolog.Nop()

func testGateway(t *testing.T, handler http.HandlerFunc) (*Gateway, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	gw := NewGateway(Options{BaseURL: srv.URL, ServiceKey: "test-key", Logger: nopLogger})
	return gw, srv
}

func TestGateway_AttachesCredentials(t *testing.T) {
	var gotKey, gotAuth, gotContentType string
	gw, _ := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-functions-key")
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{}`))
	})

	var out map[string]any
	if err := gw.Call(context.Background(), http.MethodPost, "/posts", "tok-123", map[string]string{"a": "b"}, &out); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if gotKey != "test-key" {
		t.Errorf("service key header = %q", gotKey)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("authorization header = %q", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Errorf("content type = %q", gotContentType)
	}
}

func TestGateway_Classify404(t *testing.T) {
	gw, _ := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"post not found"}`))
	})

	err := gw.Call(context.Background(), http.MethodGet, "/posts/nope", "", nil, nil)
	if !IsNotFound(err) {
		t.Fatalf("expected NotFound kind, got %v", err)
	}
	ge := err.(*GatewayError)
	if ge.Status != http.StatusNotFound || ge.Message != "post not found" {
		t.Errorf("unexpected error detail: %+v", ge)
	}
}

func TestGateway_Classify5xxAsUpstream(t *testing.T) {
	gw, _ := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	})

	err := gw.Call(context.Background(), http.MethodGet, "/posts", "", nil, nil)
	if errKind(err) != KindUpstream {
		t.Fatalf("expected Upstream kind, got %v", err)
	}
	// A non-JSON body becomes the message as-is.
	if err.(*GatewayError).Message != "upstream exploded" {
		t.Errorf("unexpected message %q", err.(*GatewayError).Message)
	}
}

func TestGateway_Classify4xxAsGeneric(t *testing.T) {
	gw, _ := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"slug already in use"}`))
	})

	err := gw.Call(context.Background(), http.MethodPost, "/posts", "", nil, nil)
	if errKind(err) != KindGeneric {
		t.Fatalf("expected Generic kind, got %v", err)
	}
	if err.(*GatewayError).Message != "slug already in use" {
		t.Errorf("unexpected message %q", err.(*GatewayError).Message)
	}
}

func TestGateway_NetworkErrorKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	gw := NewGateway(Options{BaseURL: srv.URL, ServiceKey: "k", Logger: nopLogger})
	err := gw.Call(context.Background(), http.MethodGet, "/posts", "", nil, nil)
	if errKind(err) != KindNetwork {
		t.Fatalf("expected Network kind, got %v", err)
	}
	if err.(*GatewayError).Status != 0 {
		t.Error("a network failure has no HTTP status")
	}
}

func TestGateway_EmptyBodySkipsDecode(t *testing.T) {
	gw, _ := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	var out map[string]any
	if err := gw.Call(context.Background(), http.MethodDelete, "/posts/x", "", nil, &out); err != nil {
		t.Fatalf("204 must not fail decoding: %v", err)
	}
}
