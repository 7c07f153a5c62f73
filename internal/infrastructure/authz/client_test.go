package authz

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/tonpuu/riichi-league/internal/platform/logging"
	"github.com/tonpuu/riichi-league/internal/platform/resilience"
	"github.com/tonpuu/riichi-league/internal/usecase"
)

func TestVerifyAccessToken_ParsesPrincipal(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/v1/auth/introspect" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}

		var req map[string]string
		if err := jsoniter.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if req["token"] != "token-abc" {
			t.Fatalf("unexpected token value: %s", req["token"])
		}

		w.Header().Set("Content-Type", "application/json")
		_ = jsoniter.NewEncoder(w).Encode(map[string]any{
			"active":       true,
			"user_id":      "user-123",
			"display_name": "Reviewer One",
			"roles":        []string{"reviewer"},
		})
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		BaseURL:        srv.URL,
		IntrospectPath: "/v1/auth/introspect",
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	}, logging.NewNop())

	principal, err := client.VerifyAccessToken(t.Context(), "token-abc")
	if err != nil {
		t.Fatalf("verify token failed: %v", err)
	}
	if principal.UserID != "user-123" {
		t.Fatalf("unexpected user id: %s", principal.UserID)
	}
	if !principal.CanReview() {
		t.Fatal("expected reviewer role to allow review")
	}
}

func TestVerifyAccessToken_InactiveToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = jsoniter.NewEncoder(w).Encode(map[string]any{"active": false})
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		BaseURL:        srv.URL,
		IntrospectPath: "/v1/auth/introspect",
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	}, logging.NewNop())

	_, err := client.VerifyAccessToken(t.Context(), "stale-token")
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestVerifyAccessToken_EmptyToken(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{
		BaseURL:        "http://localhost:1",
		IntrospectPath: "/v1/auth/introspect",
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	}, logging.NewNop())

	_, err := client.VerifyAccessToken(t.Context(), "   ")
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestVerifyAccessToken_CachesVerifiedPrincipal(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = jsoniter.NewEncoder(w).Encode(map[string]any{
			"active":  true,
			"user_id": "user-123",
			"roles":   []string{"reviewer"},
		})
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		BaseURL:        srv.URL,
		IntrospectPath: "/v1/auth/introspect",
		CacheTTL:       time.Minute,
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	}, logging.NewNop())

	for i := 0; i < 3; i++ {
		principal, err := client.VerifyAccessToken(t.Context(), "token-abc")
		if err != nil {
			t.Fatalf("verify token failed: %v", err)
		}
		if principal.UserID != "user-123" {
			t.Fatalf("unexpected user id: %s", principal.UserID)
		}
	}

	if got := hits.Load(); got != 1 {
		t.Fatalf("introspection endpoint hit %d times, want 1", got)
	}
}

func TestVerifyAccessToken_CircuitOpensAfterFailures(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		BaseURL:        srv.URL,
		IntrospectPath: "/v1/auth/introspect",
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 2},
	}, logging.NewNop())

	for i := 0; i < 2; i++ {
		if _, err := client.VerifyAccessToken(t.Context(), "token-abc"); err == nil {
			t.Fatal("expected upstream failure")
		}
	}

	_, err := client.VerifyAccessToken(t.Context(), "token-abc")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable once the breaker opened, got %v", err)
	}
}
