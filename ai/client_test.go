package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/juju/errors"

	"github.com/meinhoongagan/senior-care-app/config"
)

func TestComplete(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Hello there  "}}]}`))
	}))
	defer srv.Close()

	c := NewClient(config.AIConfig{APIKey: "key", BaseURL: srv.URL + "/", Model: "test-model", Timeout: time.Second})
	out, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if out != "Hello there" {
		t.Errorf("Complete() = %q", out)
	}
	if got.Model != "test-model" || len(got.Messages) != 1 {
		t.Errorf("unexpected request %+v", got)
	}
}

func TestComplete_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"api error", http.StatusTooManyRequests, `{"error":{"message":"rate limited"}}`},
		{"empty choices", http.StatusOK, `{"choices":[]}`},
		{"garbage", http.StatusOK, `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(config.AIConfig{APIKey: "key", BaseURL: srv.URL})
			if _, err := c.Complete(context.Background(), nil); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestComplete_StatusErrorIsTraced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream overloaded"}}`))
	}))
	defer srv.Close()

	c := NewClient(config.AIConfig{APIKey: "key", BaseURL: srv.URL})
	_, err := c.Complete(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if got, want := err.Error(), "completion failed with status 502: upstream overloaded"; got != want {
		t.Errorf("error = %q, want %q", got, want)
	}
	if stack := errors.ErrorStack(err); !strings.Contains(stack, "Complete") {
		t.Errorf("error carries no source location: %s", stack)
	}
}

func TestComplete_NotConfigured(t *testing.T) {
	c := NewClient(config.AIConfig{})
	if _, err := c.Complete(context.Background(), nil); !errors.Is(err, errors.NotSupported) {
		t.Errorf("expected NotSupported, got %v", err)
	}
}
