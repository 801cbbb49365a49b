package notes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestGemini(srv *httptest.Server) *GeminiClient {
	c := NewGeminiClient("test-key")
	c.baseURL = srv.URL
	c.client = srv.Client()
	return c
}

func TestGemini_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing api key in query")
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"# Study Notes\n"},{"text":"- point one"}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	text, err := newTestGemini(srv).Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != "# Study Notes\n- point one" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestGemini_QuotaOn429(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestGemini(srv).Generate(context.Background(), "prompt")
	if !errors.Is(err, ErrProviderQuota) {
		t.Fatalf("expected ErrProviderQuota, got %v", err)
	}
}

func TestGemini_QuotaOnResourceExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"status":"RESOURCE_EXHAUSTED","message":"Quota exceeded for requests"}}`))
	}))
	defer srv.Close()

	_, err := newTestGemini(srv).Generate(context.Background(), "prompt")
	if !errors.Is(err, ErrProviderQuota) {
		t.Fatalf("expected ErrProviderQuota, got %v", err)
	}
}

func TestGemini_SafetyFinishReason(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[]},"finishReason":"SAFETY"}]}`))
	}))
	defer srv.Close()

	_, err := newTestGemini(srv).Generate(context.Background(), "prompt")
	if !errors.Is(err, ErrContentRejected) {
		t.Fatalf("expected ErrContentRejected, got %v", err)
	}
}

func TestGemini_PromptBlocked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer srv.Close()

	_, err := newTestGemini(srv).Generate(context.Background(), "prompt")
	if !errors.Is(err, ErrContentRejected) {
		t.Fatalf("expected ErrContentRejected, got %v", err)
	}
}

func TestGemini_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	_, err := newTestGemini(srv).Generate(context.Background(), "prompt")
	if !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
}
