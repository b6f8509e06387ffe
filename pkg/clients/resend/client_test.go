package resend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"politicswithalex/api_site/pkg/email"
)

// newTestClient creates a client without an executor so tests use the direct
// client.Do path instead of retry policies.
func newTestClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  "test-key",
		from:    "Site <no-reply@example.com>",
		client:  &http.Client{},
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("key", "from@example.com")
	if c.baseURL != defaultBaseURL {
		t.Fatalf("expected default base URL, got %s", c.baseURL)
	}
	if c.client == nil {
		t.Fatal("expected non-nil HTTP client")
	}
	if c.httpExecutor == nil {
		t.Fatal("expected non-nil httpExecutor")
	}
}

func TestSendSuccess(t *testing.T) {
	var gotMethod, gotPath, gotAuth string
	var gotBody sendRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")

		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	err := c.Send(context.Background(), email.Message{
		To:      "contact@example.com",
		ReplyTo: "reader@example.com",
		Subject: "Story Submission: hello",
		HTML:    "<p>hi</p>",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotMethod != "POST" {
		t.Fatalf("expected POST, got %s", gotMethod)
	}
	if gotPath != "/emails" {
		t.Fatalf("expected /emails, got %s", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("expected bearer auth, got %s", gotAuth)
	}
	if gotBody.From != "Site <no-reply@example.com>" {
		t.Fatalf("unexpected from: %s", gotBody.From)
	}
	if len(gotBody.To) != 1 || gotBody.To[0] != "contact@example.com" {
		t.Fatalf("unexpected to: %v", gotBody.To)
	}
	if gotBody.ReplyTo != "reader@example.com" {
		t.Fatalf("unexpected reply_to: %s", gotBody.ReplyTo)
	}
}

func TestSendOmitsEmptyReplyTo(t *testing.T) {
	var raw map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &raw)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if err := c.Send(context.Background(), email.Message{To: "a@b.co", Subject: "s", HTML: "h"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, present := raw["reply_to"]; present {
		t.Fatalf("expected reply_to to be omitted")
	}
}

func TestSendAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	err := c.Send(context.Background(), email.Message{To: "a@b.co", Subject: "s", HTML: "h"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", apiErr.StatusCode)
	}
}
