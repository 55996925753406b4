package email

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/merumaga/internal/logger"
)

func newTestClient(t *testing.T, server *httptest.Server, timeout time.Duration) *Client {
	t.Helper()
	return NewClient(
		&http.Client{Timeout: timeout},
		server.URL,
		"newsletter@example.com",
		NewSecret("test-server-token"),
		logger.Setup(io.Discard),
	)
}

// Sendが/emailエンドポイントに正しいヘッダーとボディでPOSTすることを検証
func TestClient_Send_FiresWellFormedRequest(t *testing.T) {
	var gotPath, gotToken, gotContentType string
	var gotBody sendEmailRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get("X-Postmark-Server-Token")
		gotContentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := newTestClient(t, server, 5*time.Second)

	err := c.Send(context.Background(),
		"ursula_le_guin@gmail.com",
		"Welcome!",
		`<a href="http://localhost:8080/subscriptions/confirm?token=abc">確認する</a>`,
		"http://localhost:8080/subscriptions/confirm?token=abc",
	)
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	if gotPath != "/email" {
		t.Errorf("path = %q, want %q", gotPath, "/email")
	}
	if gotToken != "test-server-token" {
		t.Errorf("X-Postmark-Server-Token = %q, want %q", gotToken, "test-server-token")
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want %q", gotContentType, "application/json")
	}
	if gotBody.From != "newsletter@example.com" {
		t.Errorf("From = %q, want %q", gotBody.From, "newsletter@example.com")
	}
	if gotBody.To != "ursula_le_guin@gmail.com" {
		t.Errorf("To = %q, want %q", gotBody.To, "ursula_le_guin@gmail.com")
	}
	if gotBody.Subject != "Welcome!" {
		t.Errorf("Subject = %q, want %q", gotBody.Subject, "Welcome!")
	}
	if gotBody.HtmlBody == "" || gotBody.TextBody == "" {
		t.Error("expected both HtmlBody and TextBody to be set")
	}
}

// 非2xx応答が*ProviderErrorになることを検証
func TestClient_Send_Non2xxReturnsProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	c := newTestClient(t, server, 5*time.Second)

	err := c.Send(context.Background(), "to@example.com", "subject", "html", "text")

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("err = %v, want *ProviderError", err)
	}
	if provErr.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("StatusCode = %d, want %d", provErr.StatusCode, http.StatusUnprocessableEntity)
	}
}

// タイムアウト時にErrTimeoutが返ることを検証
func TestClient_Send_TimeoutReturnsErrTimeout(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	c := newTestClient(t, server, 50*time.Millisecond)

	err := c.Send(context.Background(), "to@example.com", "subject", "html", "text")
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("err = %v, want ErrTimeout", err)
	}
}

// 接続不能なプロバイダでトランスポートエラーが返ることを検証
func TestClient_Send_TransportErrorIsWrapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // 即座に閉じて接続拒否させる

	c := newTestClient(t, server, 5*time.Second)

	err := c.Send(context.Background(), "to@example.com", "subject", "html", "text")
	if err == nil {
		t.Fatal("expected error for unreachable provider")
	}
	if errors.Is(err, ErrTimeout) {
		t.Errorf("err = %v, want a non-timeout transport error", err)
	}
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		t.Errorf("err = %v, want a non-provider transport error", err)
	}
}
