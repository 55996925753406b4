package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/merumaga/internal/logger"
)

// リクエストログにmethod、path、status、duration_msが含まれることを検証
func TestLoggingMiddleware_LogsRequestFields(t *testing.T) {
	var buf bytes.Buffer
	mw := NewLoggingMiddleware(logger.Setup(&buf))

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/subscriptions", nil)
	req.RemoteAddr = "203.0.113.7:51234"
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log JSON: %v\nraw: %s", err, buf.String())
	}

	if entry["msg"] != "http_request" {
		t.Errorf("msg = %q, want %q", entry["msg"], "http_request")
	}
	if entry["method"] != "POST" {
		t.Errorf("method = %q, want %q", entry["method"], "POST")
	}
	if entry["path"] != "/subscriptions" {
		t.Errorf("path = %q, want %q", entry["path"], "/subscriptions")
	}
	if entry["status"] != float64(http.StatusOK) {
		t.Errorf("status = %v, want %v", entry["status"], http.StatusOK)
	}
	if _, ok := entry["duration_ms"]; !ok {
		t.Error("expected duration_ms field")
	}
	if entry["remote_addr"] != "203.0.113.7" {
		t.Errorf("remote_addr = %q, want %q", entry["remote_addr"], "203.0.113.7")
	}
}

// 確認トークンを含むクエリ文字列がログに出力されないことを検証
func TestLoggingMiddleware_DoesNotLogQueryString(t *testing.T) {
	var buf bytes.Buffer
	mw := NewLoggingMiddleware(logger.Setup(&buf))

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/subscriptions/confirm?token=super-secret-token", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if bytes.Contains(buf.Bytes(), []byte("super-secret-token")) {
		t.Errorf("log output leaked the confirmation token: %s", buf.String())
	}
}

// ステータスコードに応じてログレベルが変わることを検証
func TestLoggingMiddleware_LevelFollowsStatusCode(t *testing.T) {
	cases := []struct {
		status    int
		wantLevel string
	}{
		{http.StatusOK, "INFO"},
		{http.StatusBadRequest, "WARN"},
		{http.StatusInternalServerError, "ERROR"},
	}

	for _, tc := range cases {
		var buf bytes.Buffer
		mw := NewLoggingMiddleware(logger.Setup(&buf))

		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		var entry map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("failed to parse log JSON: %v", err)
		}
		if entry["level"] != tc.wantLevel {
			t.Errorf("status %d: level = %q, want %q", tc.status, entry["level"], tc.wantLevel)
		}
	}
}
