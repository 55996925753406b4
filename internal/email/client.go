// Package email は外部プロバイダ経由のメール送信クライアントを提供する。
// Postmark互換のHTTP APIを1回呼び出すだけで、内部リトライは行わない。
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// ErrTimeout は設定されたタイムアウト内にプロバイダが応答しなかったことを示す。
var ErrTimeout = errors.New("email provider request timed out")

// ProviderError はプロバイダが非2xxステータスを返したことを示す。
type ProviderError struct {
	StatusCode int
}

// Error はerrorインターフェースを実装する。
func (e *ProviderError) Error() string {
	return fmt.Sprintf("email provider returned status %d", e.StatusCode)
}

// sendEmailRequest はプロバイダAPIのリクエストボディ。
type sendEmailRequest struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HtmlBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
}

// Client はメールプロバイダAPIのクライアント。
// httpClientは共有・ステートレスで並行利用に安全。タイムアウトはhttpClient側で設定する。
type Client struct {
	httpClient  *http.Client
	baseURL     string
	sender      string
	serverToken Secret
	logger      *slog.Logger
}

// NewClient はClientの新しいインスタンスを生成する。
// senderは送信元メールアドレス、serverTokenはプロバイダの認証トークン。
func NewClient(httpClient *http.Client, baseURL, sender string, serverToken Secret, logger *slog.Logger) *Client {
	return &Client{
		httpClient:  httpClient,
		baseURL:     baseURL,
		sender:      sender,
		serverToken: serverToken,
		logger:      logger,
	}
}

// Send は1通のメールをプロバイダAPI経由で送信する。
// タイムアウト時はErrTimeout、非2xx応答時は*ProviderError、
// その他のネットワーク障害時はラップしたエラーを返す。リトライは呼び出し元の判断。
func (c *Client) Send(ctx context.Context, recipient, subject, htmlBody, textBody string) error {
	payload := sendEmailRequest{
		From:     c.sender,
		To:       recipient,
		Subject:  subject,
		HtmlBody: htmlBody,
		TextBody: textBody,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("リクエストボディの構築に失敗しました: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/email", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.serverToken.Reveal())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			c.logger.Error("メール送信がタイムアウトしました",
				slog.String("recipient", recipient),
			)
			return ErrTimeout
		}
		c.logger.Error("メールプロバイダへの接続に失敗しました",
			slog.String("error", err.Error()),
			slog.String("recipient", recipient),
		)
		return fmt.Errorf("メールプロバイダへのリクエストに失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("メールプロバイダがエラーステータスを返しました",
			slog.Int("http_status", resp.StatusCode),
			slog.String("recipient", recipient),
		)
		return &ProviderError{StatusCode: resp.StatusCode}
	}

	return nil
}

// isTimeout はエラーがタイムアウト起因かどうかを判定する。
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
