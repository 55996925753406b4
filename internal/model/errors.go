// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
)

// ErrDuplicateEmail は同一メールアドレスの購読者が既に存在することを示す。
// リポジトリ層がPostgreSQLのunique違反から変換して返す。
var ErrDuplicateEmail = errors.New("email already subscribed")

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, subscription, email, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidName     = "INVALID_NAME"
	ErrCodeInvalidEmail    = "INVALID_EMAIL"
	ErrCodeDuplicateEmail  = "DUPLICATE_EMAIL"
	ErrCodeInvalidToken    = "INVALID_TOKEN"
	ErrCodeEmailSendFailed = "EMAIL_SEND_FAILED"
)

// NewInvalidNameError は購読者名が無効な場合のエラーを生成する。
func NewInvalidNameError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidName,
		Message:  fmt.Sprintf("無効な名前です: %s", reason),
		Category: "validation",
		Action:   "名前は1〜256文字で、/ ( ) \" < > \\ { } を含まないように入力してください。",
	}
}

// NewInvalidEmailError はメールアドレスが無効な場合のエラーを生成する。
func NewInvalidEmailError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidEmail,
		Message:  "無効なメールアドレスです。",
		Category: "validation",
		Action:   "正しい形式のメールアドレス（例: name@example.com）を入力してください。",
	}
}

// NewDuplicateEmailError は既に登録済みのメールアドレスで購読しようとした場合のエラーを生成する。
func NewDuplicateEmailError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateEmail,
		Message:  "このメールアドレスは既に登録されています。",
		Category: "subscription",
		Action:   "確認メールが届いていないか受信トレイを確認してください。",
	}
}

// NewInvalidTokenError は確認トークンが見つからない場合のエラーを生成する。
func NewInvalidTokenError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidToken,
		Message:  "確認トークンが無効です。",
		Category: "subscription",
		Action:   "確認メールに記載されたリンクをそのまま開いてください。",
	}
}

// NewEmailSendFailedError は確認メールの送信に失敗した場合のエラーを生成する。
// 購読者レコードはpending_confirmationのまま保持される。
func NewEmailSendFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailSendFailed,
		Message:  "確認メールの送信に失敗しました。",
		Category: "email",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
