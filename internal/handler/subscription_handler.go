// Package handler はHTTPハンドラーとルーティングを提供する。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/merumaga/internal/middleware"
	"github.com/hitoshi/merumaga/internal/model"
)

// SubscriptionServiceInterface は購読ハンドラーが必要とするサービスインターフェース。
type SubscriptionServiceInterface interface {
	// Submit は購読申し込みを処理する。
	Submit(ctx context.Context, rawName, rawEmail string) error
	// ConfirmByToken は確認トークンを検証して購読を確定する。
	ConfirmByToken(ctx context.Context, token string) error
}

// SubscriptionHandler は購読ライフサイクルのHTTPハンドラー。
type SubscriptionHandler struct {
	service SubscriptionServiceInterface
	logger  *slog.Logger
}

// NewSubscriptionHandler はSubscriptionHandlerを生成する。
func NewSubscriptionHandler(service SubscriptionServiceInterface, logger *slog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		service: service,
		logger:  logger,
	}
}

// Subscribe は購読申し込みを受け付ける。
// POST /subscriptions （application/x-www-form-urlencoded、フィールド: name, email）
func (h *SubscriptionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの解析に失敗しました。",
			Category: "validation",
			Action:   "application/x-www-form-urlencoded形式でリクエストしてください。",
		})
		return
	}

	name := r.PostForm.Get("name")
	email := r.PostForm.Get("email")

	if err := h.service.Submit(r.Context(), name, email); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Confirm は確認メールのリンク訪問を処理する。
// GET /subscriptions/confirm?token=<token>
func (h *SubscriptionHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewInvalidTokenError())
		return
	}

	if err := h.service.ConfirmByToken(r.Context(), token); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// handleServiceError はサービス層のエラーをHTTPステータスにマッピングする。
// APIError以外の内部エラーは詳細をログに残し、クライアントには一般的な500を返す。
func (h *SubscriptionHandler) handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		h.logger.Error("internal error", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	switch apiErr.Code {
	case model.ErrCodeInvalidName, model.ErrCodeInvalidEmail:
		middleware.WriteErrorResponse(w, http.StatusBadRequest, apiErr)
	case model.ErrCodeDuplicateEmail:
		middleware.WriteErrorResponse(w, http.StatusConflict, apiErr)
	case model.ErrCodeInvalidToken:
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, apiErr)
	case model.ErrCodeEmailSendFailed:
		middleware.WriteErrorResponse(w, http.StatusInternalServerError, apiErr)
	default:
		middleware.WriteInternalServerError(w)
	}
}
