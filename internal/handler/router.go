package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/merumaga/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// 購読
	SubscriptionService SubscriptionServiceInterface

	// ヘルスチェック
	HealthChecker HealthChecker
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORSMiddleware → SecurityHeadersMiddleware → LoggingMiddleware → RecoveryMiddleware → RateLimitMiddleware(GeneralMiddleware)
//
// ヘルスチェック（/health）はレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// 全ルートに効くミドルウェアを最上位に適用
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewRecoveryMiddleware())

	subHandler := NewSubscriptionHandler(deps.SubscriptionService, deps.Logger)
	healthHandler := NewHealthHandler(deps.HealthChecker, deps.Logger)

	// ヘルスチェック（レート制限の対象外）
	r.Get("/health", healthHandler.Check)

	// ミドルウェアスタック: RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Route("/subscriptions", func(r chi.Router) {
			// POST /subscriptions - 購読申し込み（申し込み専用レート制限を追加）
			r.With(deps.RateLimiter.SubscribeMiddleware()).Post("/", subHandler.Subscribe)

			// GET /subscriptions/confirm - 確認トークンの検証
			r.Get("/confirm", subHandler.Confirm)
		})
	})

	return r
}
