package middleware

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig はレート制限の設定を保持する。
type RateLimiterConfig struct {
	GeneralRate     rate.Limit    // API全般のレート（req/sec）。120/60 = 2 req/sec
	GeneralBurst    int           // API全般のバーストサイズ
	SubscribeRate   rate.Limit    // 購読申し込みのレート（req/sec）。10/60
	SubscribeBurst  int           // 購読申し込みのバーストサイズ
	CleanupInterval time.Duration // 期限切れエントリのクリーンアップ間隔
}

// DefaultRateLimiterConfig はデフォルトのレート制限設定を返す。
// 要件: API全般 120 req/min/IP、購読申し込み 10 req/min/IP
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(120.0 / 60.0), // 2 req/sec
		GeneralBurst:    120,
		SubscribeRate:   rate.Limit(10.0 / 60.0), // ~0.167 req/sec
		SubscribeBurst:  10,
		CleanupInterval: 5 * time.Minute,
	}
}

// ipLimiter はクライアントIPごとのレートリミッターとアクセス時刻を保持する。
type ipLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter はクライアントIPごとのレート制限を管理する。
// このサービスは認証を持たないため、制限のキーにはクライアントIPを使う。
// API全般のレート制限と購読申し込みのレート制限の2種類を提供する。
type RateLimiter struct {
	config RateLimiterConfig

	generalMu       sync.Mutex
	generalLimiters map[string]*ipLimiter

	subscribeMu       sync.Mutex
	subscribeLimiters map[string]*ipLimiter

	stopCh chan struct{}
}

// NewRateLimiter は新しいRateLimiterを生成する。
// バックグラウンドで期限切れエントリのクリーンアップを開始する。
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:            config,
		generalLimiters:   make(map[string]*ipLimiter),
		subscribeLimiters: make(map[string]*ipLimiter),
		stopCh:            make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop はクリーンアップのバックグラウンドゴルーチンを停止する。
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// GeneralMiddleware はAPI全般のレート制限ミドルウェアを返す。
func (rl *RateLimiter) GeneralMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			limiter := rl.getOrCreateLimiter(&rl.generalMu, rl.generalLimiters, ip, rl.config.GeneralRate, rl.config.GeneralBurst)

			if !limiter.Allow() {
				writeRateLimitResponse(w)
				slog.Warn("rate limit exceeded",
					slog.String("client_ip", ip),
					slog.String("limit_type", "general"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SubscribeMiddleware は購読申し込み専用の厳しいレート制限ミドルウェアを返す。
// POST /subscriptions に追加で適用する。
func (rl *RateLimiter) SubscribeMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			limiter := rl.getOrCreateLimiter(&rl.subscribeMu, rl.subscribeLimiters, ip, rl.config.SubscribeRate, rl.config.SubscribeBurst)

			if !limiter.Allow() {
				writeRateLimitResponse(w)
				slog.Warn("rate limit exceeded",
					slog.String("client_ip", ip),
					slog.String("limit_type", "subscribe"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getOrCreateLimiter は指定キーのリミッターを取得し、無ければ作成する。
func (rl *RateLimiter) getOrCreateLimiter(mu *sync.Mutex, limiters map[string]*ipLimiter, key string, r rate.Limit, burst int) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	if l, ok := limiters[key]; ok {
		l.lastAccess = time.Now()
		return l.limiter
	}

	l := &ipLimiter{
		limiter:    rate.NewLimiter(r, burst),
		lastAccess: time.Now(),
	}
	limiters[key] = l
	return l.limiter
}

// cleanupLoop は一定間隔でアクセスの無いリミッターエントリを削除する。
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCh:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-rl.config.CleanupInterval)
			rl.cleanup(&rl.generalMu, rl.generalLimiters, cutoff)
			rl.cleanup(&rl.subscribeMu, rl.subscribeLimiters, cutoff)
		}
	}
}

// cleanup はcutoffより前にしかアクセスされていないエントリを削除する。
func (rl *RateLimiter) cleanup(mu *sync.Mutex, limiters map[string]*ipLimiter, cutoff time.Time) {
	mu.Lock()
	defer mu.Unlock()

	for key, l := range limiters {
		if l.lastAccess.Before(cutoff) {
			delete(limiters, key)
		}
	}
}

// writeRateLimitResponse はレート制限超過時の429レスポンスを書き込む。
func writeRateLimitResponse(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	json.NewEncoder(w).Encode(ErrorResponseBody{
		Code:     "RATE_LIMITED",
		Message:  "リクエストが多すぎます。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// clientIP はリクエストのクライアントIPを返す。
// リバースプロキシ配下を想定してX-Forwarded-Forの先頭を優先する。
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
