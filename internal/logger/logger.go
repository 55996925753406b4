// Package logger はJSON構造化ログのセットアップを提供する。
// 生成したロガーはグローバルに依存せず、各サービスへ明示的に注入して使う。
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Setup はJSON構造化ログ出力のslog.Loggerを生成して返す。
// writerが指定された場合はそのwriterに出力する。
func Setup(w io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(handler)
}

// SetupDefault はJSON構造化ログをグローバルロガーとして設定し、同じロガーを返す。
// 返り値はサービス層への注入用に使い、グローバル参照は起動時ログに限る。
// 本番ではos.Stdoutを渡すことを想定している。
func SetupDefault(w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	l := Setup(w)
	slog.SetDefault(l)
	return l
}
