// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/merumaga/internal/model"
)

// SubscriberRepository は購読者データの永続化インターフェース。
// すべての操作はバックエンドのトランザクション分離に依存し、
// 同一emailへの並行INSERTは必ず片方だけが勝つ。
type SubscriberRepository interface {
	// InsertPending は購読者をpending_confirmation状態で作成する。
	// 同一emailが既に存在する場合はmodel.ErrDuplicateEmailを返す。
	InsertPending(ctx context.Context, sub *model.Subscriber) error

	// StoreToken は確認トークンを購読者に紐付けて保存する。
	// 購読者IDが存在しない場合はエラーを返す。
	StoreToken(ctx context.Context, subscriberID, token string) error

	// FindSubscriberIDByToken はトークンに対応する購読者IDを返す。
	// 見つからない場合は空文字列を返す。
	FindSubscriberIDByToken(ctx context.Context, token string) (string, error)

	// Confirm は購読者のstatusをconfirmedに更新する。
	// 既にconfirmedの場合も成功として扱う（冪等）。
	// 購読者IDが存在しない場合はエラーを返す。
	Confirm(ctx context.Context, subscriberID string) error
}
