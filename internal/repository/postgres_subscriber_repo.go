package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/merumaga/internal/model"
)

// uniqueViolation はPostgreSQLのunique制約違反のエラーコード。
const uniqueViolation = "23505"

// PostgresSubscriberRepo はPostgreSQLを使用した購読者リポジトリ。
type PostgresSubscriberRepo struct {
	db *sql.DB
}

// NewPostgresSubscriberRepo はPostgresSubscriberRepoを生成する。
func NewPostgresSubscriberRepo(db *sql.DB) *PostgresSubscriberRepo {
	return &PostgresSubscriberRepo{db: db}
}

// InsertPending は購読者をpending_confirmation状態で作成する。
// 同一emailが既に存在する場合はmodel.ErrDuplicateEmailを返す。
func (r *PostgresSubscriberRepo) InsertPending(ctx context.Context, sub *model.Subscriber) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO subscriptions (id, email, name, subscribed_at, status)
		 VALUES ($1, $2, $3, $4, $5)`,
		sub.ID, sub.Email, sub.Name, sub.SubscribedAt, string(model.StatusPendingConfirmation),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return model.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert subscriber: %w", err)
	}

	return nil
}

// StoreToken は確認トークンを購読者に紐付けて保存する。
func (r *PostgresSubscriberRepo) StoreToken(ctx context.Context, subscriberID, token string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO subscription_tokens (subscription_token, subscriber_id)
		 VALUES ($1, $2)`,
		token, subscriberID,
	)
	if err != nil {
		return fmt.Errorf("failed to store confirmation token: %w", err)
	}

	return nil
}

// FindSubscriberIDByToken はトークンに対応する購読者IDを返す。見つからない場合は空文字列を返す。
func (r *PostgresSubscriberRepo) FindSubscriberIDByToken(ctx context.Context, token string) (string, error) {
	var subscriberID string
	err := r.db.QueryRowContext(ctx,
		`SELECT subscriber_id FROM subscription_tokens WHERE subscription_token = $1`,
		token,
	).Scan(&subscriberID)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to find subscriber by token: %w", err)
	}

	return subscriberID, nil
}

// Confirm は購読者のstatusをconfirmedに更新する。
// 既にconfirmedの行に対するUPDATEも成功するため冪等に動作する。
func (r *PostgresSubscriberRepo) Confirm(ctx context.Context, subscriberID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE subscriptions SET status = $1 WHERE id = $2`,
		string(model.StatusConfirmed), subscriberID,
	)
	if err != nil {
		return fmt.Errorf("failed to confirm subscriber: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// トークン経由で見つかったIDが存在しないのは整合性違反
		return fmt.Errorf("subscriber not found: %s", subscriberID)
	}

	return nil
}

// compile-time interface check
var _ SubscriberRepository = (*PostgresSubscriberRepo)(nil)
