// Package subscription は購読ライフサイクルのドメインロジックを提供する。
// 申し込みの検証・永続化・確認メール送信のオーケストレーションと、
// 確認トークンによるstatus遷移（pending_confirmation → confirmed）を担う。
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/merumaga/internal/domain"
	"github.com/hitoshi/merumaga/internal/model"
	"github.com/hitoshi/merumaga/internal/repository"
)

// Notifier は確認メールの送信インターフェース。
type Notifier interface {
	Send(ctx context.Context, recipient, subject, htmlBody, textBody string) error
}

// MetricsRecorder は購読フローのメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordSubmissionAccepted()
	RecordSubmissionRejected()
	RecordSubmissionConflict()
	RecordEmailSent()
	RecordEmailSendFailure()
	RecordEmailSendLatency(d time.Duration)
	RecordConfirmation()
	RecordInvalidToken()
}

// Service は購読ライフサイクルのサービス層。
type Service struct {
	repo          repository.SubscriberRepository
	notifier      Notifier
	metrics       MetricsRecorder
	logger        *slog.Logger
	publicBaseURL string
}

// NewService はServiceの新しいインスタンスを生成する。
// publicBaseURLは確認リンクの組み立てに使う公開URL（例: "https://newsletter.example.com"）。
func NewService(
	repo repository.SubscriberRepository,
	notifier Notifier,
	metrics MetricsRecorder,
	logger *slog.Logger,
	publicBaseURL string,
) *Service {
	return &Service{
		repo:          repo,
		notifier:      notifier,
		metrics:       metrics,
		logger:        logger,
		publicBaseURL: publicBaseURL,
	}
}

// Submit は購読申し込みを処理する。
//
// 検証 → pending_confirmationでINSERT → トークン生成・保存 → 確認メール送信の順に進み、
// 各段階の失敗は*model.APIErrorとして返す。メール送信に失敗しても購読者行は
// pending_confirmationのまま残る（後からの再送を可能にするための意図的な部分失敗状態）。
func (s *Service) Submit(ctx context.Context, rawName, rawEmail string) error {
	// 1. 入力値の検証。失敗時はDBに一切書き込まない。
	name, err := domain.ParseSubscriberName(rawName)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordSubmissionRejected()
		}
		return model.NewInvalidNameError(err.Error())
	}

	email, err := domain.ParseSubscriberEmail(rawEmail)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordSubmissionRejected()
		}
		return model.NewInvalidEmailError()
	}

	// 2. pending_confirmation状態で永続化
	sub := &model.Subscriber{
		ID:           uuid.NewString(),
		Email:        email.String(),
		Name:         name.String(),
		SubscribedAt: time.Now().UTC(),
		Status:       model.StatusPendingConfirmation,
	}

	if err := s.repo.InsertPending(ctx, sub); err != nil {
		if errors.Is(err, model.ErrDuplicateEmail) {
			if s.metrics != nil {
				s.metrics.RecordSubmissionConflict()
			}
			s.logger.Warn("重複したメールアドレスでの申し込みを拒否しました",
				slog.String("subscriber_id", sub.ID),
			)
			return model.NewDuplicateEmailError()
		}
		return fmt.Errorf("購読者の永続化に失敗しました: %w", err)
	}

	// 3. 確認トークンの生成と保存
	token, err := GenerateToken()
	if err != nil {
		return fmt.Errorf("確認トークンの生成に失敗しました: %w", err)
	}

	if err := s.repo.StoreToken(ctx, sub.ID, token); err != nil {
		// INSERT直後のIDが見つからないのは整合性違反なのでそのまま伝播させる
		return fmt.Errorf("確認トークンの保存に失敗しました: %w", err)
	}

	// 4. 確認リンクの組み立てと確認メール送信。失敗しても行はpendingのまま残す。
	link := s.confirmationLink(token)

	start := time.Now()
	err = s.notifier.Send(ctx, sub.Email,
		"Welcome to merumaga!",
		fmt.Sprintf(`ニュースレターへようこそ！<br />購読を確定するには<a href="%s">こちら</a>をクリックしてください。`, link),
		fmt.Sprintf("ニュースレターへようこそ！購読を確定するには次のリンクを開いてください: %s", link),
	)
	if s.metrics != nil {
		s.metrics.RecordEmailSendLatency(time.Since(start))
	}
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordEmailSendFailure()
		}
		s.logger.Error("確認メールの送信に失敗しました",
			slog.String("subscriber_id", sub.ID),
			slog.String("error", err.Error()),
		)
		return model.NewEmailSendFailedError()
	}

	if s.metrics != nil {
		s.metrics.RecordEmailSent()
		s.metrics.RecordSubmissionAccepted()
	}
	s.logger.Info("購読申し込みを受け付けました",
		slog.String("subscriber_id", sub.ID),
	)

	return nil
}

// ConfirmByToken は確認リンク経由のトークンを検証し、購読者をconfirmedに遷移させる。
// 未知のトークンはINVALID_TOKENエラー。確認済み購読者の再確認は成功として扱う（冪等）。
func (s *Service) ConfirmByToken(ctx context.Context, token string) error {
	subscriberID, err := s.repo.FindSubscriberIDByToken(ctx, token)
	if err != nil {
		return fmt.Errorf("トークンの検索に失敗しました: %w", err)
	}
	if subscriberID == "" {
		if s.metrics != nil {
			s.metrics.RecordInvalidToken()
		}
		return model.NewInvalidTokenError()
	}

	if err := s.repo.Confirm(ctx, subscriberID); err != nil {
		return fmt.Errorf("購読の確定に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordConfirmation()
	}
	s.logger.Info("購読を確定しました",
		slog.String("subscriber_id", subscriberID),
	)

	return nil
}

// confirmationLink は確認エンドポイントのURLにトークンをクエリパラメータとして埋め込む。
func (s *Service) confirmationLink(token string) string {
	return fmt.Sprintf("%s/subscriptions/confirm?token=%s", s.publicBaseURL, url.QueryEscape(token))
}
