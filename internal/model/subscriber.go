// Package model はドメインモデルを定義する。
package model

import "time"

// SubscriberStatus は購読者の確認状態を表す。
type SubscriberStatus string

const (
	// StatusPendingConfirmation は確認メールのリンクが未訪問の状態。
	StatusPendingConfirmation SubscriberStatus = "pending_confirmation"
	// StatusConfirmed は確認リンクの訪問により購読が確定した状態。
	// 一度confirmedになった購読者がpending_confirmationに戻ることはない。
	StatusConfirmed SubscriberStatus = "confirmed"
)

// Subscriber はニュースレターの購読者を表す。
// IDとSubscribedAtは作成時に割り当てられ、以後変更されない。
type Subscriber struct {
	ID           string
	Email        string
	Name         string
	SubscribedAt time.Time
	Status       SubscriberStatus
}
