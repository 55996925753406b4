// Package domain は購読者の入力値を検証済みの値オブジェクトとして提供する。
// ここでのパースはすべて純粋関数であり、I/Oや副作用を持たない。
package domain

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

// maxNameGraphemes は名前の最大長（書記素クラスタ数）。
const maxNameGraphemes = 256

// forbiddenNameCharacters は名前に含めることを許可しない文字。
// HTMLやパス区切りとして解釈されうる文字を弾く。
var forbiddenNameCharacters = []rune{'/', '(', ')', '"', '<', '>', '\\', '{', '}'}

// SubscriberName は検証済みの購読者名を保持する値オブジェクト。
// ParseSubscriberNameを通じてのみ生成される。
type SubscriberName struct {
	value string
}

// ParseSubscriberName は入力文字列を検証してSubscriberNameを返す。
// 空白のみ、書記素クラスタ数が256超、禁止文字を含む場合はエラーを返す。
func ParseSubscriberName(raw string) (SubscriberName, error) {
	if strings.TrimSpace(raw) == "" {
		return SubscriberName{}, fmt.Errorf("name must not be empty")
	}

	// 文字数はバイト数でもrune数でもなく書記素クラスタ数で数える。
	// 結合文字を含む名前（例: ё や絵文字）を1文字として扱うため。
	if uniseg.GraphemeClusterCount(raw) > maxNameGraphemes {
		return SubscriberName{}, fmt.Errorf("name must not exceed %d characters", maxNameGraphemes)
	}

	if strings.ContainsAny(raw, string(forbiddenNameCharacters)) {
		return SubscriberName{}, fmt.Errorf("name contains forbidden characters")
	}

	return SubscriberName{value: raw}, nil
}

// String は検証済みの名前文字列を返す。
func (n SubscriberName) String() string {
	return n.value
}
