package subscription

import (
	"crypto/rand"
	"fmt"
)

// tokenLength は確認トークンの文字数。
// 62文字のアルファベットで25文字なら約148ビットのエントロピーになる。
const tokenLength = 25

// tokenAlphabet はトークンに使用する文字集合。URLクエリにそのまま埋め込める。
const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateToken は暗号論的乱数源から確認トークンを生成する。
// 乱数源の読み取りに失敗した場合のエラーはプロセスレベルの致命的エラーとして扱う。
func GenerateToken() (string, error) {
	buf := make([]byte, tokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random source: %w", err)
	}

	token := make([]byte, tokenLength)
	for i, b := range buf {
		token[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}

	return string(token), nil
}
