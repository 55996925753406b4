package email

// Secret はメールプロバイダの認証トークンを保持する書き込み専用の秘密値。
// String/Formatはマスクされた値を返すため、ログやエラーメッセージに
// 混入しても実際の値は露出しない。実値の取得はReveal経由に限る。
type Secret struct {
	value string
}

// NewSecret は秘密値を包んだSecretを生成する。
func NewSecret(value string) Secret {
	return Secret{value: value}
}

// Reveal は保持している実値を返す。リクエストヘッダー構築時のみ使用すること。
func (s Secret) Reveal() string {
	return s.value
}

// String はマスクされた表現を返す。fmtパッケージ経由の出力はすべてここを通る。
func (s Secret) String() string {
	return "[REDACTED]"
}

// MarshalJSON はJSONシリアライズ時にもマスクされた値を返す。
func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"[REDACTED]"`), nil
}
