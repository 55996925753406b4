package domain

import (
	"fmt"
	"strings"
)

// SubscriberEmail は検証済みのメールアドレスを保持する値オブジェクト。
// ParseSubscriberEmailを通じてのみ生成される。
type SubscriberEmail struct {
	value string
}

// ParseSubscriberEmail は入力文字列を検証してSubscriberEmailを返す。
// local-part@domain の形式で、両側が空でなくdomainにドットを含むことを要求する。
func ParseSubscriberEmail(raw string) (SubscriberEmail, error) {
	if raw == "" {
		return SubscriberEmail{}, fmt.Errorf("email must not be empty")
	}
	if strings.ContainsAny(raw, " \t\r\n") {
		return SubscriberEmail{}, fmt.Errorf("email must not contain whitespace")
	}

	at := strings.LastIndex(raw, "@")
	if at <= 0 || at == len(raw)-1 {
		return SubscriberEmail{}, fmt.Errorf("email must have both a local part and a domain")
	}

	domainPart := raw[at+1:]
	if !strings.Contains(domainPart, ".") || strings.HasPrefix(domainPart, ".") || strings.HasSuffix(domainPart, ".") {
		return SubscriberEmail{}, fmt.Errorf("email domain is invalid")
	}

	return SubscriberEmail{value: raw}, nil
}

// String は検証済みのメールアドレス文字列を返す。
func (e SubscriberEmail) String() string {
	return e.value
}
