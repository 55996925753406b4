package domain

import "testing"

// 空文字列が拒否されることを検証
func TestParseSubscriberEmail_EmptyStringIsRejected(t *testing.T) {
	if _, err := ParseSubscriberEmail(""); err == nil {
		t.Error("expected empty email to be rejected")
	}
}

// @を含まないメールアドレスが拒否されることを検証
func TestParseSubscriberEmail_EmailMissingAtSymbolIsRejected(t *testing.T) {
	if _, err := ParseSubscriberEmail("ursuladomain.com"); err == nil {
		t.Error("expected email without @ to be rejected")
	}
}

// local-partが無いメールアドレスが拒否されることを検証
func TestParseSubscriberEmail_EmailMissingLocalPartIsRejected(t *testing.T) {
	if _, err := ParseSubscriberEmail("@domain.com"); err == nil {
		t.Error("expected email without local part to be rejected")
	}
}

// domainが無いメールアドレスが拒否されることを検証
func TestParseSubscriberEmail_EmailMissingDomainIsRejected(t *testing.T) {
	if _, err := ParseSubscriberEmail("ursula@"); err == nil {
		t.Error("expected email without domain to be rejected")
	}
}

// 無効なdomain形式が拒否されることを検証
func TestParseSubscriberEmail_InvalidDomainIsRejected(t *testing.T) {
	for _, email := range []string{
		"ursula@domain",
		"ursula@.com",
		"ursula@domain.",
		"ursula le guin@domain.com",
	} {
		if _, err := ParseSubscriberEmail(email); err == nil {
			t.Errorf("expected email %q to be rejected", email)
		}
	}
}

// 有効なメールアドレスがパースされ、元の文字列を保持することを検証
func TestParseSubscriberEmail_ValidEmailsAreParsedSuccessfully(t *testing.T) {
	for _, email := range []string{
		"ursula_le_guin@gmail.com",
		"hitoshi+test@example.co.jp",
		"a@b.io",
	} {
		parsed, err := ParseSubscriberEmail(email)
		if err != nil {
			t.Errorf("expected email %q to be valid, got error: %v", email, err)
			continue
		}
		if parsed.String() != email {
			t.Errorf("parsed.String() = %q, want %q", parsed.String(), email)
		}
	}
}
