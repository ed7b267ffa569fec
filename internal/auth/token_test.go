package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dadok/readingclub/internal/domain"
	"github.com/golang-jwt/jwt/v4"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestIssueAndParse(t *testing.T) {
	m := NewTokenManager(testSecret, "readingclub", time.Hour)

	token, err := m.Issue(42)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("token %q is not a JWS compact serialization", token)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Subject != "42" {
		t.Errorf("Subject = %q, want 42", claims.Subject)
	}
}

func TestParseRejects(t *testing.T) {
	m := NewTokenManager(testSecret, "readingclub", time.Hour)

	expired := NewTokenManager(testSecret, "readingclub", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, _ := expired.Issue(1)

	otherKeyToken, _ := NewTokenManager(strings.Repeat("z", 32), "readingclub", time.Hour).Issue(1)
	otherIssuerToken, _ := NewTokenManager(testSecret, "someone-else", time.Hour).Issue(1)
	zeroUserToken, _ := m.Issue(0)

	noneToken, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"expired", expiredToken},
		{"wrong key", otherKeyToken},
		{"wrong issuer", otherIssuerToken},
		{"zero user", zeroUserToken},
		{"alg none", noneToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Parse(tt.token)
			if !errors.Is(err, domain.ErrUnauthorized) {
				t.Fatalf("Parse() error = %v, want unauthorized", err)
			}
			var derr *domain.Error
			if !errors.As(err, &derr) || derr.Code != domain.ErrCodeInvalidAccessToken {
				t.Errorf("code = %v, want %s", err, domain.ErrCodeInvalidAccessToken)
			}
		})
	}
}
