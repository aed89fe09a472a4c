package crypto

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signClaims(t *testing.T, method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, ClientClaims{RegisteredClaims: claims}).SignedString(key)
	if err != nil {
		t.Fatalf("SignedString() unexpected error: %v", err)
	}
	return s
}

func validClaims() jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Issuer:    clientIssuer,
		Subject:   "client-1",
		Audience:  jwt.ClaimStrings{clientAudience},
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	}
}

func TestGenerateClientTokenRoundTrip(t *testing.T) {
	token, err := GenerateClientToken("client-1", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateClientToken() unexpected error: %v", err)
	}

	claims, err := ValidateClientToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateClientToken() unexpected error: %v", err)
	}
	if claims.ClientID() != "client-1" {
		t.Errorf("ValidateClientToken() ClientID = %q, want %q", claims.ClientID(), "client-1")
	}
	if claims.Subject != "client-1" {
		t.Errorf("ValidateClientToken() Subject = %q, want %q", claims.Subject, "client-1")
	}
	if claims.NotBefore == nil || claims.IssuedAt == nil {
		t.Errorf("ValidateClientToken() nbf = %v iat = %v, want both set", claims.NotBefore, claims.IssuedAt)
	}
}

func TestGenerateClientTokenEmptyClientID(t *testing.T) {
	if _, err := GenerateClientToken("", testSecret, time.Hour); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("GenerateClientToken(\"\") error = %v, want %v", err, ErrInvalidToken)
	}
}

func TestValidateClientTokenRejects(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name   string
		token  func(t *testing.T) string
		secret string
	}{
		{
			name:   "garbage",
			token:  func(t *testing.T) string { return "not-a-valid-token" },
			secret: testSecret,
		},
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				return signClaims(t, jwt.SigningMethodHS256, []byte("other-secret"), validClaims())
			},
			secret: testSecret,
		},
		{
			name: "unsigned",
			token: func(t *testing.T) string {
				return signClaims(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, validClaims())
			},
			secret: testSecret,
		},
		{
			name: "other hmac method",
			token: func(t *testing.T) string {
				return signClaims(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims())
			},
			secret: testSecret,
		},
		{
			name: "expired",
			token: func(t *testing.T) string {
				c := validClaims()
				c.IssuedAt = jwt.NewNumericDate(now.Add(-2 * time.Hour))
				c.NotBefore = c.IssuedAt
				c.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Hour))
				return signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			secret: testSecret,
		},
		{
			name: "not yet valid",
			token: func(t *testing.T) string {
				c := validClaims()
				c.NotBefore = jwt.NewNumericDate(now.Add(time.Hour))
				c.ExpiresAt = jwt.NewNumericDate(now.Add(2 * time.Hour))
				return signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			secret: testSecret,
		},
		{
			name: "issued in the future",
			token: func(t *testing.T) string {
				c := validClaims()
				c.IssuedAt = jwt.NewNumericDate(now.Add(time.Hour))
				return signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			secret: testSecret,
		},
		{
			name: "no expiry",
			token: func(t *testing.T) string {
				c := validClaims()
				c.ExpiresAt = nil
				return signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			secret: testSecret,
		},
		{
			name: "wrong audience",
			token: func(t *testing.T) string {
				c := validClaims()
				c.Audience = jwt.ClaimStrings{"someone-else"}
				return signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			secret: testSecret,
		},
		{
			name: "wrong issuer",
			token: func(t *testing.T) string {
				c := validClaims()
				c.Issuer = "someone-else"
				return signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			secret: testSecret,
		},
		{
			name: "no subject",
			token: func(t *testing.T) string {
				c := validClaims()
				c.Subject = ""
				return signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			secret: testSecret,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateClientToken(tt.token(t), tt.secret)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("ValidateClientToken() = %v, %v, want %v", claims, err, ErrInvalidToken)
			}
		})
	}
}

func TestClientClaimsNeedsRenewal(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		expiry *jwt.NumericDate
		want   bool
	}{
		{"fresh", jwt.NewNumericDate(now.Add(20 * time.Hour)), false},
		{"inside window", jwt.NewNumericDate(now.Add(time.Hour)), true},
		{"already expired", jwt.NewNumericDate(now.Add(-time.Minute)), true},
		{"no expiry", nil, true},
	}

	for _, tt := range tests {
		c := &ClientClaims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: tt.expiry}}
		if got := c.NeedsRenewal(now, 12*time.Hour); got != tt.want {
			t.Errorf("NeedsRenewal(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
