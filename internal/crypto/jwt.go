package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	clientIssuer   = "insights-web"
	clientAudience = "insights-client"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
)

// ClientClaims identifies one browser to the web front. The client ID is the
// token subject.
type ClientClaims struct {
	jwt.RegisteredClaims
}

// ClientID returns the identified client.
func (c *ClientClaims) ClientID() string {
	return c.Subject
}

// NeedsRenewal reports whether the token expires within window of now.
func (c *ClientClaims) NeedsRenewal(now time.Time, window time.Duration) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return c.ExpiresAt.Sub(now) < window
}

// GenerateClientToken creates a signed identity token for the given client,
// valid from now until expiry elapses.
func GenerateClientToken(clientID, secret string, expiry time.Duration) (string, error) {
	if clientID == "" {
		return "", ErrInvalidToken
	}

	now := time.Now()
	claims := ClientClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    clientIssuer,
			Subject:   clientID,
			Audience:  jwt.ClaimStrings{clientAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateClientToken parses and validates an identity token. Only HS256
// tokens from this issuer, for this audience, with an expiry and a subject
// are accepted.
func ValidateClientToken(tokenString, secret string) (*ClientClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ClientClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(clientIssuer),
		jwt.WithAudience(clientAudience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*ClientClaims)
	if !ok || !token.Valid || claims.ClientID() == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
