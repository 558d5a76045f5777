package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt"

	"chatrelay/internal/pkg/errs"
)

const (
	// IdentityExpiration is the default lifetime of tokens minted by GenerateToken.
	IdentityExpiration = 24 * time.Hour

	// DefaultIssuer identifies tokens minted for local development.
	DefaultIssuer = "chatrelay-dev"
)

var (
	// ErrMissingSubject is returned for otherwise valid tokens without a sub claim.
	ErrMissingSubject = errors.New("token has no subject")

	// ErrIssuerMismatch is returned when the token was issued by someone else.
	ErrIssuerMismatch = errors.New("token issuer mismatch")
)

// GenerateToken creates and signs a new JWT Token string for the given claims.
// IssuedAt and ExpiresAt are always overwritten; Issuer defaults to DefaultIssuer.
func GenerateToken(claims *Claims, secretKey string, duration time.Duration) (string, error) {
	now := time.Now()

	claims.IssuedAt = now.Unix()
	claims.ExpiresAt = now.Add(duration).Unix()
	if claims.Issuer == "" {
		claims.Issuer = DefaultIssuer
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secretKey))
}

// ParseToken parses and validates the JWT Token string using the provided secretKey.
func ParseToken(tokenString string, secretKey string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}

	return claims, nil
}

// Verifier validates identity tokens against a shared secret and, optionally, an expected issuer.
type Verifier struct {
	secret string
	issuer string
}

// NewVerifier returns a Verifier. An empty issuer disables the issuer check.
func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: secret, issuer: issuer}
}

// Parse validates tokenString and returns its claims.
func (v *Verifier) Parse(tokenString string) (*Claims, error) {
	claims, err := ParseToken(tokenString, v.secret)
	if err != nil {
		return nil, err
	}

	if v.issuer != "" && !claims.VerifyIssuer(v.issuer, true) {
		return nil, ErrIssuerMismatch
	}

	return claims, nil
}

// Verify resolves tokenString to the user identity it was issued for.
// Rejected tokens report errs.ErrUnauthorized and keep the parse failure as their cause.
func (v *Verifier) Verify(_ context.Context, tokenString string) (string, error) {
	claims, err := v.Parse(tokenString)
	if err != nil {
		return "", errs.Wrap(errs.ErrUnauthorized, err)
	}

	return claims.Subject, nil
}
