package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/clinichq/clinic-backend/pkg/types"
)

// Authority implements JWT-based token issuing and validation
type Authority struct {
	jwtSecret []byte
	tokenTTL  time.Duration
	issuer    string
	now       func() time.Time
}

// NewAuthority creates a new token authority
func NewAuthority(secret, issuer string, ttl time.Duration) *Authority {
	return &Authority{
		jwtSecret: []byte(secret),
		tokenTTL:  ttl,
		issuer:    issuer,
		now:       time.Now,
	}
}

// tokenClaims represents the signed JWT claims
type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Issue produces a signed token binding subject and role
func (a *Authority) Issue(subject string, role types.Role) (*types.AuthToken, error) {
	now := a.now()
	expiresAt := now.Add(a.tokenTTL)

	claims := &tokenClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.jwtSecret)
	if err != nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to sign token", err)
	}

	return &types.AuthToken{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(a.tokenTTL.Seconds()),
		IssuedAt:    now,
	}, nil
}

// Validate reports whether the token is well-formed, unexpired, and
// carries one of the given roles. It never returns an error; a token
// that fails for any reason is simply not valid.
func (a *Authority) Validate(tokenString string, roles ...types.Role) bool {
	claims, err := a.parse(tokenString)
	if err != nil {
		return false
	}

	for _, role := range roles {
		if types.Role(claims.Role) == role {
			return true
		}
	}
	return false
}

// Subject extracts the subject identifier from a token. Callers are
// expected to Validate first, but a bad token still fails closed here.
func (a *Authority) Subject(tokenString string) (string, error) {
	claims, err := a.parse(tokenString)
	if err != nil {
		return "", types.NewAuthenticationError(types.ErrCodeUnauthorized, "cannot extract subject from token")
	}
	return claims.Subject, nil
}

func (a *Authority) parse(tokenString string) (*tokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.jwtSecret, nil
	}, jwt.WithTimeFunc(a.now))

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(a.now()) {
		return nil, fmt.Errorf("token expired")
	}

	return claims, nil
}
