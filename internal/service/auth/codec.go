package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sarcolor/backend/internal/apperrors"
	"github.com/sarcolor/backend/internal/models"
)

// Claims carried inside every signed token
// Subject holds the user id, Kind separates access from refresh credentials
type Claims struct {
	jwt.RegisteredClaims
	Kind models.TokenKind `json:"kind"`
}

// TokenCodec signs and verifies token claim sets. It is pure computation:
// no I/O, safe for concurrent use
//
// Expiry is exact: no leeway window is applied, a token is rejected the
// moment expires_at is not strictly in the future
type TokenCodec struct {
	key []byte
	alg jwt.SigningMethod
}

func NewTokenCodec(secretKey string, alg string) (*TokenCodec, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("secret key must not be empty")
	}

	method := jwt.GetSigningMethod(alg)
	if method == nil {
		return nil, fmt.Errorf("unknown signing method: %q", alg)
	}

	return &TokenCodec{
		key: []byte(secretKey),
		alg: method,
	}, nil
}

// Issue signs a token for the subject with the given kind and ttl.
// Every token gets a fresh jti, so two tokens issued within the same
// second still differ.
func (c *TokenCodec) Issue(subject uuid.UUID, kind models.TokenKind, ttl time.Duration) (models.IssuedToken, error) {
	now := time.Now().Truncate(time.Second)
	expiresAt := now.Add(ttl)

	token := jwt.NewWithClaims(
		c.alg,
		Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				Subject:   subject.String(),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
			Kind: kind,
		},
	)

	signed, err := token.SignedString(c.key)
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("error while signing %s token. Err: %w", kind, err)
	}

	return models.IssuedToken{Value: signed, ExpiresAt: expiresAt}, nil
}

// Verify parses the token, checks the signature and the expiry.
// Every failure mode (malformed, tampered, expired, wrong algorithm)
// collapses into apperrors.ErrInvalidToken so the caller cannot tell
// which check rejected the token.
func (c *TokenCodec) Verify(tokenString string) (Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) { return c.key, nil },
		jwt.WithValidMethods([]string{c.alg.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return Claims{}, apperrors.ErrInvalidToken
	}

	return *claims, nil
}

// Subject of verified claims as user id
func (cl Claims) UserID() (uuid.UUID, error) {
	id, err := uuid.Parse(cl.Subject)
	if err != nil {
		return uuid.Nil, apperrors.ErrInvalidToken
	}
	return id, nil
}
