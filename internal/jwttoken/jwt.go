// Package jwttoken mints and validates the HS256 bearer tokens oracle callers
// present to the HTTP layer. Token issuance itself happens out-of-band; the
// engine only consumes the identity claim.
package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "vigil/pkg/domain-errors"
)

// Claims carries the oracle identity inside access tokens.
type Claims struct {
	OracleID string `json:"oracle_id"`
	jwt.RegisteredClaims
}

// Service handles JWT creation and validation.
type Service struct {
	signingKey []byte
	issuer     string
}

func New(signingKey, issuer string) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
	}
}

// Mint issues a token for the given oracle identity.
func (s *Service) Mint(oracleID string, expiresIn time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		OracleID: oracleID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Validate parses and verifies a token, returning its claims.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token expired")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	if claims.OracleID == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token missing oracle identity")
	}
	return claims, nil
}

// Authenticator adapts Service for middleware that only needs the oracle
// identity out of a token.
type Authenticator struct {
	svc *Service
}

func NewAuthenticator(svc *Service) *Authenticator {
	return &Authenticator{svc: svc}
}

func (a *Authenticator) Validate(tokenString string) (string, error) {
	claims, err := a.svc.Validate(tokenString)
	if err != nil {
		return "", err
	}
	return claims.OracleID, nil
}
