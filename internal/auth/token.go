package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenManager validates org-scoped bearer tokens. Tokens are issued by the
// external identity provider sharing the HS256 secret; GenerateToken exists
// for local development and tests.
type TokenManager struct {
	secret []byte
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// OrgClaims describes the JWT payload carried by tenant-scoped requests.
type OrgClaims struct {
	OrgID string `json:"org_id"`
	jwt.RegisteredClaims
}

// GenerateToken builds and signs a token for the profile within an org.
func (tm *TokenManager) GenerateToken(profileID, orgID string, ttl time.Duration) (string, error) {
	claims := &OrgClaims{
		OrgID: orgID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profileID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
}

// ParseToken validates and returns claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*OrgClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &OrgClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*OrgClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.OrgID == "" {
		return nil, errors.New("token missing org claim")
	}
	return claims, nil
}
