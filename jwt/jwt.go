// Package jwt issues and verifies the bearer tokens of the API. Tokens are
// HS256-signed and carry a unique id that is also stored as a LoginToken;
// revocation is checked by the caller against that table.
package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"justeat/models"
)

type Claims struct {
	UserID uint        `json:"userID"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issued describes a freshly signed token.
type Issued struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
}

// GenerateToken signs a token for the user valid for the manager's TTL.
func (m *Manager) GenerateToken(userID uint, role models.Role) (Issued, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)
	tokenID := uuid.NewString()

	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return Issued{}, errors.Wrap(err, "sign token")
	}
	return Issued{Token: signed, TokenID: tokenID, ExpiresAt: expiresAt}, nil
}

// VerifyToken checks signature, algorithm and expiry and returns the claims.
func (m *Manager) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, errors.Wrap(err, "parse token")
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	if claims.ID == "" || !claims.Role.Valid() {
		return nil, errors.New("token is missing required claims")
	}
	return claims, nil
}
