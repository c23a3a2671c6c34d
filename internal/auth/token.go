package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
)

// SessionClaims are the claims carried by the session cookie token.
// The registered ID (jti) keys the Redis session record.
type SessionClaims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService signs and validates session cookie tokens.
type TokenService struct {
	secret   []byte
	ttlHours int
}

// NewTokenService creates a token service.
func NewTokenService(secret string, ttlHours int) *TokenService {
	return &TokenService{secret: []byte(secret), ttlHours: ttlHours}
}

// TTL returns the session lifetime.
func (s *TokenService) TTL() time.Duration {
	return time.Duration(s.ttlHours) * time.Hour
}

// Generate creates a signed session token. The returned session ID is
// what the Redis store keeps; deleting it revokes the token.
func (s *TokenService) Generate(userID int64, email, role string) (token, sessionID string, err error) {
	sessionID = uuid.New().String()
	claims := SessionClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.TTL())),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        sessionID,
		},
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	return token, sessionID, err
}

// Validate parses and validates a session token, returning its claims.
func (s *TokenService) Validate(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
