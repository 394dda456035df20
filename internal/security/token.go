package security

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// StationClaims identifies a circulation desk station and the operator
// signed in at it.
type StationClaims struct {
	StationID string `json:"station_id"`
	Operator  string `json:"operator,omitempty"`
	jwt.RegisteredClaims
}

type TokenManager interface {
	GenerateToken(stationID, operator string) (string, error)
	ValidateToken(tokenString string) (*StationClaims, error)
}

type tokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) TokenManager {
	return &tokenManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (m *tokenManager) GenerateToken(stationID, operator string) (string, error) {
	claims := StationClaims{
		StationID: stationID,
		Operator:  operator,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   stationID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "circulation-service",
			Audience:  jwt.ClaimStrings{"api-access"},
			ID:        generateJTI(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateToken(tokenString string) (*StationClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &StationClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*StationClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func generateJTI() string {
	return strconv.FormatInt(time.Now().UnixNano(), 16)
}
