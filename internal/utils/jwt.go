package utils

import (
	"errors"
	"fmt"
	"time"

	"album-server/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// LoginClaims authenticates API requests.
type LoginClaims struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Type     string `json:"type"` // "login"
	jwt.RegisteredClaims
}

// ActionClaims carries a signed, time-limited account action (confirm,
// reset-password, change-email). NewEmail is only set for change-email.
type ActionClaims struct {
	ID        uint   `json:"id"`
	Operation string `json:"operation"`
	NewEmail  string `json:"new_email,omitempty"`
	Type      string `json:"type"` // "action"
	jwt.RegisteredClaims
}

func getSecret() []byte {
	return []byte(config.Get().JWT.Secret)
}

func GenerateLoginToken(id uint, username string, duration time.Duration) (string, error) {
	claims := LoginClaims{
		ID:       id,
		Username: username,
		Type:     "login",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			Issuer:    "album-server",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getSecret())
}

// GenerateActionToken signs an account-action payload. The signature covers
// the subject id, the operation, any extra claim and the expiry.
func GenerateActionToken(id uint, operation string, duration time.Duration, newEmail string) (string, error) {
	claims := ActionClaims{
		ID:        id,
		Operation: operation,
		NewEmail:  newEmail,
		Type:      "action",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			Issuer:    "album-server",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getSecret())
}

func ParseLoginToken(tokenString string) (*LoginClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &LoginClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getSecret(), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*LoginClaims); ok && token.Valid {
		if claims.Type != "login" {
			return nil, errors.New("invalid token type")
		}
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// ParseActionToken verifies the signature and expiry of an action token.
// Operation and subject checks are up to the caller.
func ParseActionToken(tokenString string) (*ActionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ActionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getSecret(), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*ActionClaims); ok && token.Valid {
		if claims.Type != "action" {
			return nil, errors.New("invalid token type")
		}
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
