package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token purposes. A token is only valid for the purpose it was issued with.
const (
	TokenPurposeEmailConfirm  = "email_confirm"
	TokenPurposePasswordReset = "password_reset"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type purposeClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// GenerateUserToken issues a signed token tying a user ID to a purpose.
func GenerateUserToken(secret string, userID uint64, purpose string, ttl time.Duration) (string, error) {
	claims := purposeClaims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseUserToken validates a token and returns the user ID it was issued for.
func ParseUserToken(secret, tokenString, purpose string) (uint64, error) {
	var claims purposeClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	if claims.Purpose != purpose {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}

	return userID, nil
}
