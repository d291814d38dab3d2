package jwtutil

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mallikarjunadanduba/FitLife360/pkg/config"
)

var (
	secret          = []byte("defaultsecretkey")
	expirationHours = 24
)

// UserClaims represents the JWT claims for user authentication. Token issuance
// lives in the auth service; this service only needs to validate and read them.
type UserClaims struct {
	Email  string `json:"email"`
	UserID uint   `json:"user_id"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Initialize configures the shared signing key
func Initialize(cfg *config.JWTConfig) {
	secret = []byte(cfg.SigningKey)
	expirationHours = cfg.ExpirationHours
}

// GenerateToken creates a signed token for the given user
func GenerateToken(userID uint, email, role string) (string, error) {
	claims := UserClaims{
		Email:  email,
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expirationHours) * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
