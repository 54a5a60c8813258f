package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TerminalClaims represents the claims in a terminal token. Identity issuance
// lives in the surrounding application; this backend only verifies tokens to
// know which terminal and employee is acting.
type TerminalClaims struct {
	TerminalID uuid.UUID `json:"terminal_id"`
	EmployeeID uuid.UUID `json:"employee_id"`
	Role       string    `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager handles terminal token generation and validation
type JWTManager struct {
	secretKey   []byte
	tokenExpiry time.Duration
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secret string, tokenExpiry time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:   []byte(secret),
		tokenExpiry: tokenExpiry,
	}
}

// GenerateTerminalToken generates a token for a terminal. Used by local tooling
// and tests; production tokens come from the venue's auth service.
func (m *JWTManager) GenerateTerminalToken(terminalID, employeeID uuid.UUID, role string) (string, error) {
	claims := &TerminalClaims{
		TerminalID: terminalID,
		EmployeeID: employeeID,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "comandas-api",
			Subject:   terminalID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// ValidateTerminalToken validates a terminal token and returns the claims
func (m *JWTManager) ValidateTerminalToken(tokenString string) (*TerminalClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TerminalClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secretKey, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*TerminalClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
