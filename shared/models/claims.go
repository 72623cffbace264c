package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims представляет поля JWT, выданного сервисом авторизации.
// Токен приходит в cookie или в заголовке Authorization.
type Claims struct {
	UserID               uuid.UUID `json:"user_id"`
	Roles                []string  `json:"roles,omitempty"`
	jwt.RegisteredClaims           // Issuer, Subject, ExpiresAt, IssuedAt ...
}
