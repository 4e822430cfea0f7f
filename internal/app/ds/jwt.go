package ds

import (
	"pereval/internal/app/role"

	"github.com/golang-jwt/jwt"
)

// Токен модератора выпускается внешним сервисом авторизации
type JWTClaims struct {
	jwt.StandardClaims
	UserID uint      `json:"user_id"`
	Role   role.Role `json:"role"`
}
