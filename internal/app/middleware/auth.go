package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"pereval/internal/app/config"
	"pereval/internal/app/ds"
	"pereval/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/sirupsen/logrus"
)

// Ключи gin контекста, которые заполняет WithAuthCheck
const (
	ContextUserID         = "userID"
	ContextUserRole       = "userRole"
	ContextToken          = "jwt"
	ContextTokenExpiresAt = "jwtExpiresAt"
)

// Blacklist - хранилище отозванных токенов (реализуется redis.Client)
type Blacklist interface {
	CheckJWTInBlacklist(ctx context.Context, token string) (bool, error)
}

type AuthMiddleware struct {
	Blacklist Blacklist // nil - проверка отзыва выключена
	Config    *config.Config
}

func NewAuthMiddleware(blacklist Blacklist, cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{
		Blacklist: blacklist,
		Config:    cfg,
	}
}

var errEmptySecret = errors.New("jwt secret is not configured")

// WithAuthCheck middleware для проверки авторизации с ролями
func (am *AuthMiddleware) WithAuthCheck(assignedRoles ...role.Role) gin.HandlerFunc {
	return func(gCtx *gin.Context) {
		jwtStr := strings.TrimPrefix(gCtx.GetHeader("Authorization"), "Bearer ")
		if jwtStr == "" {
			gCtx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		if am.Blacklist != nil {
			revoked, err := am.Blacklist.CheckJWTInBlacklist(gCtx.Request.Context(), jwtStr)
			if err != nil {
				logrus.Errorf("check jwt blacklist: %v", err)
				gCtx.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			if revoked {
				gCtx.AbortWithStatus(http.StatusUnauthorized)
				return
			}
		}

		token, err := am.parseJWTToken(jwtStr)
		if err != nil {
			gCtx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		claims, ok := token.Claims.(*ds.JWTClaims)
		if !ok || !token.Valid {
			gCtx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		if len(assignedRoles) > 0 && !hasRequiredRole(claims.Role, assignedRoles) {
			gCtx.AbortWithStatus(http.StatusForbidden)
			return
		}

		gCtx.Set(ContextUserID, claims.UserID)
		gCtx.Set(ContextUserRole, claims.Role)
		gCtx.Set(ContextToken, jwtStr)
		gCtx.Set(ContextTokenExpiresAt, claims.ExpiresAt)

		gCtx.Next()
	}
}

// parseJWTToken принимает только токены, подписанные методом из конфигурации
func (am *AuthMiddleware) parseJWTToken(tokenString string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(tokenString, &ds.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != am.Config.JWT.SigningMethod.Alg() {
			return nil, jwt.ErrSignatureInvalid
		}
		if am.Config.JWT.Token == "" {
			return nil, errEmptySecret
		}
		return []byte(am.Config.JWT.Token), nil
	})
}

func hasRequiredRole(userRole role.Role, requiredRoles []role.Role) bool {
	for _, requiredRole := range requiredRoles {
		if userRole == requiredRole {
			return true
		}
	}
	return false
}
