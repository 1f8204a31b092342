package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"go-planillas/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token not found", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			code, msg := "INVALID_TOKEN", "Invalid token"
			if err != nil && strings.Contains(err.Error(), "expired") {
				code, msg = "TOKEN_EXPIRED", "Token has expired"
			}
			response.Error(c, http.StatusUnauthorized, code, msg, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token claims", nil)
			c.Abort()
			return
		}

		usuarioID, ok := claims["usuario_id"].(string)
		if !ok || usuarioID == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Usuario ID not found in token", nil)
			c.Abort()
			return
		}

		empresaID, ok := claims["empresa_id"].(string)
		if !ok || empresaID == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Empresa ID not found in token", nil)
			c.Abort()
			return
		}

		rol, _ := claims["rol"].(string)

		c.Set("usuario_id", usuarioID)
		c.Set("empresa_id", empresaID)
		c.Set("rol", rol)

		c.Next()
	}
}
