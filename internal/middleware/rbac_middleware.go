package middleware

import (
	"net/http"

	"go-planillas/internal/rbac"

	"github.com/gin-gonic/gin"
)

type ContextKey string

const (
	ContextUsuarioID ContextKey = "usuario_id"
	ContextEmpresaID ContextKey = "empresa_id"
)

// RBACService is a local interface; any value with a compatible Enforce
// method satisfies it.
type RBACService interface {
	Enforce(req rbac.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		usuarioID, ok1 := c.Get(string(ContextUsuarioID))
		empresaID, ok2 := c.Get(string(ContextEmpresaID))

		if !ok1 || !ok2 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			c.Abort()
			return
		}

		req := rbac.EnforceRequest{
			UsuarioID: usuarioID.(string),
			EmpresaID: empresaID.(string),
			Resource:  resource,
			Action:    action,
		}

		allowed, err := service.Enforce(req)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{
				"error":    "forbidden",
				"message":  "You do not have permission to access this resource",
				"required": resource + ":" + action,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
