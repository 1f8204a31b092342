package planilla

import (
	"go-planillas/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RegisterRoutes mounts the planilla surface under /planillas. All routes
// require auth; state transitions additionally require the matching RBAC
// permission and honor Idempotency-Key headers when redis is configured.
func RegisterRoutes(
	rg *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	rdb *redis.Client,
) {
	planillas := rg.Group("/planillas")
	planillas.Use(middleware.AuthMiddleware())

	planillas.GET("/:planillaID/elegibles",
		middleware.RBACAuthorize(rbacService, "planillas", "read"),
		handler.ListElegibles,
	)
	planillas.GET("/:planillaID/elegibles/aprobados",
		middleware.RBACAuthorize(rbacService, "planillas", "read"),
		handler.ListElegiblesAprobados,
	)

	transiciones := planillas.Group("")
	if rdb != nil {
		transiciones.Use(middleware.Idempotency(rdb))
	}

	transiciones.POST("/:planillaID/aprobar",
		middleware.RBACAuthorize(rbacService, "planillas", "approve"),
		handler.Aprobar,
	)
	transiciones.POST("/:planillaID/procesar",
		middleware.RBACAuthorize(rbacService, "planillas", "process"),
		handler.Procesar,
	)
	transiciones.POST("/:planillaID/cancelar",
		middleware.RBACAuthorize(rbacService, "planillas", "cancel"),
		handler.Cancelar,
	)

	planillas.PUT("/:planillaID/detalles",
		middleware.RBACAuthorize(rbacService, "planillas", "write"),
		handler.UpsertDetalle,
	)
}
