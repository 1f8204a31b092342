package app

import (
	"os"

	"go-planillas/internal/ajuste"
	"go-planillas/internal/empleado"
	"go-planillas/internal/messaging/kafka"
	"go-planillas/internal/planilla"
	"go-planillas/internal/rbac"
	"go-planillas/internal/rbac/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(router *gin.Engine, gormDB *gorm.DB, redisClient *redis.Client) error {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	// RBAC
	modelPath := os.Getenv("RBAC_MODEL_PATH")
	if modelPath == "" {
		modelPath = "internal/rbac/infra/model.conf"
	}
	enforcer, err := infra.NewEnforcer(modelPath)
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbac.NewRepository(gormDB), enforcer)

	// Planillas
	planillaRepo := planilla.NewRepository(gormDB)
	empleadoRepo := empleado.NewRepository(gormDB)
	ajustes := ajuste.Repos{
		Aumentos:   ajuste.NewAumentoRepository(sqlDB),
		HorasExtra: ajuste.NewHoraExtraRepository(sqlDB),
		Metricas:   ajuste.NewMetricaRepository(sqlDB),
		Rebajos:    ajuste.NewRebajoRepository(sqlDB),
	}
	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	planillaService := planilla.NewServiceWithOutbox(sqlDB, planillaRepo, empleadoRepo, ajustes, outboxRepo)
	planillaHandler := planilla.NewHandler(planillaService, redisClient)

	api := router.Group("/api/v1")
	planilla.RegisterRoutes(api, planillaHandler, rbacService, redisClient)

	return nil
}
