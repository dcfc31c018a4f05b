package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/skillbridge/registration-api/internal/audit"
	"github.com/skillbridge/registration-api/internal/cache"
	"github.com/skillbridge/registration-api/internal/config"
	"github.com/skillbridge/registration-api/internal/handlers"
	infraRepo "github.com/skillbridge/registration-api/internal/infra/repository"
	"github.com/skillbridge/registration-api/internal/middleware"
	"github.com/skillbridge/registration-api/internal/models"
	"github.com/skillbridge/registration-api/internal/scheduler"
	ucSafeaction "github.com/skillbridge/registration-api/internal/usecase/safeaction"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	settingsCache := cache.New(cfg.RedisURL)
	safeActionRepo := infraRepo.NewSafeActionGormRepository(db, settingsCache)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ======================================================
	// USE CASES — SAFE ACTIONS
	// ======================================================
	invokeActionUC := ucSafeaction.NewInvokeAction(
		safeActionRepo,
		auditLogger,
		auditDispatcher,
	)

	cancelActionUC := ucSafeaction.NewCancelPendingAction(
		safeActionRepo,
		auditLogger,
	)

	executeDueUC := ucSafeaction.NewExecuteDueAction(
		safeActionRepo,
		auditLogger,
	)

	listPendingUC := ucSafeaction.NewListPendingActions(
		safeActionRepo,
	)

	historyUC := ucSafeaction.NewSettingsHistoryQuery(
		safeActionRepo,
	)

	rollbackUC := ucSafeaction.NewRollbackSetting(
		safeActionRepo,
		auditLogger,
	)

	// ======================================================
	// EXECUTOR — ações agendadas
	// ======================================================
	executor := scheduler.NewExecutor(
		safeActionRepo,
		executeDueUC,
		time.Duration(cfg.ExecutorPollSeconds)*time.Second,
	)
	executor.Start()

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)

	safeActionHandler := handlers.NewSafeActionHandler(
		invokeActionUC,
		cancelActionUC,
		listPendingUC,
	)

	settingsHandler := handlers.NewSettingsHandler(
		safeActionRepo,
		historyUC,
		rollbackUC,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)
	publicHandler := handlers.NewPublicHandler(safeActionRepo)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// API PÚBLICA
		// ------------------------------
		api.GET("/public/registration-status", publicHandler.RegistrationStatus)

		// ------------------------------
		// AUTH
		// ------------------------------
		// register só abre enquanto a base está vazia (bootstrap);
		// staff é criado por admins em /me/users
		api.POST("/auth/register", authHandler.Bootstrap)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/settings", settingsHandler.List)
			secured.GET("/me/settings/history", settingsHandler.History)

			secured.GET("/me/pending-actions", safeActionHandler.ListPending)
			secured.GET("/me/safe-actions/catalog", safeActionHandler.Catalog)

			secured.GET("/me/audit-logs", auditLogsHandler.List)

			// ------------------------------
			// AÇÕES ADMINISTRATIVAS
			// ------------------------------
			admin := secured.Group("/")
			admin.Use(middleware.RequireRole(models.RoleAdmin, models.RoleSuperadmin))
			{
				admin.POST("/me/users", authHandler.CreateUser)

				admin.POST("/me/safe-actions", safeActionHandler.Invoke)
				admin.PATCH("/me/pending-actions/:id/cancel", safeActionHandler.Cancel)
				admin.POST("/me/settings/history/:id/rollback", settingsHandler.Rollback)
			}
		}
	}
}
