package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/skillbridge/registration-api/internal/domain/safeaction"
	"github.com/skillbridge/registration-api/internal/httperr"
	"github.com/skillbridge/registration-api/internal/httpresp"
	"github.com/skillbridge/registration-api/internal/middleware"
	ucSafeaction "github.com/skillbridge/registration-api/internal/usecase/safeaction"
)

// ======================================================
// HANDLER
// ======================================================

type SettingsHandler struct {
	repo       domain.Repository
	historyUC  *ucSafeaction.SettingsHistoryQuery
	rollbackUC *ucSafeaction.RollbackSetting
}

func NewSettingsHandler(
	repo domain.Repository,
	historyUC *ucSafeaction.SettingsHistoryQuery,
	rollbackUC *ucSafeaction.RollbackSetting,
) *SettingsHandler {
	return &SettingsHandler{
		repo:       repo,
		historyUC:  historyUC,
		rollbackUC: rollbackUC,
	}
}

func (h *SettingsHandler) List(c *gin.Context) {
	settings, err := h.repo.ListSettings(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "settings_list_failed", "Erro ao listar settings.")
		return
	}

	httpresp.List(c, settings)
}

func (h *SettingsHandler) History(c *gin.Context) {
	settingKey := c.Query("key")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := h.historyUC.Execute(c.Request.Context(), settingKey, limit)
	if err != nil {
		httperr.Internal(c, "history_list_failed", "Erro ao listar histórico.")
		return
	}

	httpresp.List(c, entries)
}

func (h *SettingsHandler) Rollback(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)

	entryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_entry_id", "id de histórico inválido")
		return
	}

	setting, err := h.rollbackUC.Execute(c.Request.Context(), uint(entryID), actorID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, setting)
}
