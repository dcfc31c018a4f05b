package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/skillbridge/registration-api/internal/domain/safeaction"
	"github.com/skillbridge/registration-api/internal/httperr"
	"github.com/skillbridge/registration-api/internal/httpresp"
	"github.com/skillbridge/registration-api/internal/models"
)

type PublicHandler struct {
	repo domain.Repository
}

func NewPublicHandler(repo domain.Repository) *PublicHandler {
	return &PublicHandler{repo: repo}
}

// RegistrationStatus é a leitura pública dos flags que o portal consome
// antes de mostrar o formulário de matrícula. Passa pelo cache.
func (h *PublicHandler) RegistrationStatus(c *gin.Context) {
	ctx := c.Request.Context()

	keys := []string{
		models.SettingRegistrationOpen,
		models.SettingSystemFrozen,
		models.SettingMaintenanceMode,
		models.SettingRegistrationFee,
	}

	values := make(map[string]string, len(keys))
	for _, key := range keys {
		val, err := h.repo.GetSettingValue(ctx, key)
		if err != nil {
			httperr.Internal(c, "status_unavailable", "Erro ao consultar status.")
			return
		}
		values[key] = val
	}

	open := values[models.SettingRegistrationOpen] == "true" &&
		values[models.SettingSystemFrozen] != "true" &&
		values[models.SettingMaintenanceMode] != "true"

	httpresp.OK(c, gin.H{
		"registration_open": open,
		"system_frozen":     values[models.SettingSystemFrozen] == "true",
		"maintenance_mode":  values[models.SettingMaintenanceMode] == "true",
		"registration_fee":  values[models.SettingRegistrationFee],
	})
}
