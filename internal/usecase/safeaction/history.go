package safeaction

import (
	"context"

	domain "github.com/skillbridge/registration-api/internal/domain/safeaction"
	"github.com/skillbridge/registration-api/internal/models"
)

const maxHistoryEntries = 50

type SettingsHistoryQuery struct {
	repo domain.Repository
}

func NewSettingsHistoryQuery(repo domain.Repository) *SettingsHistoryQuery {
	return &SettingsHistoryQuery{repo: repo}
}

// Execute lista o histórico (mais recente primeiro), opcionalmente
// filtrado por chave. Limit is clamped to the most recent 50 entries.
func (uc *SettingsHistoryQuery) Execute(
	ctx context.Context,
	settingKey string,
	limit int,
) ([]models.SettingsHistory, error) {

	if limit <= 0 || limit > maxHistoryEntries {
		limit = maxHistoryEntries
	}

	return uc.repo.ListHistory(ctx, settingKey, limit)
}
