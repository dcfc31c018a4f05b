package safeaction

import (
	"context"
	"time"

	domain "github.com/skillbridge/registration-api/internal/domain/safeaction"
	"github.com/skillbridge/registration-api/internal/models"
)

type ListPendingActions struct {
	repo domain.Repository
}

func NewListPendingActions(repo domain.Repository) *ListPendingActions {
	return &ListPendingActions{repo: repo}
}

// PendingActionView enriquece a linha persistida com o label do catálogo
// e o tempo restante já calculado.
type PendingActionView struct {
	models.PendingAction

	Label                string `json:"label"`
	TimeRemainingSeconds int64  `json:"time_remaining_seconds"`
	Executing            bool   `json:"executing"`
}

type PendingActionsResult struct {
	Pending []PendingActionView `json:"pending"`
	History []PendingActionView `json:"history"`
}

func (uc *ListPendingActions) Execute(
	ctx context.Context,
) (*PendingActionsResult, error) {

	actions, err := uc.repo.ListActions(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result := &PendingActionsResult{
		Pending: []PendingActionView{},
		History: []PendingActionView{},
	}

	for _, ap := range actions {
		view := PendingActionView{
			PendingAction: ap,
			Label:         labelFor(ap.ActionType),
		}

		if ap.Status == models.PendingStatusPending {
			remaining := domain.TimeRemaining(&ap, now)
			view.TimeRemainingSeconds = int64(remaining.Seconds())
			view.Executing = remaining == 0
			result.Pending = append(result.Pending, view)
		} else {
			result.History = append(result.History, view)
		}
	}

	return result, nil
}
