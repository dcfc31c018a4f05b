package safeaction

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillbridge/registration-api/internal/audit"
	"github.com/skillbridge/registration-api/internal/catalog"
	domain "github.com/skillbridge/registration-api/internal/domain/safeaction"
	"github.com/skillbridge/registration-api/internal/httperr"
	"github.com/skillbridge/registration-api/internal/models"
)

// InvokeAction is the safe-action orchestrator. One invocation walks
// Justify -> (Reauth) -> (Scheduled | Confirm) -> Done; any failed gate
// aborts before anything is written.
type InvokeAction struct {
	repo       domain.Repository
	auditLog   *audit.Logger
	dispatcher *audit.Dispatcher
}

func NewInvokeAction(
	repo domain.Repository,
	auditLog *audit.Logger,
	dispatcher *audit.Dispatcher,
) *InvokeAction {
	return &InvokeAction{
		repo:       repo,
		auditLog:   auditLog,
		dispatcher: dispatcher,
	}
}

type InvokeInput struct {
	ActorID  uint
	ActionID string

	Justification  string
	ReauthPassword string

	// NewValue applies to settings actions; TargetUserID to ban_user.
	NewValue     string
	TargetUserID *uint
}

type InvokeResult struct {
	Descriptor catalog.ActionDescriptor `json:"descriptor"`

	Scheduled    bool       `json:"scheduled"`
	PendingID    string     `json:"pending_id,omitempty"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`

	Setting *models.Setting `json:"setting,omitempty"`
}

func (uc *InvokeAction) Execute(
	ctx context.Context,
	in InvokeInput,
) (*InvokeResult, error) {

	// unknown action ids fail closed — nunca assumir tier1
	desc, ok := catalog.Lookup(in.ActionID)
	if !ok {
		return nil, httperr.ErrValidation("unknown_action")
	}

	actor, err := uc.repo.GetUserByID(ctx, in.ActorID)
	if err != nil {
		return nil, err
	}

	// -------- Justify --------
	justification := strings.TrimSpace(in.Justification)
	if desc.RequiresJustification && justification == "" {
		return nil, httperr.ErrValidation("justification_required")
	}

	// -------- Reauth --------
	if desc.RequiresReauth {
		if err := bcrypt.CompareHashAndPassword(
			[]byte(actor.PasswordHash),
			[]byte(in.ReauthPassword),
		); err != nil {
			uc.dispatcher.Dispatch(audit.Event{
				ActorID:    &actor.ID,
				ActionType: "reauth_failed",
				Metadata:   map[string]any{"action": desc.ActionID},
			})
			return nil, httperr.ErrAuth("invalid_credentials")
		}
	}

	// -------- Intent validation --------
	if desc.SettingKey != "" && strings.TrimSpace(in.NewValue) == "" {
		return nil, httperr.ErrValidation("new_value_required")
	}
	if desc.ActionID == catalog.ActionBanUser && in.TargetUserID == nil {
		return nil, httperr.ErrValidation("target_user_required")
	}

	// -------- Confirm (immediate) --------
	if desc.DelayMinutes == 0 {
		setting, err := mutateSetting(
			ctx, uc.repo, uc.auditLog,
			actor.ID, actor.Email,
			desc.ActionID, desc.SettingKey, in.NewValue, justification,
		)
		if err != nil {
			return nil, err
		}

		return &InvokeResult{
			Descriptor: desc,
			Setting:    setting,
		}, nil
	}

	// -------- Scheduled (delayed) --------
	return uc.schedule(ctx, desc, actor, justification, in)
}

func (uc *InvokeAction) schedule(
	ctx context.Context,
	desc catalog.ActionDescriptor,
	actor *models.User,
	justification string,
	in InvokeInput,
) (*InvokeResult, error) {

	affected := 1
	if desc.SettingKey != "" {
		// ações globais atingem todo usuário ativo
		if count, err := uc.repo.CountActiveUsers(ctx); err == nil {
			affected = int(count)
		}
	}

	ap := models.PendingAction{
		ID:                 uuid.NewString(),
		ActorID:            actor.ID,
		ActionType:         desc.ActionID,
		ActionTier:         string(desc.Tier),
		Justification:      justification,
		AffectedUsersCount: affected,
		ScheduledFor:       time.Now().UTC().Add(time.Duration(desc.DelayMinutes) * time.Minute),
		Status:             models.PendingStatusPending,
		TargetTable:        desc.TargetTable,
	}

	if desc.SettingKey != "" {
		ap.Payload = encodePayload(settingPayload{
			SettingKey: desc.SettingKey,
			NewValue:   in.NewValue,
		})
	} else {
		ap.TargetID = in.TargetUserID
	}

	if err := uc.repo.CreatePendingAction(ctx, &ap); err != nil {
		return nil, err
	}

	// o que fica registrado é o agendamento — a mutação ainda não aconteceu
	if err := uc.auditLog.LogCritical(&actor.ID, "action_scheduled", desc.TargetTable, ap.ID, map[string]any{
		"action":        desc.ActionID,
		"tier":          desc.Tier,
		"scheduled_for": ap.ScheduledFor,
		"justification": justification,
	}); err != nil {
		return nil, httperr.ErrPersistence("audit_write_failed")
	}

	scheduledFor := ap.ScheduledFor
	return &InvokeResult{
		Descriptor:   desc,
		Scheduled:    true,
		PendingID:    ap.ID,
		ScheduledFor: &scheduledFor,
	}, nil
}
