package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillbridge/registration-api/internal/catalog"
	"github.com/skillbridge/registration-api/internal/httperr"
	"github.com/skillbridge/registration-api/internal/httpresp"
	"github.com/skillbridge/registration-api/internal/middleware"
	ucSafeaction "github.com/skillbridge/registration-api/internal/usecase/safeaction"
)

// ======================================================
// HANDLER
// ======================================================

type SafeActionHandler struct {
	invokeUC      *ucSafeaction.InvokeAction
	cancelUC      *ucSafeaction.CancelPendingAction
	listPendingUC *ucSafeaction.ListPendingActions
}

func NewSafeActionHandler(
	invokeUC *ucSafeaction.InvokeAction,
	cancelUC *ucSafeaction.CancelPendingAction,
	listPendingUC *ucSafeaction.ListPendingActions,
) *SafeActionHandler {
	return &SafeActionHandler{
		invokeUC:      invokeUC,
		cancelUC:      cancelUC,
		listPendingUC: listPendingUC,
	}
}

// --------- Requests ---------

type InvokeActionRequest struct {
	ActionID      string `json:"action_id" binding:"required"`
	Justification string `json:"justification"`
	Password      string `json:"password"`
	NewValue      string `json:"new_value"`
	TargetUserID  *uint  `json:"target_user_id"`
}

type CancelActionRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// --------- Handlers ---------

// Catalog lista os descriptors para o painel montar os avisos por tier.
func (h *SafeActionHandler) Catalog(c *gin.Context) {
	httpresp.List(c, catalog.All())
}

func (h *SafeActionHandler) Invoke(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)

	var req InvokeActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	result, err := h.invokeUC.Execute(c.Request.Context(), ucSafeaction.InvokeInput{
		ActorID:        actorID,
		ActionID:       req.ActionID,
		Justification:  req.Justification,
		ReauthPassword: req.Password,
		NewValue:       req.NewValue,
		TargetUserID:   req.TargetUserID,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	status := http.StatusOK
	if result.Scheduled {
		status = http.StatusAccepted
	}
	c.JSON(status, result)
}

func (h *SafeActionHandler) ListPending(c *gin.Context) {
	result, err := h.listPendingUC.Execute(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "pending_list_failed", "Erro ao listar ações pendentes.")
		return
	}

	httpresp.OK(c, result)
}

func (h *SafeActionHandler) Cancel(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)
	actionID := c.Param("id")

	var req CancelActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	ap, err := h.cancelUC.Execute(c.Request.Context(), actionID, actorID, req.Reason)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, ap)
}
