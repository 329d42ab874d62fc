package controllers

import (
	"log/slog"
	"net/http"

	"coffeemeet/internal/delivery/http/helpers"
	"coffeemeet/internal/domain"
)

// DispatchSuccessResponse is the success envelope for POST /internal/reminders/dispatch (200).
type DispatchSuccessResponse struct {
	Data  *domain.DispatchSummary `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

type ReminderController struct {
	Logger     *slog.Logger
	Dispatcher domain.ReminderDispatcher
}

func NewReminderController(logger *slog.Logger, dispatcher domain.ReminderDispatcher) *ReminderController {
	return &ReminderController{
		Logger:     logger,
		Dispatcher: dispatcher,
	}
}

// Dispatch godoc
// @Summary Run one reminder tick
// @Description Scans accepted invitations starting within 24h and sends due reminders. Per-invitation failures are listed in the summary; only a failed scan fails the request.
// @Tags internal
// @Produce json
// @Param X-Cron-Secret header string true "Shared scheduler secret"
// @Success 200 {object} controllers.DispatchSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 503 {object} helpers.APIResponse "error.code: dependency_error"
// @Router /internal/reminders/dispatch [post]
func (c *ReminderController) Dispatch(w http.ResponseWriter, r *http.Request) {
	summary, err := c.Dispatcher.Dispatch(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "reminder tick failed", "err", err)
		helpers.WriteJSONError(w, http.StatusServiceUnavailable, string(domain.KindOf(err)), domain.MessageOf(err))
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, summary)
}
