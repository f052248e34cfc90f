package controllers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"certbot/internal/delivery/http/helpers"
)

// MailEvent is the subset of an inbound mail provider notification that is logged.
type MailEvent struct {
	Type    string `json:"type"`
	From    string `json:"from"`
	Subject string `json:"subject"`
}

type MailWebhookController struct {
	Logger *slog.Logger
}

func NewMailWebhookController(logger *slog.Logger) *MailWebhookController {
	return &MailWebhookController{Logger: logger}
}

// Receive godoc
// @Summary Inbound mail notification
// @Description Acknowledges reply notifications from the mail provider. Payloads are logged, not processed.
// @Tags webhook
// @Accept json
// @Produce json
// @Success 200 {object} helpers.APIResponse "data.status: received"
// @Router /mail-webhook [post]
func (c *MailWebhookController) Receive(w http.ResponseWriter, r *http.Request) {
	var ev MailEvent
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&ev); err != nil {
		c.Logger.WarnContext(r.Context(), "unreadable mail webhook payload", "err", err)
	} else {
		c.Logger.InfoContext(r.Context(), "mail webhook received", "type", ev.Type, "from", ev.From, "subject", ev.Subject)
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "received"})
}
