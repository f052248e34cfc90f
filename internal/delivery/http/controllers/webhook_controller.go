package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"certbot/internal/delivery/http/helpers"
	"certbot/internal/domain"
)

// emailRegex matches a simple email format (local@domain with at least one dot in domain).
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// SubmissionRequest is the feedback form body for POST /webhook.
type SubmissionRequest struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Event       string  `json:"event"`
	Rating      *int    `json:"rating"`
	Feedback    string  `json:"feedback"`
	EnjoyedMost *string `json:"enjoyed_most"`
	Suggestions *string `json:"suggestions"`
}

// Validate implements Validator.
func (s SubmissionRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, "name is required")
	}
	email := strings.TrimSpace(s.Email)
	if email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegex.MatchString(email) {
		errs = append(errs, "email is invalid")
	}
	if strings.TrimSpace(s.Event) == "" {
		errs = append(errs, "event is required")
	}
	if s.Rating != nil && (*s.Rating < 1 || *s.Rating > 5) {
		errs = append(errs, "rating must be between 1 and 5")
	}
	return errs
}

// IssuanceResponse is the data payload of a processed submission.
type IssuanceResponse struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	ParticipantID string `json:"participant_id"`
	DurationMs    int64  `json:"duration_ms"`
}

// IssuanceFailure is the data payload sent alongside an issuance error.
type IssuanceFailure struct {
	DurationMs int64 `json:"duration_ms"`
}

// IssuanceSuccessResponse is the success envelope for POST /webhook (200).
type IssuanceSuccessResponse struct {
	Data  IssuanceResponse  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type WebhookController struct {
	Logger  *slog.Logger
	Service domain.IssuanceService
}

func NewWebhookController(logger *slog.Logger, svc domain.IssuanceService) *WebhookController {
	return &WebhookController{Logger: logger, Service: svc}
}

// Submit godoc
// @Summary Submit feedback and receive a certificate
// @Description Records feedback for the (email, event) pair, renders the event certificate and emails it. Resubmissions after a successful send return already_sent without sending again.
// @Tags webhook
// @Accept json
// @Produce json
// @Param submission body SubmissionRequest true "Feedback form submission"
// @Success 200 {object} controllers.IssuanceSuccessResponse "data.status is success or already_sent"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or validation_failure"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: in_progress"
// @Failure 422 {object} helpers.APIResponse "error.code: template_not_found or render_failure"
// @Failure 429 {object} helpers.APIResponse "error.code: rate_limited"
// @Failure 500 {object} helpers.APIResponse "error.code: persistence_failure"
// @Failure 502 {object} helpers.APIResponse "error.code: delivery_failure"
// @Router /webhook [post]
func (c *WebhookController) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmissionRequest
	if !helpers.DecodeAndValidateLenient(w, r, &req) {
		return
	}
	res, err := c.Service.Process(r.Context(), &domain.Submission{
		Name:        req.Name,
		Email:       req.Email,
		EventName:   req.Event,
		Rating:      req.Rating,
		Feedback:    req.Feedback,
		EnjoyedMost: req.EnjoyedMost,
		Suggestions: req.Suggestions,
	})
	if err != nil {
		c.writeIssuanceError(w, r, err)
		return
	}

	message := "Certificate sent successfully"
	if res.Status == domain.StatusAlreadySent {
		message = "Certificate was already sent to this email"
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, IssuanceResponse{
		Status:        string(res.Status),
		Message:       message,
		ParticipantID: res.ParticipantID,
		DurationMs:    res.Duration.Milliseconds(),
	})
}

func (c *WebhookController) writeIssuanceError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	var durationMs int64
	var ie *domain.IssuanceError
	if errors.As(err, &ie) {
		durationMs = ie.Duration.Milliseconds()
	}
	status, message := issuanceErrorStatus(kind, err)
	if status >= http.StatusInternalServerError {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "kind", kind, "err", err)
	}
	helpers.WriteJSON(w, status, helpers.APIResponse{
		Data:  IssuanceFailure{DurationMs: durationMs},
		Error: &helpers.APIError{Code: string(kind), Message: message},
	})
}

// issuanceErrorStatus maps an issuance error kind to an HTTP status and a
// client-facing message. Store failures do not leak their cause.
func issuanceErrorStatus(kind domain.ErrorKind, err error) (int, string) {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest, err.Error()
	case domain.KindNotFound:
		return http.StatusNotFound, "event not found"
	case domain.KindTemplate:
		return http.StatusUnprocessableEntity, "certificate template not found"
	case domain.KindRender:
		return http.StatusUnprocessableEntity, "certificate could not be generated"
	case domain.KindDelivery:
		return http.StatusBadGateway, "certificate email could not be delivered"
	case domain.KindInProgress:
		return http.StatusConflict, "this submission is already being processed"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
