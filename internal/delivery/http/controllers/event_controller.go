package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"certbot/internal/delivery/http/helpers"
	"certbot/internal/domain"
)

// CreateEventRequest is the request body for POST /admin/events.
type CreateEventRequest struct {
	Name          string   `json:"event_name"`
	TemplateName  string   `json:"cert_template_name"`
	NameX         *float64 `json:"name_x"`
	NameY         *float64 `json:"name_y"`
	TextYPosition *float64 `json:"text_y_position"`
	FontSize      *float64 `json:"font_size"`
	FontStyle     string   `json:"font_style"`
	TextAlignment string   `json:"text_alignment"`
	UppercaseName *bool    `json:"uppercase_name"`
}

// Validate implements Validator. Returns error messages for required and format rules.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "event_name is required")
	}
	if strings.TrimSpace(c.TemplateName) == "" {
		errs = append(errs, "cert_template_name is required")
	}
	if c.FontSize != nil && *c.FontSize <= 0 {
		errs = append(errs, "font_size must be positive")
	}
	if msg := validateAlignment(c.TextAlignment); msg != "" {
		errs = append(errs, msg)
	}
	return errs
}

// UpdateEventRequest is the request body for PATCH /admin/events/{eventID}. Omitted fields are unchanged.
type UpdateEventRequest struct {
	domain.EventLayoutUpdate
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.TemplateName != nil && strings.TrimSpace(*u.TemplateName) == "" {
		errs = append(errs, "cert_template_name must not be empty")
	}
	if u.FontSize != nil && *u.FontSize <= 0 {
		errs = append(errs, "font_size must be positive")
	}
	if u.TextAlignment != nil {
		if msg := validateAlignment(*u.TextAlignment); msg != "" {
			errs = append(errs, msg)
		}
	}
	return errs
}

func validateAlignment(a string) string {
	switch strings.ToLower(strings.TrimSpace(a)) {
	case "", string(domain.AlignLeft), string(domain.AlignCenter):
		return ""
	default:
		return "text_alignment must be left or center"
	}
}

// EventSuccessResponse is the success envelope for a single event.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListEventsResponse is the data payload of GET /admin/events.
type ListEventsResponse struct {
	Items      []*domain.Event        `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateEvent godoc
// @Summary Create a certificate event
// @Description Registers an event with its certificate template and stamp layout. Unset layout fields use the defaults.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event configuration"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	now := time.Now()
	event := domain.NewEvent(req.Name, req.TemplateName, now, now)
	event.NameX = req.NameX
	event.NameY = req.NameY
	event.TextYPosition = req.TextYPosition
	event.FontStyle = req.FontStyle
	if req.FontSize != nil {
		event.FontSize = *req.FontSize
	}
	if req.TextAlignment != "" {
		event.TextAlignment = strings.ToLower(strings.TrimSpace(req.TextAlignment))
	}
	if req.UppercaseName != nil {
		event.UppercaseName = *req.UppercaseName
	}
	if err := c.Service.CreateEvent(r.Context(), event); err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// ListEvents godoc
// @Summary List certificate events
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains items and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	list, total, err := c.Service.ListEvents(r.Context(), params)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []*domain.Event{}
	}
	meta := helpers.NewPaginationMeta(params.Page, params.PageSize, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListEventsResponse{Items: list, Pagination: meta})
}

// UpdateEvent godoc
// @Summary Update an event's template or layout
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param event body UpdateEventRequest true "Fields to change"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateEventLayout(r.Context(), eventID, &req.EventLayoutUpdate)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

func (c *EventController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrDuplicate):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "an event with this name already exists")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
	}
}
