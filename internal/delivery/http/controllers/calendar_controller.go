package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"communitycalendar/internal/delivery/http/helpers"
	"communitycalendar/internal/delivery/http/middleware"
	"communitycalendar/internal/domain"
)

const calendarContentType = "text/calendar; charset=utf-8"

// CalendarEventRequest is the request body for POST and PUT /calendar/events.
// end_date defaults to start_date; start_time/end_time are HH:MM and must be
// omitted for all-day events.
type CalendarEventRequest struct {
	Title       string            `json:"title"`
	Description *string           `json:"description"`
	EventType   domain.EventType  `json:"event_type"`
	Scope       domain.Scope      `json:"scope"`
	TeamID      *string           `json:"team_id"`
	StartDate   domain.Date       `json:"start_date" swaggertype:"string" example:"2026-06-06"`
	EndDate     domain.Date       `json:"end_date" swaggertype:"string" example:"2026-06-06"`
	StartTime   *domain.TimeOfDay `json:"start_time" swaggertype:"string" example:"18:00"`
	EndTime     *domain.TimeOfDay `json:"end_time" swaggertype:"string" example:"20:00"`
	IsAllDay    bool              `json:"is_all_day"`
	Color       *string           `json:"color"`
	Icon        *string           `json:"icon"`
}

// Validate implements Validator. Field-level rules beyond presence are checked by the service.
func (c CalendarEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if c.StartDate.IsZero() {
		errs = append(errs, "start_date is required")
	}
	return errs
}

func (c CalendarEventRequest) definition() domain.EventDefinition {
	return domain.EventDefinition{
		Title:       c.Title,
		Description: c.Description,
		EventType:   c.EventType,
		Scope:       c.Scope,
		TeamID:      c.TeamID,
		StartDate:   c.StartDate,
		EndDate:     c.EndDate,
		StartTime:   c.StartTime,
		EndTime:     c.EndTime,
		IsAllDay:    c.IsAllDay,
		Color:       c.Color,
		Icon:        c.Icon,
	}
}

// ListCalendarSuccessResponse is the success response envelope for GET /calendar/events (200).
type ListCalendarSuccessResponse struct {
	Data  []*domain.DisplayEvent `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// DisplayEventSuccessResponse is the success response envelope for single-event endpoints.
type DisplayEventSuccessResponse struct {
	Data  *domain.DisplayEvent `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// DeleteEventResponse is the data payload for DELETE /calendar/events/{eventID} (200).
type DeleteEventResponse struct {
	Status string `json:"status"`
}

type CalendarController struct {
	Logger  *slog.Logger
	Service domain.CalendarService
}

func NewCalendarController(logger *slog.Logger, svc domain.CalendarService) *CalendarController {
	return &CalendarController{
		Logger:  logger,
		Service: svc,
	}
}

// ListEvents godoc
// @Summary List calendar events
// @Description Returns the events visible to the caller, ready for a calendar widget. Admins see every event; other members see global events and their own team's events. All-day events carry date-only start/end with an exclusive end; timed events carry UTC instants.
// @Tags calendar
// @Produce json
// @Security BearerAuth
// @Param from query string false "First day of the window (YYYY-MM-DD)"
// @Param to query string false "Last day of the window (YYYY-MM-DD)"
// @Param type query string false "Event type"
// @Param team_id query string false "Team ID (UUID)"
// @Success 200 {object} controllers.ListCalendarSuccessResponse "data contains the display events"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /calendar/events [get]
func (c *CalendarController) ListEvents(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	filter, err := helpers.ParseEventFilter(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	events, err := c.Service.ListCalendar(r.Context(), viewer, filter)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetEvent godoc
// @Summary Get a calendar event
// @Description Returns one event projected for display. Events the caller cannot see are reported as not found.
// @Tags calendar
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.DisplayEventSuccessResponse "data contains the display event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /calendar/events/{eventID} [get]
func (c *CalendarController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(r, "eventID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	viewer, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, err := c.Service.GetEvent(r.Context(), viewer, eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// CreateEvent godoc
// @Summary Create a calendar event
// @Description Creates an event exactly as requested, with no relocation. Global events require an admin; team events require an admin or the team's responsible person. Recurrence is only accepted through seeding.
// @Tags calendar
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CalendarEventRequest true "Event data"
// @Success 201 {object} controllers.DisplayEventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /calendar/events [post]
func (c *CalendarController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CalendarEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	caller, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, err := c.Service.CreateEvent(r.Context(), caller, req.definition())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// UpdateEvent godoc
// @Summary Replace a calendar event
// @Description Replaces every editable field of an event. Only the creator or an admin can update.
// @Tags calendar
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param event body CalendarEventRequest true "Event data"
// @Success 200 {object} controllers.DisplayEventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /calendar/events/{eventID} [put]
func (c *CalendarController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(r, "eventID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	var req CalendarEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	caller, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), caller, eventID, req.definition())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete a calendar event
// @Description Deletes an event. Only the creator or an admin can delete.
// @Tags calendar
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.DeleteEventResponse "status deleted"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /calendar/events/{eventID} [delete]
func (c *CalendarController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(r, "eventID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	caller, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), caller, eventID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteEventResponse{Status: "deleted"})
}

// Feed godoc
// @Summary Export the calendar as iCalendar
// @Description Returns the events visible to the caller as a text/calendar document. Accepts the same filters as the event listing.
// @Tags calendar
// @Produce text/calendar
// @Security BearerAuth
// @Param from query string false "First day of the window (YYYY-MM-DD)"
// @Param to query string false "Last day of the window (YYYY-MM-DD)"
// @Param type query string false "Event type"
// @Param team_id query string false "Team ID (UUID)"
// @Success 200 {string} string "iCalendar document"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /calendar/feed.ics [get]
func (c *CalendarController) Feed(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	filter, err := helpers.ParseEventFilter(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	body, err := c.Service.Feed(r.Context(), viewer, filter)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.Header().Set("Content-Type", calendarContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="calendar.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
