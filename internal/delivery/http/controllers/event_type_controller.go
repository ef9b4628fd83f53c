package controllers

import (
	"log/slog"
	"net/http"

	"communitycalendar/internal/delivery/http/helpers"
	"communitycalendar/internal/delivery/http/middleware"
	"communitycalendar/internal/domain"
)

// UpdateEventTypeRequest is the request body for PUT /calendar/event-types/{configID}.
// Omitted fields are unchanged.
type UpdateEventTypeRequest struct {
	Color *string `json:"color" example:"#10b981"`
	Icon  *string `json:"icon" example:"BookOpen"`
}

// Validate implements Validator.
func (u UpdateEventTypeRequest) Validate() []string {
	var errs []string
	if u.Color == nil && u.Icon == nil {
		errs = append(errs, "color or icon is required")
	}
	if u.Color != nil && !domain.IsHexColor(*u.Color) {
		errs = append(errs, "color must be a #RRGGBB hex value")
	}
	return errs
}

// ListEventTypesSuccessResponse is the success response envelope for GET /calendar/event-types (200).
type ListEventTypesSuccessResponse struct {
	Data  []*domain.EventTypeConfig `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

// EventTypeSuccessResponse is the success response envelope for PUT /calendar/event-types/{configID} (200).
type EventTypeSuccessResponse struct {
	Data  *domain.EventTypeConfig `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

type EventTypeController struct {
	Logger  *slog.Logger
	Service domain.EventTypeConfigService
}

func NewEventTypeController(logger *slog.Logger, svc domain.EventTypeConfigService) *EventTypeController {
	return &EventTypeController{
		Logger:  logger,
		Service: svc,
	}
}

// ListEventTypes godoc
// @Summary List event type styles
// @Description Returns the default color and icon of every configured event type.
// @Tags calendar
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListEventTypesSuccessResponse "data contains the event type configs"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /calendar/event-types [get]
func (c *EventTypeController) ListEventTypes(w http.ResponseWriter, r *http.Request) {
	configs, err := c.Service.List(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, configs)
}

// UpdateEventType godoc
// @Summary Update an event type style
// @Description Changes the default color and/or icon of an event type. Admin only.
// @Tags calendar
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param configID path string true "Event type config ID (UUID)"
// @Param body body UpdateEventTypeRequest true "Fields to update"
// @Success 200 {object} controllers.EventTypeSuccessResponse "data contains the updated config"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /calendar/event-types/{configID} [put]
func (c *EventTypeController) UpdateEventType(w http.ResponseWriter, r *http.Request) {
	configID, ok := helpers.PathUUID(r, "configID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid configID")
		return
	}
	var req UpdateEventTypeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	caller, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	config, err := c.Service.Update(r.Context(), caller, configID, req.Color, req.Icon)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, config)
}
