package controllers

import (
	"fmt"
	"log/slog"
	"net/http"

	"communitycalendar/internal/delivery/http/helpers"
	"communitycalendar/internal/delivery/http/middleware"
	"communitycalendar/internal/domain"
)

// maxSeedBatch caps how many definitions one request may carry.
const maxSeedBatch = 500

// SeedRequest is the request body for POST /calendar/seed.
type SeedRequest struct {
	Events []domain.EventDefinition `json:"events"`
}

// Validate implements Validator.
func (s SeedRequest) Validate() []string {
	var errs []string
	if len(s.Events) == 0 {
		errs = append(errs, "events must not be empty")
	}
	if len(s.Events) > maxSeedBatch {
		errs = append(errs, fmt.Sprintf("at most %d events per request", maxSeedBatch))
	}
	return errs
}

// SeedSuccessResponse is the success response envelope for POST /calendar/seed (200).
type SeedSuccessResponse struct {
	Data  *domain.SeedReport `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

type SeedController struct {
	Logger  *slog.Logger
	Service domain.SeedingService
}

func NewSeedController(logger *slog.Logger, svc domain.SeedingService) *SeedController {
	return &SeedController{
		Logger:  logger,
		Service: svc,
	}
}

// Seed godoc
// @Summary Seed the calendar in bulk
// @Description Schedules a batch of event definitions in order. Each event lands on its requested day or is moved forward to the next day with free capacity; events that find no day are skipped. Invalid definitions are reported as failed without stopping the batch. Recurring definitions (RRULE) expand into one event per occurrence. Admin only.
// @Tags calendar
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SeedRequest true "Event definitions"
// @Success 200 {object} controllers.SeedSuccessResponse "data contains the per-event outcomes and counts"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /calendar/seed [post]
func (c *SeedController) Seed(w http.ResponseWriter, r *http.Request) {
	var req SeedRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	caller, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	report, err := c.Service.Seed(r.Context(), caller, req.Events)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, report)
}
