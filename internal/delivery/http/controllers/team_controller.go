package controllers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"communitycalendar/internal/delivery/http/helpers"
	"communitycalendar/internal/delivery/http/middleware"
	"communitycalendar/internal/domain"
)

// CreateTeamRequest is the request body for POST /teams.
type CreateTeamRequest struct {
	TeamNumber          int     `json:"team_number"`
	ResponsiblePersonID *string `json:"responsible_person_id"`
	ChaplainName        *string `json:"chaplain_name"`
}

// Validate implements Validator.
func (c CreateTeamRequest) Validate() []string {
	var errs []string
	if c.TeamNumber <= 0 {
		errs = append(errs, "team_number must be positive")
	}
	if c.ResponsiblePersonID != nil && uuid.Validate(*c.ResponsiblePersonID) != nil {
		errs = append(errs, "responsible_person_id must be a UUID")
	}
	return errs
}

// CreateCoupleRequest is the request body for POST /teams/{teamID}/couples.
type CreateCoupleRequest struct {
	PrimaryUserID   string `json:"primary_user_id"`
	SecondaryUserID string `json:"secondary_user_id"`
}

// Validate implements Validator.
func (c CreateCoupleRequest) Validate() []string {
	var errs []string
	if uuid.Validate(c.PrimaryUserID) != nil {
		errs = append(errs, "primary_user_id must be a UUID")
	}
	if uuid.Validate(c.SecondaryUserID) != nil {
		errs = append(errs, "secondary_user_id must be a UUID")
	}
	return errs
}

// ListTeamsSuccessResponse is the success response envelope for GET /teams (200).
type ListTeamsSuccessResponse struct {
	Data  []*domain.Team    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// TeamSuccessResponse is the success response envelope for POST /teams (201).
type TeamSuccessResponse struct {
	Data  *domain.Team      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListCouplesSuccessResponse is the success response envelope for GET /teams/{teamID}/couples (200).
type ListCouplesSuccessResponse struct {
	Data  []*domain.Couple  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CoupleSuccessResponse is the success response envelope for POST /teams/{teamID}/couples (201).
type CoupleSuccessResponse struct {
	Data  *domain.Couple    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// DeleteTeamResponse is the data payload for DELETE /teams/{teamID} (200).
type DeleteTeamResponse struct {
	Status string `json:"status"`
}

type TeamController struct {
	Logger  *slog.Logger
	Service domain.TeamService
}

func NewTeamController(logger *slog.Logger, svc domain.TeamService) *TeamController {
	return &TeamController{
		Logger:  logger,
		Service: svc,
	}
}

// ListTeams godoc
// @Summary List teams
// @Description Returns every team ordered by team number.
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListTeamsSuccessResponse "data contains the teams"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /teams [get]
func (c *TeamController) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := c.Service.ListTeams(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, teams)
}

// CreateTeam godoc
// @Summary Create a team
// @Description Creates a team. Team numbers are unique and a person can be responsible for one team only. Admin only.
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param team body CreateTeamRequest true "Team data"
// @Success 201 {object} controllers.TeamSuccessResponse "data contains the created team"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /teams [post]
func (c *TeamController) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req CreateTeamRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	caller, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	team := &domain.Team{
		TeamNumber:          req.TeamNumber,
		ResponsiblePersonID: req.ResponsiblePersonID,
		ChaplainName:        req.ChaplainName,
	}
	if err := c.Service.CreateTeam(r.Context(), caller, team); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, team)
}

// DeleteTeam godoc
// @Summary Delete a team
// @Description Deletes a team. Its events and couples are kept and detached from the team. Admin only.
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param teamID path string true "Team ID (UUID)"
// @Success 200 {object} controllers.DeleteTeamResponse "status deleted"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /teams/{teamID} [delete]
func (c *TeamController) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	teamID, ok := helpers.PathUUID(r, "teamID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid teamID")
		return
	}
	caller, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.DeleteTeam(r.Context(), caller, teamID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteTeamResponse{Status: "deleted"})
}

// ListCouples godoc
// @Summary List a team's couples
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param teamID path string true "Team ID (UUID)"
// @Success 200 {object} controllers.ListCouplesSuccessResponse "data contains the couples"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /teams/{teamID}/couples [get]
func (c *TeamController) ListCouples(w http.ResponseWriter, r *http.Request) {
	teamID, ok := helpers.PathUUID(r, "teamID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid teamID")
		return
	}
	couples, err := c.Service.ListCouples(r.Context(), teamID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, couples)
}

// CreateCouple godoc
// @Summary Add a couple to a team
// @Description Registers a couple (two distinct users) in the team. A user can belong to one couple only. Admin only.
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param teamID path string true "Team ID (UUID)"
// @Param couple body CreateCoupleRequest true "Couple members"
// @Success 201 {object} controllers.CoupleSuccessResponse "data contains the created couple"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /teams/{teamID}/couples [post]
func (c *TeamController) CreateCouple(w http.ResponseWriter, r *http.Request) {
	teamID, ok := helpers.PathUUID(r, "teamID")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid teamID")
		return
	}
	var req CreateCoupleRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	caller, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	couple := &domain.Couple{
		TeamID:          &teamID,
		PrimaryUserID:   req.PrimaryUserID,
		SecondaryUserID: req.SecondaryUserID,
	}
	if err := c.Service.CreateCouple(r.Context(), caller, couple); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, couple)
}
