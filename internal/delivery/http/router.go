package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"communitycalendar/internal/delivery/http/controllers"
	"communitycalendar/internal/delivery/http/helpers"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Calendar  *controllers.CalendarController
	EventType *controllers.EventTypeController
	Seed      *controllers.SeedController
	Team      *controllers.TeamController
}

// NewRouter initializes the HTTP router with all application routes.
// requireAuth wraps every route except /health and /swagger/.
func NewRouter(c Controllers, requireAuth func(http.HandlerFunc) http.HandlerFunc) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", health)

	// Calendar
	mux.HandleFunc("GET /calendar/events", requireAuth(c.Calendar.ListEvents))
	mux.HandleFunc("POST /calendar/events", requireAuth(c.Calendar.CreateEvent))
	mux.HandleFunc("GET /calendar/events/{eventID}", requireAuth(c.Calendar.GetEvent))
	mux.HandleFunc("PUT /calendar/events/{eventID}", requireAuth(c.Calendar.UpdateEvent))
	mux.HandleFunc("DELETE /calendar/events/{eventID}", requireAuth(c.Calendar.DeleteEvent))
	mux.HandleFunc("GET /calendar/feed.ics", requireAuth(c.Calendar.Feed))
	mux.HandleFunc("POST /calendar/seed", requireAuth(c.Seed.Seed))
	mux.HandleFunc("GET /calendar/event-types", requireAuth(c.EventType.ListEventTypes))
	mux.HandleFunc("PUT /calendar/event-types/{configID}", requireAuth(c.EventType.UpdateEventType))

	// Teams
	mux.HandleFunc("GET /teams", requireAuth(c.Team.ListTeams))
	mux.HandleFunc("POST /teams", requireAuth(c.Team.CreateTeam))
	mux.HandleFunc("DELETE /teams/{teamID}", requireAuth(c.Team.DeleteTeam))
	mux.HandleFunc("GET /teams/{teamID}/couples", requireAuth(c.Team.ListCouples))
	mux.HandleFunc("POST /teams/{teamID}/couples", requireAuth(c.Team.CreateCouple))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// HealthResponse is the data payload for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// health godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} http.HealthResponse
// @Router /health [get]
func health(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, HealthResponse{Status: "ok"})
}
