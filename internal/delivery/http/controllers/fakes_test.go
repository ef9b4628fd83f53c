package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"communitycalendar/internal/delivery/http/helpers"
	"communitycalendar/internal/delivery/http/middleware"
	"communitycalendar/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const (
	eventID  = "0b6f7c58-3c1e-4c33-9d2c-0e6a3f1b5a01"
	teamID   = "5b0c3f2e-8f4a-4d55-9a43-7f2d1b9c6e10"
	configID = "a1d8e5b2-7c44-4f0e-8b6a-2e9c1d3f4a77"
	userA    = "11111111-2222-4333-8444-555555555555"
	userB    = "66666666-7777-4888-9999-aaaaaaaaaaaa"
)

var (
	adminPrincipal  = domain.Principal{UserID: "admin-1", Roles: []string{domain.RoleAdmin}}
	memberPrincipal = domain.Principal{UserID: "member-1", Roles: []string{domain.RoleMember}}
)

// newRequest builds a request with an optional JSON body and principal.
func newRequest(method, target, body string, principal *domain.Principal) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, "http://test"+target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if principal != nil {
		req = req.WithContext(middleware.SetPrincipal(req.Context(), *principal))
	}
	return req
}

// decodeEnvelope decodes the response envelope and, when dest is non-nil, its data.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
	if dest != nil && envelope.Data != nil {
		raw, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, dest))
	}
	return envelope
}

// fakeCalendarService implements domain.CalendarService for handler tests.
type fakeCalendarService struct {
	err        error
	events     []*domain.DisplayEvent
	event      *domain.DisplayEvent
	feed       []byte
	lastViewer domain.Principal
	lastFilter domain.EventFilter
	lastID     string
	lastDef    domain.EventDefinition
}

func (f *fakeCalendarService) ListCalendar(ctx context.Context, viewer domain.Principal, filter domain.EventFilter) ([]*domain.DisplayEvent, error) {
	f.lastViewer, f.lastFilter = viewer, filter
	return f.events, f.err
}

func (f *fakeCalendarService) GetEvent(ctx context.Context, viewer domain.Principal, id string) (*domain.DisplayEvent, error) {
	f.lastViewer, f.lastID = viewer, id
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeCalendarService) CreateEvent(ctx context.Context, caller domain.Principal, def domain.EventDefinition) (*domain.DisplayEvent, error) {
	f.lastViewer, f.lastDef = caller, def
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeCalendarService) UpdateEvent(ctx context.Context, caller domain.Principal, id string, def domain.EventDefinition) (*domain.DisplayEvent, error) {
	f.lastViewer, f.lastID, f.lastDef = caller, id, def
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeCalendarService) DeleteEvent(ctx context.Context, caller domain.Principal, id string) error {
	f.lastViewer, f.lastID = caller, id
	return f.err
}

func (f *fakeCalendarService) Feed(ctx context.Context, viewer domain.Principal, filter domain.EventFilter) ([]byte, error) {
	f.lastViewer, f.lastFilter = viewer, filter
	if f.err != nil {
		return nil, f.err
	}
	return f.feed, nil
}

// fakeSeedingService implements domain.SeedingService.
type fakeSeedingService struct {
	report   *domain.SeedReport
	err      error
	lastDefs []domain.EventDefinition
}

func (f *fakeSeedingService) Seed(ctx context.Context, caller domain.Principal, defs []domain.EventDefinition) (*domain.SeedReport, error) {
	f.lastDefs = defs
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

// fakeEventTypeService implements domain.EventTypeConfigService.
type fakeEventTypeService struct {
	configs   []*domain.EventTypeConfig
	updated   *domain.EventTypeConfig
	err       error
	lastID    string
	lastColor *string
	lastIcon  *string
}

func (f *fakeEventTypeService) List(ctx context.Context) ([]*domain.EventTypeConfig, error) {
	return f.configs, f.err
}

func (f *fakeEventTypeService) Update(ctx context.Context, caller domain.Principal, id string, color, icon *string) (*domain.EventTypeConfig, error) {
	f.lastID, f.lastColor, f.lastIcon = id, color, icon
	if f.err != nil {
		return nil, f.err
	}
	return f.updated, nil
}

func (f *fakeEventTypeService) EnsureDefaults(ctx context.Context, defaults []*domain.EventTypeConfig) (int, error) {
	return 0, nil
}

// fakeTeamService implements domain.TeamService.
type fakeTeamService struct {
	teams       []*domain.Team
	couples     []*domain.Couple
	err         error
	lastTeam    *domain.Team
	lastCouple  *domain.Couple
	lastDeleted string
	lastListed  string
}

func (f *fakeTeamService) CreateTeam(ctx context.Context, caller domain.Principal, team *domain.Team) error {
	f.lastTeam = team
	if f.err != nil {
		return f.err
	}
	team.ID = teamID
	return nil
}

func (f *fakeTeamService) ListTeams(ctx context.Context) ([]*domain.Team, error) {
	return f.teams, f.err
}

func (f *fakeTeamService) DeleteTeam(ctx context.Context, caller domain.Principal, id string) error {
	f.lastDeleted = id
	return f.err
}

func (f *fakeTeamService) CreateCouple(ctx context.Context, caller domain.Principal, couple *domain.Couple) error {
	f.lastCouple = couple
	if f.err != nil {
		return f.err
	}
	couple.ID = "couple-1"
	return nil
}

func (f *fakeTeamService) ListCouples(ctx context.Context, teamID string) ([]*domain.Couple, error) {
	f.lastListed = teamID
	return f.couples, f.err
}
