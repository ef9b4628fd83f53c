package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"communitycalendar/internal/domain"
)

func displayEvent(id, title string) *domain.DisplayEvent {
	return &domain.DisplayEvent{
		ID:        id,
		Title:     title,
		Start:     "2026-06-06",
		End:       "2026-06-07",
		AllDay:    true,
		EventType: domain.EventTypeGeneral,
		Color:     domain.DefaultEventColor,
		Icon:      mo.Some("Calendar"),
		Scope:     domain.ScopeGlobal,
	}
}

func TestCalendarController_ListEvents(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		principal      *domain.Principal
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
		wantFilter     domain.EventFilter
	}{
		{
			name:       "success with filter",
			query:      "?from=2026-06-01&to=2026-06-30&type=training&team_id=" + teamID,
			principal:  &memberPrincipal,
			wantStatus: http.StatusOK,
			wantFilter: domain.EventFilter{
				From:      domain.MustParseDate("2026-06-01"),
				To:        domain.MustParseDate("2026-06-30"),
				EventType: domain.EventTypeTraining,
				TeamID:    teamID,
			},
		},
		{
			name:           "no principal",
			principal:      nil,
			wantStatus:     http.StatusUnauthorized,
			wantBodySubstr: "unauthorized",
		},
		{
			name:           "bad date",
			query:          "?from=june",
			principal:      &memberPrincipal,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "invalid from",
		},
		{
			name:           "inverted window",
			query:          "?from=2026-06-30&to=2026-06-01",
			principal:      &memberPrincipal,
			fakeErr:        domain.NewValidationError([]string{"from must not be after to"}),
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "from must not be after to",
		},
		{
			name:           "service error",
			principal:      &memberPrincipal,
			fakeErr:        errors.New("db error"),
			wantStatus:     http.StatusInternalServerError,
			wantBodySubstr: "db error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeCalendarService{
				err:    tt.fakeErr,
				events: []*domain.DisplayEvent{displayEvent(eventID, "Assembly")},
			}
			ctrl := NewCalendarController(testLogger, fake)
			rr := httptest.NewRecorder()
			ctrl.ListEvents(rr, newRequest(http.MethodGet, "/calendar/events"+tt.query, "", tt.principal))

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			var data []*domain.DisplayEvent
			envelope := decodeEnvelope(t, rr, &data)
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				require.Len(t, data, 1)
				assert.Equal(t, "Assembly", data[0].Title)
				assert.Equal(t, "Calendar", data[0].Icon.OrEmpty())
				assert.Equal(t, tt.wantFilter, fake.lastFilter)
				assert.Equal(t, memberPrincipal.UserID, fake.lastViewer.UserID)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
		})
	}
}

func TestCalendarController_GetEvent(t *testing.T) {
	tests := []struct {
		name       string
		eventID    string
		principal  *domain.Principal
		fakeErr    error
		wantStatus int
		wantCode   string
	}{
		{name: "success", eventID: eventID, principal: &memberPrincipal, wantStatus: http.StatusOK},
		{name: "invalid id", eventID: "ev-1", principal: &memberPrincipal, wantStatus: http.StatusBadRequest, wantCode: "bad_request"},
		{name: "no principal", eventID: eventID, wantStatus: http.StatusUnauthorized, wantCode: "unauthorized"},
		{name: "not visible", eventID: eventID, principal: &memberPrincipal, fakeErr: fmt.Errorf("get event: %w", domain.ErrNotFound), wantStatus: http.StatusNotFound, wantCode: "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeCalendarService{err: tt.fakeErr, event: displayEvent(eventID, "Assembly")}
			ctrl := NewCalendarController(testLogger, fake)
			req := newRequest(http.MethodGet, "/calendar/events/"+tt.eventID, "", tt.principal)
			req.SetPathValue("eventID", tt.eventID)
			rr := httptest.NewRecorder()
			ctrl.GetEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var data domain.DisplayEvent
			envelope := decodeEnvelope(t, rr, &data)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, eventID, data.ID)
				assert.Equal(t, eventID, fake.lastID)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantCode, envelope.Error.Code)
		})
	}
}

func TestCalendarController_CreateEvent(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		principal      *domain.Principal
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
		checkDef       func(t *testing.T, def domain.EventDefinition)
	}{
		{
			name:       "timed team event",
			body:       `{"title":"Team night","event_type":"team_meeting","team_id":"` + teamID + `","start_date":"2026-06-10","start_time":"18:00","end_time":"20:00"}`,
			principal:  &adminPrincipal,
			wantStatus: http.StatusCreated,
			checkDef: func(t *testing.T, def domain.EventDefinition) {
				assert.Equal(t, "Team night", def.Title)
				assert.Equal(t, domain.EventTypeTeamMeeting, def.EventType)
				require.NotNil(t, def.TeamID)
				assert.Equal(t, teamID, *def.TeamID)
				assert.Equal(t, domain.MustParseDate("2026-06-10"), def.StartDate)
				assert.True(t, def.EndDate.IsZero())
				require.NotNil(t, def.StartTime)
				assert.Equal(t, domain.MustParseTimeOfDay("18:00"), *def.StartTime)
				assert.Empty(t, def.CreatedBy)
			},
		},
		{
			name:           "missing title",
			body:           `{"start_date":"2026-06-10","is_all_day":true}`,
			principal:      &adminPrincipal,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "title is required",
		},
		{
			name:           "unknown field",
			body:           `{"title":"x","start_date":"2026-06-10","recurrence":"FREQ=DAILY"}`,
			principal:      &adminPrincipal,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "unknown field",
		},
		{
			name:           "malformed date",
			body:           `{"title":"x","start_date":"10/06/2026"}`,
			principal:      &adminPrincipal,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "",
		},
		{
			name:           "no principal",
			body:           `{"title":"x","start_date":"2026-06-10","is_all_day":true}`,
			wantStatus:     http.StatusUnauthorized,
			wantBodySubstr: "unauthorized",
		},
		{
			name:           "member cannot create global event",
			body:           `{"title":"x","start_date":"2026-06-10","is_all_day":true}`,
			principal:      &memberPrincipal,
			fakeErr:        domain.ErrForbidden,
			wantStatus:     http.StatusForbidden,
			wantBodySubstr: "forbidden",
		},
		{
			name:           "service validation",
			body:           `{"title":"x","start_date":"2026-06-10","color":"blue","is_all_day":true}`,
			principal:      &adminPrincipal,
			fakeErr:        domain.NewValidationError([]string{"color must be a #RRGGBB hex value"}),
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "color must be a #RRGGBB hex value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeCalendarService{err: tt.fakeErr, event: displayEvent(eventID, "Team night")}
			ctrl := NewCalendarController(testLogger, fake)
			rr := httptest.NewRecorder()
			ctrl.CreateEvent(rr, newRequest(http.MethodPost, "/calendar/events", tt.body, tt.principal))

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			envelope := decodeEnvelope(t, rr, nil)
			if tt.wantStatus == http.StatusCreated {
				require.Nil(t, envelope.Error)
				tt.checkDef(t, fake.lastDef)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
		})
	}
}

func TestCalendarController_UpdateEvent(t *testing.T) {
	body := `{"title":"Assembly","start_date":"2026-06-06","end_date":"2026-06-07","is_all_day":true}`

	t.Run("success", func(t *testing.T) {
		fake := &fakeCalendarService{event: displayEvent(eventID, "Assembly")}
		req := newRequest(http.MethodPut, "/calendar/events/"+eventID, body, &memberPrincipal)
		req.SetPathValue("eventID", eventID)
		rr := httptest.NewRecorder()
		NewCalendarController(testLogger, fake).UpdateEvent(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, eventID, fake.lastID)
		assert.Equal(t, domain.MustParseDate("2026-06-07"), fake.lastDef.EndDate)
		assert.True(t, fake.lastDef.IsAllDay)
	})

	t.Run("not the creator", func(t *testing.T) {
		fake := &fakeCalendarService{err: domain.ErrForbidden}
		req := newRequest(http.MethodPut, "/calendar/events/"+eventID, body, &memberPrincipal)
		req.SetPathValue("eventID", eventID)
		rr := httptest.NewRecorder()
		NewCalendarController(testLogger, fake).UpdateEvent(rr, req)

		require.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		fake := &fakeCalendarService{}
		req := newRequest(http.MethodPut, "/calendar/events/x", body, &memberPrincipal)
		req.SetPathValue("eventID", "x")
		rr := httptest.NewRecorder()
		NewCalendarController(testLogger, fake).UpdateEvent(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Empty(t, fake.lastID)
	})
}

func TestCalendarController_DeleteEvent(t *testing.T) {
	tests := []struct {
		name       string
		fakeErr    error
		wantStatus int
	}{
		{"success", nil, http.StatusOK},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"store failure", errors.New("db error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeCalendarService{err: tt.fakeErr}
			req := newRequest(http.MethodDelete, "/calendar/events/"+eventID, "", &adminPrincipal)
			req.SetPathValue("eventID", eventID)
			rr := httptest.NewRecorder()
			NewCalendarController(testLogger, fake).DeleteEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, eventID, fake.lastID)
			if tt.wantStatus == http.StatusOK {
				var data DeleteEventResponse
				decodeEnvelope(t, rr, &data)
				assert.Equal(t, "deleted", data.Status)
			}
		})
	}
}

func TestCalendarController_Feed(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fake := &fakeCalendarService{feed: []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")}
		rr := httptest.NewRecorder()
		NewCalendarController(testLogger, fake).Feed(rr, newRequest(http.MethodGet, "/calendar/feed.ics?type=training", "", &memberPrincipal))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, calendarContentType, rr.Header().Get("Content-Type"))
		assert.Contains(t, rr.Header().Get("Content-Disposition"), "calendar.ics")
		assert.Equal(t, "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n", rr.Body.String())
		assert.Equal(t, domain.EventTypeTraining, fake.lastFilter.EventType)
	})

	t.Run("service error uses json envelope", func(t *testing.T) {
		fake := &fakeCalendarService{err: errors.New("encode feed: boom")}
		rr := httptest.NewRecorder()
		NewCalendarController(testLogger, fake).Feed(rr, newRequest(http.MethodGet, "/calendar/feed.ics", "", &memberPrincipal))

		require.Equal(t, http.StatusInternalServerError, rr.Code)
		envelope := decodeEnvelope(t, rr, nil)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "internal_error", envelope.Error.Code)
	})

	t.Run("no principal", func(t *testing.T) {
		rr := httptest.NewRecorder()
		NewCalendarController(testLogger, &fakeCalendarService{}).Feed(rr, newRequest(http.MethodGet, "/calendar/feed.ics", "", nil))
		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
