package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"communitycalendar/internal/domain"
)

func TestTeamController_ListTeams(t *testing.T) {
	fake := &fakeTeamService{teams: []*domain.Team{{ID: teamID, TeamNumber: 7}}}
	rr := httptest.NewRecorder()
	NewTeamController(testLogger, fake).ListTeams(rr, newRequest(http.MethodGet, "/teams", "", &memberPrincipal))

	require.Equal(t, http.StatusOK, rr.Code)
	var data []*domain.Team
	decodeEnvelope(t, rr, &data)
	require.Len(t, data, 1)
	assert.Equal(t, 7, data[0].TeamNumber)
}

func TestTeamController_CreateTeam(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		principal      *domain.Principal
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
	}{
		{name: "success", body: `{"team_number":7,"responsible_person_id":"` + userA + `","chaplain_name":"Fr. Luis"}`, principal: &adminPrincipal, wantStatus: http.StatusCreated},
		{name: "zero number", body: `{"team_number":0}`, principal: &adminPrincipal, wantStatus: http.StatusBadRequest, wantBodySubstr: "team_number must be positive"},
		{name: "bad responsible id", body: `{"team_number":7,"responsible_person_id":"lead"}`, principal: &adminPrincipal, wantStatus: http.StatusBadRequest, wantBodySubstr: "responsible_person_id must be a UUID"},
		{name: "no principal", body: `{"team_number":7}`, wantStatus: http.StatusUnauthorized, wantBodySubstr: "unauthorized"},
		{name: "member", body: `{"team_number":7}`, principal: &memberPrincipal, fakeErr: domain.ErrForbidden, wantStatus: http.StatusForbidden, wantBodySubstr: "forbidden"},
		{name: "duplicate number", body: `{"team_number":7}`, principal: &adminPrincipal, fakeErr: domain.ErrDuplicateTeamNumber, wantStatus: http.StatusConflict, wantBodySubstr: "team number already in use"},
		{name: "responsible taken", body: `{"team_number":8,"responsible_person_id":"` + userA + `"}`, principal: &adminPrincipal, fakeErr: domain.ErrResponsibleAlreadyAssigned, wantStatus: http.StatusConflict, wantBodySubstr: "already responsible"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeTeamService{err: tt.fakeErr}
			rr := httptest.NewRecorder()
			NewTeamController(testLogger, fake).CreateTeam(rr, newRequest(http.MethodPost, "/teams", tt.body, tt.principal))

			require.Equal(t, tt.wantStatus, rr.Code)
			var data domain.Team
			envelope := decodeEnvelope(t, rr, &data)
			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, teamID, data.ID)
				assert.Equal(t, 7, data.TeamNumber)
				require.NotNil(t, data.ChaplainName)
				assert.Equal(t, "Fr. Luis", *data.ChaplainName)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
		})
	}
}

func TestTeamController_DeleteTeam(t *testing.T) {
	tests := []struct {
		name       string
		teamID     string
		fakeErr    error
		wantStatus int
	}{
		{"success", teamID, nil, http.StatusOK},
		{"invalid id", "7", nil, http.StatusBadRequest},
		{"not found", teamID, domain.ErrNotFound, http.StatusNotFound},
		{"forbidden", teamID, domain.ErrForbidden, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeTeamService{err: tt.fakeErr}
			req := newRequest(http.MethodDelete, "/teams/"+tt.teamID, "", &adminPrincipal)
			req.SetPathValue("teamID", tt.teamID)
			rr := httptest.NewRecorder()
			NewTeamController(testLogger, fake).DeleteTeam(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus != http.StatusBadRequest {
				assert.Equal(t, teamID, fake.lastDeleted)
			}
		})
	}
}

func TestTeamController_Couples(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		fake := &fakeTeamService{couples: []*domain.Couple{{ID: "couple-1", PrimaryUserID: userA, SecondaryUserID: userB}}}
		req := newRequest(http.MethodGet, "/teams/"+teamID+"/couples", "", &memberPrincipal)
		req.SetPathValue("teamID", teamID)
		rr := httptest.NewRecorder()
		NewTeamController(testLogger, fake).ListCouples(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, teamID, fake.lastListed)
		var data []*domain.Couple
		decodeEnvelope(t, rr, &data)
		require.Len(t, data, 1)
	})

	tests := []struct {
		name           string
		body           string
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
	}{
		{name: "create", body: `{"primary_user_id":"` + userA + `","secondary_user_id":"` + userB + `"}`, wantStatus: http.StatusCreated},
		{name: "bad user id", body: `{"primary_user_id":"ana","secondary_user_id":"` + userB + `"}`, wantStatus: http.StatusBadRequest, wantBodySubstr: "primary_user_id must be a UUID"},
		{name: "same user", body: `{"primary_user_id":"` + userA + `","secondary_user_id":"` + userA + `"}`, fakeErr: domain.NewValidationError([]string{"a couple must link two distinct users"}), wantStatus: http.StatusBadRequest, wantBodySubstr: "two distinct users"},
		{name: "already coupled", body: `{"primary_user_id":"` + userA + `","secondary_user_id":"` + userB + `"}`, fakeErr: domain.ErrDuplicateCouple, wantStatus: http.StatusConflict, wantBodySubstr: "already belongs"},
		{name: "unknown team", body: `{"primary_user_id":"` + userA + `","secondary_user_id":"` + userB + `"}`, fakeErr: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantBodySubstr: "not found"},
		{name: "store failure", body: `{"primary_user_id":"` + userA + `","secondary_user_id":"` + userB + `"}`, fakeErr: errors.New("db error"), wantStatus: http.StatusInternalServerError, wantBodySubstr: "db error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeTeamService{err: tt.fakeErr}
			req := newRequest(http.MethodPost, "/teams/"+teamID+"/couples", tt.body, &adminPrincipal)
			req.SetPathValue("teamID", teamID)
			rr := httptest.NewRecorder()
			NewTeamController(testLogger, fake).CreateCouple(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var data domain.Couple
			envelope := decodeEnvelope(t, rr, &data)
			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, "couple-1", data.ID)
				require.NotNil(t, fake.lastCouple.TeamID)
				assert.Equal(t, teamID, *fake.lastCouple.TeamID)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
		})
	}
}
