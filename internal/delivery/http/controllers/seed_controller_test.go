package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"communitycalendar/internal/domain"
)

func TestSeedController_Seed(t *testing.T) {
	validBody := `{"events":[
		{"title":"Assembly","start_date":"2026-06-06","is_all_day":true},
		{"title":"Retreat","event_type":"spiritual_retreat","start_date":"2026-06-05","end_date":"2026-06-07","is_all_day":true},
		{"title":"First Saturday","start_date":"2026-01-03","is_all_day":true,"recurrence":"FREQ=MONTHLY;BYDAY=1SA;COUNT=6"}
	]}`
	report := &domain.SeedReport{Placed: 7, Relocated: 1}

	tests := []struct {
		name           string
		body           string
		principal      *domain.Principal
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
	}{
		{name: "success", body: validBody, principal: &adminPrincipal, wantStatus: http.StatusOK},
		{name: "empty batch", body: `{"events":[]}`, principal: &adminPrincipal, wantStatus: http.StatusBadRequest, wantBodySubstr: "events must not be empty"},
		{name: "no principal", body: validBody, wantStatus: http.StatusUnauthorized, wantBodySubstr: "unauthorized"},
		{name: "member", body: validBody, principal: &memberPrincipal, fakeErr: domain.ErrForbidden, wantStatus: http.StatusForbidden, wantBodySubstr: "forbidden"},
		{name: "store failure", body: validBody, principal: &adminPrincipal, fakeErr: errors.New("db error"), wantStatus: http.StatusInternalServerError, wantBodySubstr: "db error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeSeedingService{report: report, err: tt.fakeErr}
			rr := httptest.NewRecorder()
			NewSeedController(testLogger, fake).Seed(rr, newRequest(http.MethodPost, "/calendar/seed", tt.body, tt.principal))

			require.Equal(t, tt.wantStatus, rr.Code)
			var data domain.SeedReport
			envelope := decodeEnvelope(t, rr, &data)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, 7, data.Placed)
				assert.Equal(t, 1, data.Relocated)
				require.Len(t, fake.lastDefs, 3)
				assert.Equal(t, domain.MustParseDate("2026-06-07"), fake.lastDefs[1].EndDate)
				assert.Equal(t, "FREQ=MONTHLY;BYDAY=1SA;COUNT=6", fake.lastDefs[2].Recurrence)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
		})
	}
}

func TestSeedRequest_Validate_batchLimit(t *testing.T) {
	events := make([]string, maxSeedBatch+1)
	for i := range events {
		events[i] = fmt.Sprintf(`{"title":"e%d","start_date":"2026-06-06","is_all_day":true}`, i)
	}
	body := `{"events":[` + strings.Join(events, ",") + `]}`
	rr := httptest.NewRecorder()
	NewSeedController(testLogger, &fakeSeedingService{}).Seed(rr, newRequest(http.MethodPost, "/calendar/seed", body, &adminPrincipal))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	envelope := decodeEnvelope(t, rr, nil)
	assert.Contains(t, envelope.Error.Message, "at most 500 events")
}
