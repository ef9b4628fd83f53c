package ics

import (
	"bytes"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"communitycalendar/internal/domain"
)

func TestFeedEncoder_Encode(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	clock := clockwork.NewFakeClockAt(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	start := domain.MustParseTimeOfDay("21:00")
	end := domain.MustParseTimeOfDay("22:30")
	desc := "Bring a dish, chairs"

	events := []*domain.CalendarEvent{
		{
			ID:        "ev-1",
			Title:     "Retreat",
			StartDate: domain.MustParseDate("2026-03-10"),
			EndDate:   domain.MustParseDate("2026-03-12"),
			IsAllDay:  true,
			EventType: domain.EventTypeSpiritualRetreat,
		},
		{
			ID:          "ev-2",
			Title:       "Team night",
			Description: &desc,
			StartDate:   domain.MustParseDate("2026-03-10"),
			EndDate:     domain.MustParseDate("2026-03-10"),
			StartTime:   &start,
			EndTime:     &end,
			EventType:   domain.EventTypeTeamMeeting,
		},
	}

	raw, err := NewFeedEncoder(loc, clock, "Community").Encode(events)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "BEGIN:VCALENDAR")
	assert.Contains(t, string(raw), "DTSTART;VALUE=DATE:20260310")
	assert.Contains(t, string(raw), "DTEND;VALUE=DATE:20260313")
	assert.Contains(t, string(raw), "DTSTART:20260311T020000Z")
	assert.Contains(t, string(raw), "DTEND:20260311T033000Z")
	assert.Contains(t, string(raw), "DTSTAMP:20260501T120000Z")
	assert.Contains(t, string(raw), "TZOFFSETFROM:-0500")

	cal, err := ical.NewDecoder(bytes.NewReader(raw)).Decode()
	require.NoError(t, err)
	decoded := cal.Events()
	require.Len(t, decoded, 2)

	summary, err := decoded[1].Props.Text(ical.PropSummary)
	require.NoError(t, err)
	assert.Equal(t, "Team night", summary)
	description, err := decoded[1].Props.Text(ical.PropDescription)
	require.NoError(t, err)
	assert.Equal(t, desc, description)
	uid, err := decoded[0].Props.Text(ical.PropUID)
	require.NoError(t, err)
	assert.Equal(t, "ev-1", uid)
}

func TestFeedEncoder_emptyFeed(t *testing.T) {
	raw, err := NewFeedEncoder(nil, nil, "").Encode(nil)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "PRODID:"+productID)
	assert.Contains(t, string(raw), "TZID:UTC")
	assert.Contains(t, string(raw), "TZOFFSETTO:+0000")
	assert.NotContains(t, string(raw), "BEGIN:VEVENT")
}
