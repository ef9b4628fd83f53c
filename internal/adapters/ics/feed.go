// Package ics renders calendar events as an iCalendar (RFC 5545) feed.
package ics

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/jonboulle/clockwork"

	"communitycalendar/internal/domain"
)

// ContentType is the media type of an encoded feed.
const ContentType = "text/calendar; charset=utf-8"

const productID = "-//communitycalendar//Calendar Feed//EN"

type feedEncoder struct {
	loc   *time.Location
	clock clockwork.Clock
	name  string
}

// NewFeedEncoder returns a CalendarFeedEncoder. Times of day are read in loc
// and written as UTC; all-day events use DATE values with an exclusive end.
func NewFeedEncoder(loc *time.Location, clock clockwork.Clock, name string) domain.CalendarFeedEncoder {
	if loc == nil {
		loc = time.UTC
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &feedEncoder{loc: loc, clock: clock, name: name}
}

func (f *feedEncoder) Encode(events []*domain.CalendarEvent) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText(ical.PropVersion, "2.0")
	if f.name != "" {
		cal.Props.SetText(ical.PropName, f.name)
	}

	now := f.clock.Now()
	cal.Children = append(cal.Children, f.timezone(now))
	stamp := now.UTC()
	for _, e := range events {
		cal.Children = append(cal.Children, f.event(e, stamp).Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}

func (f *feedEncoder) event(e *domain.CalendarEvent, stamp time.Time) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, e.ID)
	event.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
	event.Props.SetText(ical.PropSummary, e.Title)
	if e.Description != nil && *e.Description != "" {
		event.Props.SetText(ical.PropDescription, *e.Description)
	}
	event.Props.SetText(ical.PropCategories, string(e.EventType))
	if e.Color != nil {
		event.Props.SetText(ical.PropColor, *e.Color)
	}

	if e.IsAllDay || e.StartTime == nil || e.EndTime == nil {
		event.Props.SetDate(ical.PropDateTimeStart, e.StartDate.In(time.UTC))
		event.Props.SetDate(ical.PropDateTimeEnd, e.EndDate.AddDays(1).In(time.UTC))
		return event
	}
	event.Props.SetDateTime(ical.PropDateTimeStart, e.StartTime.On(e.StartDate, f.loc).UTC())
	event.Props.SetDateTime(ical.PropDateTimeEnd, e.EndTime.On(e.EndDate, f.loc).UTC())
	return event
}

// timezone describes the local zone as a VTIMEZONE with a single STANDARD
// observance at its current offset. It also keeps feeds without events valid,
// since a calendar must carry at least one component.
func (f *feedEncoder) timezone(now time.Time) *ical.Component {
	_, offset := now.In(f.loc).Zone()
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	utcOffset := fmt.Sprintf("%c%02d%02d", sign, offset/3600, offset%3600/60)

	standard := ical.NewComponent(ical.CompTimezoneStandard)
	setRaw(standard.Props, ical.PropDateTimeStart, "19700101T000000")
	setRaw(standard.Props, ical.PropTimezoneOffsetFrom, utcOffset)
	setRaw(standard.Props, ical.PropTimezoneOffsetTo, utcOffset)

	tz := ical.NewComponent(ical.CompTimezone)
	tz.Props.SetText(ical.PropTimezoneID, f.loc.String())
	tz.Children = append(tz.Children, standard)
	return tz
}

func setRaw(props ical.Props, name, value string) {
	prop := ical.NewProp(name)
	prop.Value = value
	props.Set(prop)
}
