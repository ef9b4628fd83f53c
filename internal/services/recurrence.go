package services

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"communitycalendar/internal/domain"
)

// maxRecurrenceOccurrences caps expansion of open-ended rules.
const maxRecurrenceOccurrences = 60

// ExpandRecurrence returns the start date of every occurrence of def.Recurrence,
// anchored at def.StartDate. Rules without COUNT or UNTIL are truncated.
func ExpandRecurrence(def domain.EventDefinition) ([]domain.Date, error) {
	r, err := rrule.StrToRRule(def.Recurrence)
	if err != nil {
		return nil, domain.NewValidationError([]string{fmt.Sprintf("invalid recurrence %q: %v", def.Recurrence, err)})
	}
	r.DTStart(def.StartDate.In(time.UTC))

	next := r.Iterator()
	dates := make([]domain.Date, 0)
	for len(dates) < maxRecurrenceOccurrences {
		t, ok := next()
		if !ok {
			break
		}
		dates = append(dates, domain.DateOf(t))
	}
	return dates, nil
}

// occurrenceDefinitions turns a recurring definition into one plain definition per
// occurrence, each keeping the original span and times of day.
func occurrenceDefinitions(def domain.EventDefinition) ([]domain.EventDefinition, error) {
	starts, err := ExpandRecurrence(def)
	if err != nil {
		return nil, err
	}
	span := def.StartDate.DaysUntil(def.EndDate)
	defs := make([]domain.EventDefinition, len(starts))
	for i, start := range starts {
		occ := def
		occ.Recurrence = ""
		occ.StartDate = start
		occ.EndDate = start.AddDays(span)
		defs[i] = occ
	}
	return defs, nil
}
