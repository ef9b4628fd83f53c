package helpers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"communitycalendar/internal/domain"
)

// ParseEventFilter reads from, to, type and team_id from the query string.
// from and to are YYYY-MM-DD dates; team_id must be a UUID.
func ParseEventFilter(r *http.Request) (domain.EventFilter, error) {
	q := r.URL.Query()
	var filter domain.EventFilter
	if s := q.Get("from"); s != "" {
		d, err := domain.ParseDate(s)
		if err != nil {
			return filter, fmt.Errorf("invalid from: %w", err)
		}
		filter.From = d
	}
	if s := q.Get("to"); s != "" {
		d, err := domain.ParseDate(s)
		if err != nil {
			return filter, fmt.Errorf("invalid to: %w", err)
		}
		filter.To = d
	}
	filter.EventType = domain.EventType(q.Get("type"))
	if s := q.Get("team_id"); s != "" {
		if err := uuid.Validate(s); err != nil {
			return filter, fmt.Errorf("invalid team_id")
		}
		filter.TeamID = s
	}
	return filter, nil
}

// PathUUID returns the named path value when it is a valid UUID.
func PathUUID(r *http.Request, name string) (string, bool) {
	v := r.PathValue(name)
	if v == "" || uuid.Validate(v) != nil {
		return "", false
	}
	return v, true
}
