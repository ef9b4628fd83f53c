// Package plan reads seeding plans: YAML lists of event definitions.
package plan

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"communitycalendar/internal/domain"
)

// Plan is the document layout of a seed plan file.
type Plan struct {
	Events []domain.EventDefinition `yaml:"events"`
}

// Load reads and decodes the plan at path.
func Load(path string) (*Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open plan: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a plan, rejecting unknown keys so typos do not silently drop fields.
func Decode(r io.Reader) (*Plan, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var p Plan
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode plan: empty document")
		}
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	if len(p.Events) == 0 {
		return nil, fmt.Errorf("decode plan: no events")
	}
	return &p, nil
}

// Window returns the date range a plan can touch: from the earliest start to
// the latest end pushed forward by the relocation horizon. Recurring
// definitions contribute every occurrence. ok is false when no definition
// carries a usable start date.
func (p *Plan) Window(horizonDays int, expand func(domain.EventDefinition) ([]domain.Date, error)) (from, to domain.Date, ok bool) {
	for _, def := range p.Events {
		def = def.Normalized()
		if def.StartDate.IsZero() {
			continue
		}
		span := def.StartDate.DaysUntil(def.EndDate)
		starts := []domain.Date{def.StartDate}
		if def.Recurrence != "" && expand != nil {
			if dates, err := expand(def); err == nil && len(dates) > 0 {
				starts = dates
			}
		}
		for _, s := range starts {
			end := s.AddDays(span)
			if !ok || s.Before(from) {
				from = s
			}
			if !ok || end.After(to) {
				to = end
			}
			ok = true
		}
	}
	if ok {
		to = to.AddDays(horizonDays)
	}
	return from, to, ok
}
