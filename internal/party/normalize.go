package party

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"party-status-backend/internal/acuity"
	"party-status-backend/internal/model"
	"party-status-backend/internal/parse"
)

// Fixed play lengths on the two shared zones, measured from the party start.
const (
	RoxbyDuration  = 30 * time.Minute
	GympieDuration = 60 * time.Minute
)

// ErrMalformedBooking marks an appointment that cannot become a Party.
var ErrMalformedBooking = errors.New("malformed booking")

// Normalizer maps Acuity appointments to parties rendered in the venue timezone.
type Normalizer struct {
	loc *time.Location
}

// NewNormalizer creates a Normalizer for the given venue location.
func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{loc: loc}
}

// NormalizeOne converts a single appointment.
func (n *Normalizer) NormalizeOne(a acuity.Appointment) (model.Party, error) {
	name, err := childName(a)
	if err != nil {
		return model.Party{}, fmt.Errorf("%w: appointment %d: %w", ErrMalformedBooking, a.ID, err)
	}

	start, err := parse.ParseDatetime(a.Datetime)
	if err != nil {
		return model.Party{}, fmt.Errorf("%w: appointment %d: %w", ErrMalformedBooking, a.ID, err)
	}

	return model.Party{
		ID:            a.ID,
		Date:          a.Date,
		Time:          a.Time,
		EndTime:       a.EndTime,
		EndRoxbyTime:  parse.FormatClock(start.Add(RoxbyDuration), n.loc),
		EndGympieTime: parse.FormatClock(start.Add(GympieDuration), n.loc),
		Datetime:      a.Datetime,
		Start:         start,
		ChildName:     name,
		Room:          parse.ExtractRoom(a.Calendar),
	}, nil
}

// Normalize converts appointments in order. Malformed appointments are
// skipped and reported in the returned error slice.
func (n *Normalizer) Normalize(appts []acuity.Appointment) ([]model.Party, []error) {
	parties := make([]model.Party, 0, len(appts))
	var errs []error
	for _, a := range appts {
		p, err := n.NormalizeOne(a)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		parties = append(parties, p)
	}
	return parties, errs
}

// childName reads the first value of the first form.
func childName(a acuity.Appointment) (string, error) {
	if len(a.Forms) == 0 {
		return "", errors.New("no forms")
	}
	if len(a.Forms[0].Values) == 0 {
		return "", errors.New("first form has no values")
	}
	return strings.TrimSpace(a.Forms[0].Values[0].Value), nil
}
