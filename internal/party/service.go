package party

import (
	"context"

	"github.com/rs/zerolog"

	"party-status-backend/internal/acuity"
	"party-status-backend/internal/metrics"
	"party-status-backend/internal/model"
)

// Fetcher is the upstream source of raw appointments.
type Fetcher interface {
	FetchAppointments(ctx context.Context, date string) ([]acuity.Appointment, error)
}

// Service runs the fetch and normalize pipeline for one date.
type Service struct {
	fetcher    Fetcher
	normalizer *Normalizer
	log        zerolog.Logger
}

// NewService wires a fetcher to a normalizer.
func NewService(f Fetcher, n *Normalizer, logger zerolog.Logger) *Service {
	return &Service{
		fetcher:    f,
		normalizer: n,
		log:        logger.With().Str("component", "party").Logger(),
	}
}

// Parties returns the normalized parties booked on date (YYYY-MM-DD), in
// upstream order. Any fetch failure fails the whole call.
func (s *Service) Parties(ctx context.Context, date string) ([]model.Party, error) {
	appts, err := s.fetcher.FetchAppointments(ctx, date)
	if err != nil {
		return nil, err
	}

	parties, errs := s.normalizer.Normalize(appts)
	for _, err := range errs {
		s.log.Warn().Err(err).Str("date", date).Msg("skipping booking")
	}
	if len(errs) > 0 {
		metrics.AddMalformed(len(errs))
	}
	return parties, nil
}
