package api

import (
	"context"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/rs/zerolog"

	"party-status-backend/internal/board"
	"party-status-backend/internal/model"
	"party-status-backend/internal/notification"
	"party-status-backend/internal/slots"
)

// PartyLister loads the normalized parties of one date.
type PartyLister interface {
	Parties(ctx context.Context, date string) ([]model.Party, error)
}

// BoardReader exposes the latest board evaluation.
type BoardReader interface {
	Snapshot() (board.Snapshot, bool)
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	parties  PartyLister
	engine   *slots.Engine
	board    BoardReader
	registry *notification.Registry
	webpush  *webpush.Options
	log      zerolog.Logger
}

// NewHandler creates a new API handler. board, registry and webpushOptions may be nil.
func NewHandler(parties PartyLister, engine *slots.Engine, board BoardReader, registry *notification.Registry, webpushOptions *webpush.Options, logger zerolog.Logger) *Handler {
	return &Handler{
		parties:  parties,
		engine:   engine,
		board:    board,
		registry: registry,
		webpush:  webpushOptions,
		log:      logger.With().Str("component", "api").Logger(),
	}
}
