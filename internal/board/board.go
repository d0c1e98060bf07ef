package board

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"party-status-backend/config"
	"party-status-backend/internal/metrics"
	"party-status-backend/internal/model"
	"party-status-backend/internal/parse"
	"party-status-backend/internal/slots"
)

// PartySource loads the normalized parties of one venue date.
type PartySource interface {
	Parties(ctx context.Context, date string) ([]model.Party, error)
}

// Notifier receives slot changes detected between ticks.
type Notifier interface {
	Dispatch(change model.SlotChange)
}

// Snapshot is the result of the latest board evaluation.
type Snapshot struct {
	Date     string            `json:"date"`
	At       time.Time         `json:"at"`
	LoadedAt time.Time         `json:"loadedAt"`
	Slots    []model.SlotState `json:"slots,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// Board keeps today's parties in memory and re-evaluates the slots on a timer.
type Board struct {
	cfg      config.BoardConfig
	source   PartySource
	engine   *slots.Engine
	clock    slots.Clock
	notifier Notifier
	log      zerolog.Logger

	// owned by the tick loop
	parties    []model.Party
	loadedDate string
	loadedAt   time.Time
	loadErr    error

	mu       sync.RWMutex
	snapshot *Snapshot
}

// New creates a Board. notifier may be nil.
func New(cfg config.BoardConfig, source PartySource, engine *slots.Engine, clock slots.Clock, notifier Notifier, logger zerolog.Logger) *Board {
	if clock == nil {
		clock = slots.SystemClock{}
	}
	return &Board{
		cfg:      cfg,
		source:   source,
		engine:   engine,
		clock:    clock,
		notifier: notifier,
		log:      logger.With().Str("component", "board").Logger(),
	}
}

// Run evaluates once immediately and then on every tick until ctx is done.
func (b *Board) Run(ctx context.Context) {
	if b.cfg.Disabled {
		b.log.Info().Msg("board loop is disabled, not starting")
		return
	}
	b.log.Info().Dur("tick", b.cfg.Tick).Msg("starting board loop")

	b.Tick(ctx)

	timer := time.NewTimer(b.cfg.Tick)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			b.log.Info().Msg("board loop shutting down")
			return
		case <-timer.C:
			b.Tick(ctx)
			timer.Reset(b.cfg.Tick)
		}
	}
}

// Tick performs one evaluation. Parties are fetched again only when the venue
// date has changed or the previous load failed. Tick must not be called
// concurrently with itself.
func (b *Board) Tick(ctx context.Context) Snapshot {
	now := b.clock.Now()
	date := parse.DateIn(now, b.engine.Location())

	if date != b.loadedDate || b.loadErr != nil {
		b.load(ctx, date, now)
	}

	snap := Snapshot{Date: date, At: now, LoadedAt: b.loadedAt}
	if b.loadErr != nil {
		snap.Error = b.loadErr.Error()
		b.store(snap)
		return snap
	}

	snap.Slots = b.engine.Assign(b.parties, now)

	occupied := 0
	for _, s := range snap.Slots {
		if s.Occupied() {
			occupied++
		}
	}
	metrics.ObserveTick(occupied)

	if prev, ok := b.Snapshot(); ok && b.notifier != nil {
		for _, change := range model.Diff(prev.Slots, snap.Slots, now) {
			b.log.Info().
				Str("section", string(change.Section)).
				Str("label", change.Current.Label()).
				Msg("slot changed")
			b.notifier.Dispatch(change)
		}
	}

	b.store(snap)
	return snap
}

// Snapshot returns the latest evaluation. ok is false until the first tick.
func (b *Board) Snapshot() (Snapshot, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.snapshot == nil {
		return Snapshot{}, false
	}
	return *b.snapshot, true
}

func (b *Board) load(ctx context.Context, date string, now time.Time) {
	parties, err := b.source.Parties(ctx, date)
	if err != nil {
		b.log.Error().Err(err).Str("date", date).Msg("loading parties failed")
		b.parties = nil
		b.loadErr = err
		return
	}
	b.parties = parties
	b.loadedDate = date
	b.loadedAt = now
	b.loadErr = nil
	b.log.Info().Str("date", date).Int("parties", len(parties)).Msg("parties loaded")
}

func (b *Board) store(snap Snapshot) {
	b.mu.Lock()
	b.snapshot = &snap
	b.mu.Unlock()
}
