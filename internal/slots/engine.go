package slots

import (
	"time"

	"party-status-backend/config"
	"party-status-backend/internal/model"
	"party-status-backend/internal/parse"
	"party-status-backend/internal/party"
)

// ActiveWindow is how long after its start a party still occupies its room.
const ActiveWindow = 120 * time.Minute

// CasualSession is a daily walk-in window anchored at a venue-local clock time.
type CasualSession struct {
	Name   string
	Offset time.Duration // since local midnight
	Window time.Duration // inclusive upper bound on elapsed time
}

// Options configures an Engine.
type Options struct {
	Location *time.Location
	Casual   []CasualSession
	// YieldToBookings lets a real booking keep a shared zone during a casual
	// session. By default casual play always takes the shared zones.
	YieldToBookings bool
}

// OptionsFromConfig builds engine options from a validated config.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{
		Location:        cfg.Location(),
		YieldToBookings: cfg.CasualPlay.YieldToBookings,
	}
	if cfg.CasualPlay.Disabled {
		return opts
	}
	for _, s := range cfg.CasualPlay.Sessions {
		opts.Casual = append(opts.Casual, CasualSession{
			Name:   s.Name,
			Offset: s.Offset,
			Window: time.Duration(s.WindowMinutes) * time.Minute,
		})
	}
	return opts
}

// Engine assigns parties to the six display slots.
type Engine struct {
	opts  Options
	clock Clock
}

// NewEngine creates an Engine. A nil clock means the system clock.
func NewEngine(opts Options, clock Clock) *Engine {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Engine{opts: opts, clock: clock}
}

// Location returns the venue timezone the engine evaluates casual sessions in.
func (e *Engine) Location() *time.Location {
	return e.opts.Location
}

// CurrentTime returns the engine clock's time.
func (e *Engine) CurrentTime() time.Time {
	return e.clock.Now()
}

// Now evaluates parties against the engine's clock and returns the slots
// together with the reference time used.
func (e *Engine) Now(parties []model.Party) ([]model.SlotState, time.Time) {
	at := e.clock.Now()
	return e.Assign(parties, at), at
}

// Assign returns the six slot states for parties at time at, in
// model.Sections order. It does not modify parties.
//
// A party is current while 0 <= at-start < ActiveWindow. Current parties
// take their private room, and the Roxby (first 30 minutes) or Gympie
// (next 30 minutes) shared zone. Later parties in the list overwrite
// earlier ones. Casual sessions are applied last.
func (e *Engine) Assign(parties []model.Party, at time.Time) []model.SlotState {
	var rooms [4]*model.Party
	var roxby, gympie *model.Party

	for i := range parties {
		p := parties[i]
		elapsed := at.Sub(p.Start)
		if elapsed < 0 || elapsed >= ActiveWindow {
			continue
		}

		if idx, ok := roomIndex(p.Room); ok {
			rooms[idx] = &p
		}

		switch {
		case elapsed < party.RoxbyDuration:
			roxby = &p
		case elapsed < party.GympieDuration:
			gympie = &p
		}
	}

	bookedRoxby, bookedGympie := roxby != nil, gympie != nil
	local := at.In(e.opts.Location)
	for _, s := range e.opts.Casual {
		c := e.casualParty(s, local)
		elapsed := at.Sub(c.Start)
		if elapsed < 0 || elapsed > s.Window {
			continue
		}
		if elapsed < party.RoxbyDuration {
			if !(e.opts.YieldToBookings && bookedRoxby) {
				roxby = &c
			}
		} else if !(e.opts.YieldToBookings && bookedGympie) {
			gympie = &c
		}
	}

	return []model.SlotState{
		{Section: model.SectionRoom1, Party: rooms[0]},
		{Section: model.SectionRoom2, Party: rooms[1]},
		{Section: model.SectionRoom3, Party: rooms[2]},
		{Section: model.SectionRoom4, Party: rooms[3]},
		{Section: model.SectionRoxby, Party: roxby},
		{Section: model.SectionGympie, Party: gympie},
	}
}

// CasualParties returns the synthetic casual-play parties for the venue-local
// calendar day containing at, in configured order.
func (e *Engine) CasualParties(at time.Time) []model.Party {
	local := at.In(e.opts.Location)
	out := make([]model.Party, 0, len(e.opts.Casual))
	for _, s := range e.opts.Casual {
		out = append(out, e.casualParty(s, local))
	}
	return out
}

func (e *Engine) casualParty(s CasualSession, day time.Time) model.Party {
	y, m, d := day.Date()
	hour := int(s.Offset / time.Hour)
	minute := int((s.Offset % time.Hour) / time.Minute)
	start := time.Date(y, m, d, hour, minute, 0, 0, e.opts.Location)

	return model.Party{
		Date:          start.Format(model.AcuityDateLayout),
		Time:          parse.FormatClock(start, e.opts.Location),
		EndTime:       parse.FormatClock(start.Add(s.Window), e.opts.Location),
		EndRoxbyTime:  parse.FormatClock(start.Add(party.RoxbyDuration), e.opts.Location),
		EndGympieTime: parse.FormatClock(start.Add(party.GympieDuration), e.opts.Location),
		Datetime:      start.Format(time.RFC3339),
		Start:         start,
		ChildName:     s.Name,
		Casual:        true,
	}
}

func roomIndex(room string) (int, bool) {
	if !parse.IsPrivateRoom(room) {
		return 0, false
	}
	return int(room[0] - '1'), true
}
