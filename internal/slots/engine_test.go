package slots

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"party-status-backend/config"
	"party-status-backend/internal/model"
)

func perth(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Australia/Perth")
	require.NoError(t, err)
	return loc
}

func defaultEngine(t *testing.T) *Engine {
	return NewEngine(OptionsFromConfig(config.Default()), nil)
}

func bookingOnly(t *testing.T) *Engine {
	return NewEngine(Options{Location: perth(t)}, nil)
}

func at(t *testing.T, hour, minute int) time.Time {
	return time.Date(2025, 3, 1, hour, minute, 0, 0, perth(t))
}

func slotMap(states []model.SlotState) map[model.Section]*model.Party {
	out := make(map[model.Section]*model.Party, len(states))
	for _, s := range states {
		out[s.Section] = s.Party
	}
	return out
}

func partyAt(id int64, room string, start time.Time) model.Party {
	return model.Party{ID: id, Room: room, ChildName: "Kid", Start: start}
}

func TestAssign_AlwaysSixSlotsInOrder(t *testing.T) {
	states := bookingOnly(t).Assign(nil, at(t, 9, 0))
	require.Len(t, states, 6)
	for i, s := range states {
		assert.Equal(t, model.Sections[i], s.Section)
		assert.False(t, s.Occupied())
		assert.Equal(t, model.NoParty, s.Label())
	}
}

func TestAssign_ElapsedBuckets(t *testing.T) {
	start := at(t, 16, 0)
	p := partyAt(1, "2", start)

	testCases := []struct {
		name   string
		offset time.Duration
		room   bool
		roxby  bool
		gympie bool
	}{
		{name: "before start", offset: -time.Minute},
		{name: "at start", offset: 0, room: true, roxby: true},
		{name: "plus 10", offset: 10 * time.Minute, room: true, roxby: true},
		{name: "plus 29m59s", offset: 30*time.Minute - time.Second, room: true, roxby: true},
		{name: "plus 30", offset: 30 * time.Minute, room: true, gympie: true},
		{name: "plus 45", offset: 45 * time.Minute, room: true, gympie: true},
		{name: "plus 60", offset: 60 * time.Minute, room: true},
		{name: "plus 119", offset: 119 * time.Minute, room: true},
		{name: "plus 120", offset: 120 * time.Minute},
		{name: "plus 125", offset: 125 * time.Minute},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			slots := slotMap(bookingOnly(t).Assign([]model.Party{p}, start.Add(tc.offset)))
			assert.Equal(t, tc.room, slots[model.SectionRoom2] != nil, "room")
			assert.Equal(t, tc.roxby, slots[model.SectionRoxby] != nil, "roxby")
			assert.Equal(t, tc.gympie, slots[model.SectionGympie] != nil, "gympie")
			assert.Nil(t, slots[model.SectionRoom1])
			assert.Nil(t, slots[model.SectionRoom3])
			assert.Nil(t, slots[model.SectionRoom4])
		})
	}
}

func TestAssign_NoRoomStillUsesSharedZones(t *testing.T) {
	start := at(t, 16, 0)
	slots := slotMap(bookingOnly(t).Assign([]model.Party{partyAt(1, "", start), partyAt(2, "7", start)}, start.Add(5*time.Minute)))

	for _, sec := range []model.Section{model.SectionRoom1, model.SectionRoom2, model.SectionRoom3, model.SectionRoom4} {
		assert.Nil(t, slots[sec], sec)
	}
	require.NotNil(t, slots[model.SectionRoxby])
	assert.Equal(t, int64(2), slots[model.SectionRoxby].ID)
}

func TestAssign_LastWriteWins(t *testing.T) {
	now := at(t, 16, 40)
	parties := []model.Party{
		partyAt(1, "1", at(t, 16, 30)), // roxby candidate
		partyAt(2, "1", at(t, 16, 0)),  // gympie candidate
		partyAt(3, "1", at(t, 16, 35)), // roxby candidate, last
		partyAt(4, "3", at(t, 16, 5)),  // gympie candidate, last
	}

	slots := slotMap(bookingOnly(t).Assign(parties, now))
	assert.Equal(t, int64(3), slots[model.SectionRoom1].ID)
	assert.Equal(t, int64(4), slots[model.SectionRoom3].ID)
	assert.Equal(t, int64(3), slots[model.SectionRoxby].ID)
	assert.Equal(t, int64(4), slots[model.SectionGympie].ID)
}

func TestAssign_CasualPlay(t *testing.T) {
	e := defaultEngine(t)

	slots := slotMap(e.Assign(nil, at(t, 11, 20)))
	require.NotNil(t, slots[model.SectionRoxby])
	assert.True(t, slots[model.SectionRoxby].Casual)
	assert.Equal(t, "Casual Play", slots[model.SectionRoxby].DisplayName())
	assert.Nil(t, slots[model.SectionGympie])

	slots = slotMap(e.Assign(nil, at(t, 11, 40)))
	assert.Nil(t, slots[model.SectionRoxby])
	require.NotNil(t, slots[model.SectionGympie])
	assert.True(t, slots[model.SectionGympie].Casual)

	// The window end is inclusive.
	slots = slotMap(e.Assign(nil, at(t, 12, 0)))
	assert.NotNil(t, slots[model.SectionGympie])
	slots = slotMap(e.Assign(nil, at(t, 12, 1)))
	assert.Nil(t, slots[model.SectionGympie])

	slots = slotMap(e.Assign(nil, at(t, 13, 45)))
	require.NotNil(t, slots[model.SectionRoxby])
	assert.Equal(t, "1:30pm", slots[model.SectionRoxby].Time)

	slots = slotMap(e.Assign(nil, at(t, 10, 59)))
	assert.Nil(t, slots[model.SectionRoxby])
	assert.Nil(t, slots[model.SectionGympie])
}

func TestAssign_CasualOverridesBookings(t *testing.T) {
	now := at(t, 11, 10)
	booking := partyAt(5, "2", at(t, 11, 0))

	slots := slotMap(defaultEngine(t).Assign([]model.Party{booking}, now))
	assert.True(t, slots[model.SectionRoxby].Casual)
	assert.Equal(t, int64(5), slots[model.SectionRoom2].ID)
}

func TestAssign_CasualYieldsWhenConfigured(t *testing.T) {
	cfg := config.Default()
	cfg.CasualPlay.YieldToBookings = true
	e := NewEngine(OptionsFromConfig(cfg), nil)

	now := at(t, 11, 10)
	slots := slotMap(e.Assign([]model.Party{partyAt(5, "2", at(t, 11, 0))}, now))
	assert.Equal(t, int64(5), slots[model.SectionRoxby].ID)

	// An empty shared zone is still filled.
	slots = slotMap(e.Assign(nil, now))
	assert.True(t, slots[model.SectionRoxby].Casual)
}

func TestAssign_CasualDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.CasualPlay.Disabled = true
	e := NewEngine(OptionsFromConfig(cfg), nil)

	slots := slotMap(e.Assign(nil, at(t, 11, 20)))
	assert.Nil(t, slots[model.SectionRoxby])
}

func TestAssign_CasualUsesVenueCalendarDay(t *testing.T) {
	// 03:20 UTC is 11:20 in Perth on the same date.
	now := time.Date(2025, 3, 1, 3, 20, 0, 0, time.UTC)
	slots := slotMap(defaultEngine(t).Assign(nil, now))
	require.NotNil(t, slots[model.SectionRoxby])
	assert.Equal(t, "March 1, 2025", slots[model.SectionRoxby].Date)
}

func TestAssign_Idempotent(t *testing.T) {
	parties := []model.Party{
		partyAt(1, "1", at(t, 10, 50)),
		partyAt(2, "4", at(t, 10, 30)),
	}
	snapshot := append([]model.Party(nil), parties...)
	now := at(t, 11, 15)
	e := defaultEngine(t)

	first := e.Assign(parties, now)
	second := e.Assign(parties, now)
	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, parties)
}

func TestEngine_NowUsesClock(t *testing.T) {
	start := at(t, 16, 0)
	clock := NewManualClock(start.Add(10 * time.Minute))
	e := NewEngine(Options{Location: perth(t)}, clock)
	p := []model.Party{partyAt(1, "2", start)}

	states, ref := e.Now(p)
	assert.Equal(t, start.Add(10*time.Minute), ref)
	assert.NotNil(t, slotMap(states)[model.SectionRoxby])

	clock.Advance(35 * time.Minute)
	states, _ = e.Now(p)
	assert.Nil(t, slotMap(states)[model.SectionRoxby])
	assert.NotNil(t, slotMap(states)[model.SectionGympie])
}

func TestCasualParties(t *testing.T) {
	parties := defaultEngine(t).CasualParties(at(t, 8, 0))
	require.Len(t, parties, 2)
	assert.Equal(t, "11:00am", parties[0].Time)
	assert.Equal(t, "12:00pm", parties[0].EndTime)
	assert.Equal(t, "11:30am", parties[0].EndRoxbyTime)
	assert.Equal(t, "1:30pm", parties[1].Time)
	assert.Equal(t, "2:30pm", parties[1].EndTime)
	assert.True(t, parties[1].Casual)
}
