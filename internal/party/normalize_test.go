package party

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"party-status-backend/internal/acuity"
)

func perth(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Australia/Perth")
	require.NoError(t, err)
	return loc
}

func appt(id int64, datetime, calendar, name string) acuity.Appointment {
	return acuity.Appointment{
		ID:       id,
		Date:     "March 1, 2025",
		Time:     "10:00am",
		EndTime:  "12:00pm",
		Datetime: datetime,
		Calendar: calendar,
		Forms:    []acuity.Form{{Values: []acuity.FormValue{{Value: name}}}},
	}
}

func TestNormalizeOne(t *testing.T) {
	n := NewNormalizer(perth(t))

	p, err := n.NormalizeOne(appt(42, "2025-03-01T10:00:00+08:00", "Party Room 2", "  Mia  "))
	require.NoError(t, err)

	assert.Equal(t, int64(42), p.ID)
	assert.Equal(t, "March 1, 2025", p.Date)
	assert.Equal(t, "10:00am", p.Time)
	assert.Equal(t, "12:00pm", p.EndTime)
	assert.Equal(t, "10:30am", p.EndRoxbyTime)
	assert.Equal(t, "11:00am", p.EndGympieTime)
	assert.Equal(t, "2025-03-01T10:00:00+08:00", p.Datetime)
	assert.Equal(t, "Mia", p.ChildName)
	assert.Equal(t, "Mia's Party", p.DisplayName())
	assert.Equal(t, "2", p.Room)
	assert.False(t, p.Casual)
	assert.True(t, p.Start.Equal(time.Date(2025, 3, 1, 2, 0, 0, 0, time.UTC)))
}

func TestNormalizeOne_TimezoneIndependentOfOffset(t *testing.T) {
	n := NewNormalizer(perth(t))

	// Same instant expressed in UTC still renders Perth wall time.
	p, err := n.NormalizeOne(appt(1, "2025-03-01T02:00:00+0000", "", "Leo"))
	require.NoError(t, err)
	assert.Equal(t, "10:30am", p.EndRoxbyTime)
	assert.Equal(t, "11:00am", p.EndGympieTime)
	assert.Equal(t, "", p.Room)
}

func TestNormalizeOne_Malformed(t *testing.T) {
	n := NewNormalizer(perth(t))

	noForms := appt(1, "2025-03-01T10:00:00+08:00", "Room 1", "x")
	noForms.Forms = nil

	noValues := appt(2, "2025-03-01T10:00:00+08:00", "Room 1", "x")
	noValues.Forms = []acuity.Form{{}}

	badTime := appt(3, "yesterday", "Room 1", "x")

	for _, a := range []acuity.Appointment{noForms, noValues, badTime} {
		_, err := n.NormalizeOne(a)
		assert.ErrorIs(t, err, ErrMalformedBooking, "appointment %d", a.ID)
	}
}

func TestNormalize_SkipsMalformedAndKeepsOrder(t *testing.T) {
	n := NewNormalizer(perth(t))

	bad := appt(2, "2025-03-01T10:00:00+08:00", "Room 1", "x")
	bad.Forms = nil

	parties, errs := n.Normalize([]acuity.Appointment{
		appt(3, "2025-03-01T14:00:00+08:00", "Room 3", "Ava"),
		bad,
		appt(1, "2025-03-01T10:00:00+08:00", "Room 1", "Noah"),
	})

	require.Len(t, parties, 2)
	assert.Equal(t, int64(3), parties[0].ID)
	assert.Equal(t, int64(1), parties[1].ID)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrMalformedBooking)
}

type fakeFetcher struct {
	appts []acuity.Appointment
	err   error
	dates []string
}

func (f *fakeFetcher) FetchAppointments(ctx context.Context, date string) ([]acuity.Appointment, error) {
	f.dates = append(f.dates, date)
	return f.appts, f.err
}

func TestService_Parties(t *testing.T) {
	bad := appt(9, "2025-03-01T10:00:00+08:00", "", "x")
	bad.Forms = nil
	f := &fakeFetcher{appts: []acuity.Appointment{appt(1, "2025-03-01T10:00:00+08:00", "Room 4", "Zoe"), bad}}

	svc := NewService(f, NewNormalizer(perth(t)), zerolog.Nop())
	parties, err := svc.Parties(context.Background(), "2025-03-01")
	require.NoError(t, err)
	require.Len(t, parties, 1)
	assert.Equal(t, "4", parties[0].Room)
	assert.Equal(t, []string{"2025-03-01"}, f.dates)
}

func TestService_PartiesFetchError(t *testing.T) {
	f := &fakeFetcher{err: errors.Join(acuity.ErrFetch, errors.New("boom"))}
	svc := NewService(f, NewNormalizer(perth(t)), zerolog.Nop())

	parties, err := svc.Parties(context.Background(), "2025-03-01")
	assert.Nil(t, parties)
	assert.ErrorIs(t, err, acuity.ErrFetch)
}
