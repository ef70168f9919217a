package pirep

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinzhu/now"

	pirepModel "virtual-airline/models/pirep"
)

func TestLookbackStartSameDay(t *testing.T) {
	f := newFixture(t, defaultSettings())

	ref := time.Date(2026, 3, 14, 15, 9, 26, 0, time.Local)
	start := f.svc.lookbackStart(ref)
	assert.Equal(t, now.With(ref).BeginningOfDay(), start)
}

func TestLookbackStartLongWindow(t *testing.T) {
	settings := defaultSettings()
	settings.DuplicateLookback = 72 * time.Hour
	f := newFixture(t, settings)

	ref := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	start := f.svc.lookbackStart(ref)
	assert.Equal(t, ref.Add(-72*time.Hour), start)
}

func TestFindDuplicateSkipsCancelled(t *testing.T) {
	f := newFixture(t, defaultSettings())

	p, err := f.svc.Prefile(prefileReq())
	require.NoError(t, err)
	_, err = f.svc.Cancel(p.ID, "")
	require.NoError(t, err)

	dup, err := f.svc.FindDuplicate(prefileReq())
	require.NoError(t, err)
	assert.Nil(t, dup)
}

func TestFindDuplicateIgnoresOldFlights(t *testing.T) {
	f := newFixture(t, defaultSettings())

	stale := &pirepModel.Pirep{
		UserID:       42,
		AircraftID:   7,
		DptAirportID: "KJFK",
		ArrAirportID: "KLAX",
		State:        pirepModel.StateInProgress,
		Status:       pirepModel.StatusInitiated,
		CreatedAt:    now.With(time.Now()).BeginningOfDay().Add(-time.Hour),
	}
	require.NoError(t, f.store.Pireps.Create(stale))

	dup, err := f.svc.FindDuplicate(prefileReq())
	require.NoError(t, err)
	assert.Nil(t, dup, "yesterday's flight is outside the same-day window")
}

func TestFindDuplicatePicksMostRecent(t *testing.T) {
	f := newFixture(t, defaultSettings())

	older := &pirepModel.Pirep{
		UserID: 42, AircraftID: 7,
		DptAirportID: "KJFK", ArrAirportID: "KLAX",
		State: pirepModel.StateInProgress, Status: pirepModel.StatusInitiated,
		CreatedAt: time.Now().Add(-10 * time.Minute),
	}
	require.NoError(t, f.store.Pireps.Create(older))

	newer := &pirepModel.Pirep{
		UserID: 42, AircraftID: 7,
		DptAirportID: "KJFK", ArrAirportID: "KLAX",
		State: pirepModel.StateInProgress, Status: pirepModel.StatusInitiated,
		CreatedAt: time.Now().Add(-1 * time.Minute),
	}
	require.NoError(t, f.store.Pireps.Create(newer))

	dup, err := f.svc.FindDuplicate(prefileReq())
	require.NoError(t, err)
	require.NotNil(t, dup)
	assert.Equal(t, newer.ID, dup.ID)
}

func TestPrefileRefreshDuplicateFields(t *testing.T) {
	settings := defaultSettings()
	settings.RefreshDuplicateFields = true
	f := newFixture(t, settings)

	first, err := f.svc.Prefile(prefileReq())
	require.NoError(t, err)

	req := prefileReq()
	req.Route = "WAVEY EMJAY"
	second, err := f.svc.Prefile(req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "WAVEY EMJAY", second.Route)
}
