package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	acarsModel "virtual-airline/models/acars"
	"virtual-airline/models/journal"
	pirepModel "virtual-airline/models/pirep"
	"virtual-airline/types"
)

func newPirep(t *testing.T, st *Store) *pirepModel.Pirep {
	t.Helper()
	p := &pirepModel.Pirep{
		UserID: 42, AircraftID: 7,
		DptAirportID: "KJFK", ArrAirportID: "KLAX",
		State: pirepModel.StateInProgress, Status: pirepModel.StatusInitiated,
	}
	require.NoError(t, st.Pireps.Create(p))
	return p
}

func TestCreateAssignsIDAndKeepsPresetCreatedAt(t *testing.T) {
	st, _ := NewMemoryStore()

	preset := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p := &pirepModel.Pirep{UserID: 1, AircraftID: 1, DptAirportID: "KJFK", ArrAirportID: "KLAX", CreatedAt: preset}
	require.NoError(t, st.Pireps.Create(p))
	assert.NotZero(t, p.ID)
	assert.Equal(t, preset, p.CreatedAt)

	q := newPirep(t, st)
	assert.Greater(t, q.ID, p.ID)
	assert.WithinDuration(t, time.Now(), q.CreatedAt, 5*time.Second)
}

func TestGetReturnsCopy(t *testing.T) {
	st, _ := NewMemoryStore()
	p := newPirep(t, st)

	got, err := st.Pireps.Get(p.ID)
	require.NoError(t, err)
	got.Route = "mutated"

	again, err := st.Pireps.Get(p.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Route, "callers must not share memory with the store")
}

func TestSaveUnknownPirep(t *testing.T) {
	st, _ := NewMemoryStore()
	err := st.Pireps.Save(&pirepModel.Pirep{ID: 999})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestLiveFlightsWindow(t *testing.T) {
	st, mem := NewMemoryStore()

	live := newPirep(t, st)

	// Save always refreshes UpdatedAt, so plant the stale row directly
	stale := newPirep(t, st)
	mem.mu.Lock()
	row := mem.pireps[stale.ID]
	row.UpdatedAt = time.Now().Add(-2 * time.Hour)
	mem.pireps[stale.ID] = row
	mem.mu.Unlock()

	done := newPirep(t, st)
	done.State = pirepModel.StateAccepted
	require.NoError(t, st.Pireps.Save(done))

	flights, err := st.Pireps.LiveFlights(30 * time.Minute)
	require.NoError(t, err)

	ids := make([]uint, 0, len(flights))
	for _, f := range flights {
		ids = append(ids, f.ID)
	}
	assert.Contains(t, ids, live.ID)
	assert.NotContains(t, ids, stale.ID, "flights silent past the window drop off the map")
	assert.NotContains(t, ids, done.ID, "only in-progress flights are live")
}

func TestReplaceRouteScopedToPirep(t *testing.T) {
	st, _ := NewMemoryStore()
	a := newPirep(t, st)
	b := newPirep(t, st)

	_, err := st.Acars.ReplaceRoute(a.ID, []acarsModel.Acars{
		{PirepID: a.ID, Type: acarsModel.TypeRoute, Name: "WAVEY", Order: 0, SimTime: time.Now()},
	})
	require.NoError(t, err)
	_, err = st.Acars.ReplaceRoute(b.ID, []acarsModel.Acars{
		{PirepID: b.ID, Type: acarsModel.TypeRoute, Name: "MERIT", Order: 0, SimTime: time.Now()},
	})
	require.NoError(t, err)

	_, err = st.Acars.ReplaceRoute(a.ID, nil)
	require.NoError(t, err)

	aRoute, err := st.Acars.List(a.ID, acarsModel.TypeRoute)
	require.NoError(t, err)
	assert.Empty(t, aRoute)

	bRoute, err := st.Acars.List(b.ID, acarsModel.TypeRoute)
	require.NoError(t, err)
	require.Len(t, bRoute, 1, "clearing one flight's route must not touch another's")
	assert.Equal(t, "MERIT", bRoute[0].Name)
}

func TestListOrdersPositionsBySimTime(t *testing.T) {
	st, _ := NewMemoryStore()
	p := newPirep(t, st)

	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	_, err := st.Acars.Append([]acarsModel.Acars{
		{PirepID: p.ID, Type: acarsModel.TypeFlightPath, Lat: 2, SimTime: base.Add(time.Minute)},
		{PirepID: p.ID, Type: acarsModel.TypeFlightPath, Lat: 1, SimTime: base},
	})
	require.NoError(t, err)

	rows, err := st.Acars.List(p.ID, acarsModel.TypeFlightPath)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1.0, rows[0].Lat)
	assert.Equal(t, 2.0, rows[1].Lat)

	last, err := st.Acars.LastPosition(p.ID)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, 2.0, last.Lat)
}

func TestLastPositionEmpty(t *testing.T) {
	st, _ := NewMemoryStore()
	p := newPirep(t, st)

	last, err := st.Acars.LastPosition(p.ID)
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestHasRoute(t *testing.T) {
	st, _ := NewMemoryStore()
	p := newPirep(t, st)

	has, err := st.Acars.HasRoute(p.ID)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = st.Acars.ReplaceRoute(p.ID, []acarsModel.Acars{
		{PirepID: p.ID, Type: acarsModel.TypeRoute, Name: "WAVEY", SimTime: time.Now()},
	})
	require.NoError(t, err)

	has, err = st.Acars.HasRoute(p.ID)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestJournalReplaceSupersedes(t *testing.T) {
	st, _ := NewMemoryStore()
	p := newPirep(t, st)

	require.NoError(t, st.Journal.Replace(p.ID, []journal.Transaction{
		{PirepID: p.ID, Group: journal.GroupPilotPay, Debit: 75},
		{PirepID: p.ID, Group: journal.GroupFuelCost, Debit: 4500},
	}))
	require.NoError(t, st.Journal.Replace(p.ID, []journal.Transaction{
		{PirepID: p.ID, Group: journal.GroupPilotPay, Debit: 80},
	}))

	rows, err := st.Journal.ForPirep(p.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 80.0, rows[0].Debit)
}

func TestUpsertFieldsMerges(t *testing.T) {
	st, mem := NewMemoryStore()
	p := newPirep(t, st)

	require.NoError(t, st.Pireps.UpsertFields(p.ID, map[string]string{"gate": "B22", "cruise": "FL350"}))
	require.NoError(t, st.Pireps.UpsertFields(p.ID, map[string]string{"gate": "B24"}))

	mem.mu.RLock()
	fields := mem.fields[p.ID]
	mem.mu.RUnlock()
	assert.Equal(t, "B24", fields["gate"], "second upsert overwrites")
	assert.Equal(t, "FL350", fields["cruise"], "untouched keys survive")
}

func TestAppendStatusEvent(t *testing.T) {
	st, mem := NewMemoryStore()
	p := newPirep(t, st)

	ev := &pirepModel.StatusEvent{PirepID: p.ID, Event: "filed", CreatedBy: "jdoe"}
	require.NoError(t, st.Pireps.AppendStatusEvent(ev))
	assert.NotZero(t, ev.ID)
	assert.False(t, ev.CreatedAt.IsZero())

	events := mem.StatusEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "filed", events[0].Event)
}
