package geo

import (
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	acarsModel "virtual-airline/models/acars"
	pirepModel "virtual-airline/models/pirep"
	"virtual-airline/store"
)

func newGeoFixture(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st, _ := store.NewMemoryStore()
	return New(st), st
}

func seedPirep(t *testing.T, st *store.Store) *pirepModel.Pirep {
	t.Helper()
	p := &pirepModel.Pirep{
		UserID: 42, AircraftID: 7,
		DptAirportID: "KJFK", ArrAirportID: "KLAX",
		State: pirepModel.StateInProgress, Status: pirepModel.StatusAirborne,
	}
	require.NoError(t, st.Pireps.Create(p))
	return p
}

func seedPositions(t *testing.T, st *store.Store, pirepID uint, n int) {
	t.Helper()
	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	rows := make([]acarsModel.Acars, n)
	for i := range rows {
		rows[i] = acarsModel.Acars{
			PirepID:     pirepID,
			Type:        acarsModel.TypeFlightPath,
			Lat:         40.0 + float64(i),
			Lon:         -73.0 - float64(i),
			Heading:     270,
			Altitude:    30000,
			GroundSpeed: 450,
			SimTime:     base.Add(time.Duration(i) * time.Minute),
		}
	}
	_, err := st.Acars.Append(rows)
	require.NoError(t, err)
}

func TestLiveFlightsExcludesPirepsWithoutPositions(t *testing.T) {
	svc, st := newGeoFixture(t)

	withPos := seedPirep(t, st)
	seedPositions(t, st, withPos.ID, 2)
	without := seedPirep(t, st)

	fc, err := svc.LiveFlights([]pirepModel.Pirep{*withPos, *without})
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)

	f := fc.Features[0]
	assert.Equal(t, "position", f.Properties["kind"])
	assert.Equal(t, withPos.ID, f.Properties["pirep_id"])

	pt, ok := f.Geometry.(orb.Point)
	require.True(t, ok)
	assert.InDelta(t, -74.0, pt.Lon(), 1e-9) // newest position
	assert.InDelta(t, 41.0, pt.Lat(), 1e-9)
}

func TestLiveFlightsEmptyInput(t *testing.T) {
	svc, _ := newGeoFixture(t)

	fc, err := svc.LiveFlights(nil)
	require.NoError(t, err)
	assert.Empty(t, fc.Features)
}

func TestFlightTrackLineAndPoint(t *testing.T) {
	svc, st := newGeoFixture(t)
	p := seedPirep(t, st)
	seedPositions(t, st, p.ID, 3)

	fc, err := svc.FlightTrack(p)
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)

	line, ok := fc.Features[0].Geometry.(orb.LineString)
	require.True(t, ok)
	assert.Len(t, line, 3)
	assert.Equal(t, "flight_path", fc.Features[0].Properties["kind"])
	assert.Equal(t, "position", fc.Features[1].Properties["kind"])
}

func TestFlightTrackNoTelemetry(t *testing.T) {
	svc, st := newGeoFixture(t)
	p := seedPirep(t, st)

	fc, err := svc.FlightTrack(p)
	require.NoError(t, err)
	assert.Empty(t, fc.Features, "empty but valid, not an error")
}

func TestPlannedRouteFeatures(t *testing.T) {
	svc, st := newGeoFixture(t)
	p := seedPirep(t, st)

	_, err := st.Acars.ReplaceRoute(p.ID, []acarsModel.Acars{
		{PirepID: p.ID, Type: acarsModel.TypeRoute, Name: "WAVEY", Order: 0, Lat: 40.2, Lon: -73.5, SimTime: time.Now()},
		{PirepID: p.ID, Type: acarsModel.TypeRoute, Name: "EMJAY", Order: 1, Lat: 40.0, Lon: -73.8, SimTime: time.Now()},
	})
	require.NoError(t, err)

	fc, err := svc.PlannedRoute(p)
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, "WAVEY", fc.Features[0].Properties["name"])
	assert.Equal(t, 0, fc.Features[0].Properties["order"])
}
