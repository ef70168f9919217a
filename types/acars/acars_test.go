package acars

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexTimeEpoch(t *testing.T) {
	var ft FlexTime
	require.NoError(t, json.Unmarshal([]byte(`1750000000`), &ft))
	assert.Equal(t, time.Unix(1750000000, 0).UTC(), ft.Time)
	assert.Equal(t, time.UTC, ft.Location())
}

func TestFlexTimeRFC3339(t *testing.T) {
	var ft FlexTime
	require.NoError(t, json.Unmarshal([]byte(`"2026-06-01T12:30:00+02:00"`), &ft))
	assert.Equal(t, time.Date(2026, 6, 1, 10, 30, 0, 0, time.UTC), ft.Time)
}

func TestFlexTimeNaiveAssumesUTC(t *testing.T) {
	var ft FlexTime
	require.NoError(t, json.Unmarshal([]byte(`"2026-06-01 12:30:00"`), &ft))
	assert.Equal(t, time.Date(2026, 6, 1, 12, 30, 0, 0, time.UTC), ft.Time)
}

func TestFlexTimeEmpty(t *testing.T) {
	var ft FlexTime
	require.NoError(t, json.Unmarshal([]byte(`""`), &ft))
	assert.True(t, ft.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`null`), &ft))
	assert.True(t, ft.IsZero())
}

func TestFlexTimeGarbage(t *testing.T) {
	var ft FlexTime
	assert.Error(t, json.Unmarshal([]byte(`"soon"`), &ft))
}

func TestPositionValidate(t *testing.T) {
	ok := PositionRequest{Lat: 40.6, Lon: -73.7}
	assert.NoError(t, ok.Validate())

	bad := PositionRequest{Lat: 91, Lon: 0}
	assert.Error(t, bad.Validate())

	bad = PositionRequest{Lat: 0, Lon: -181}
	assert.Error(t, bad.Validate())

	bad = PositionRequest{Lat: 40.6, Lon: -73.7, Heading: 361}
	assert.Error(t, bad.Validate())

	bad = PositionRequest{Lat: 40.6, Lon: -73.7, Heading: -1}
	assert.Error(t, bad.Validate())
}

func TestRouteValidate(t *testing.T) {
	ok := RouteRequest{Name: "WAVEY", Lat: 40.2, Lon: -73.5}
	assert.NoError(t, ok.Validate())

	bad := RouteRequest{Lat: 40.2, Lon: -73.5}
	assert.Error(t, bad.Validate(), "waypoint name is required")
}

func TestLogValidate(t *testing.T) {
	assert.Error(t, LogRequest{}.Validate())
	assert.NoError(t, LogRequest{Log: "engine start"}.Validate())
}
