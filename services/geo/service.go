package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	acarsModel "virtual-airline/models/acars"
	pirepModel "virtual-airline/models/pirep"
	"virtual-airline/store"
)

// Service projects FLIGHT_PATH telemetry into GeoJSON for the live map.
// Pure transforms over the telemetry store; empty results are valid, not
// errors.
type Service struct {
	store *store.Store
}

// New creates the geo projection service
func New(st *store.Store) *Service {
	return &Service{store: st}
}

// LiveFlights returns one point feature per in-flight PIREP with a known
// last position. PIREPs that never reported a position are excluded.
func (s *Service) LiveFlights(pireps []pirepModel.Pirep) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	for i := range pireps {
		p := &pireps[i]
		last, err := s.store.Acars.LastPosition(p.ID)
		if err != nil {
			return nil, err
		}
		if last == nil {
			continue
		}
		fc.Append(positionFeature(p, last))
	}
	return fc, nil
}

// FlightTrack returns the flown line plus the latest position of one
// flight. A flight with no telemetry yields an empty but valid collection.
func (s *Service) FlightTrack(p *pirepModel.Pirep) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()

	positions, err := s.store.Acars.List(p.ID, acarsModel.TypeFlightPath)
	if err != nil {
		return nil, err
	}
	if len(positions) == 0 {
		return fc, nil
	}

	line := make(orb.LineString, 0, len(positions))
	for _, pos := range positions {
		line = append(line, orb.Point{pos.Lon, pos.Lat})
	}
	track := geojson.NewFeature(line)
	track.Properties["pirep_id"] = p.ID
	track.Properties["kind"] = "flight_path"
	fc.Append(track)

	last := positions[len(positions)-1]
	fc.Append(positionFeature(p, &last))

	return fc, nil
}

// PlannedRoute returns the posted route waypoints as point features in
// sequence order
func (s *Service) PlannedRoute(p *pirepModel.Pirep) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()

	points, err := s.store.Acars.List(p.ID, acarsModel.TypeRoute)
	if err != nil {
		return nil, err
	}
	for _, wp := range points {
		f := geojson.NewFeature(orb.Point{wp.Lon, wp.Lat})
		f.Properties["pirep_id"] = p.ID
		f.Properties["kind"] = "waypoint"
		f.Properties["name"] = wp.Name
		f.Properties["order"] = wp.Order
		fc.Append(f)
	}
	return fc, nil
}

func positionFeature(p *pirepModel.Pirep, pos *acarsModel.Acars) *geojson.Feature {
	f := geojson.NewFeature(orb.Point{pos.Lon, pos.Lat})
	f.Properties["pirep_id"] = p.ID
	f.Properties["kind"] = "position"
	f.Properties["status"] = p.Status.String()
	f.Properties["heading"] = pos.Heading
	f.Properties["altitude"] = pos.Altitude
	f.Properties["gs"] = pos.GroundSpeed
	f.Properties["sim_time"] = pos.SimTime
	return f
}
