package acars

import (
	"bytes"
	"fmt"
	"strconv"
	"time"
)

// FlexTime accepts the timestamp shapes ACARS clients actually send: a
// unix epoch number, an RFC3339 string, or a bare "2006-01-02 15:04:05"
// string which is taken as UTC. Whatever comes in, the stored moment is
// normalized to UTC.
type FlexTime struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler for FlexTime
func (ft *FlexTime) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(b, `"`))
	if s == "" || s == "null" {
		ft.Time = time.Time{}
		return nil
	}

	if epoch, err := strconv.ParseInt(s, 10, 64); err == nil {
		ft.Time = time.Unix(epoch, 0).UTC()
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		ft.Time = t.UTC()
		return nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.UTC); err == nil {
		ft.Time = t
		return nil
	}
	return fmt.Errorf("unparseable time %q", s)
}

// PositionRequest is one FLIGHT_PATH observation
type PositionRequest struct {
	Lat         float64  `json:"lat" validate:"required"`
	Lon         float64  `json:"lon" validate:"required"`
	Heading     int      `json:"heading" validate:"min=0,max=360"`
	Altitude    int      `json:"altitude"`
	GroundSpeed int      `json:"gs"`
	SimTime     FlexTime `json:"sim_time"`
}

// Validate checks a single position entry
func (r PositionRequest) Validate() error {
	if r.Lat < -90 || r.Lat > 90 {
		return fmt.Errorf("lat %v out of range", r.Lat)
	}
	if r.Lon < -180 || r.Lon > 180 {
		return fmt.Errorf("lon %v out of range", r.Lon)
	}
	if r.Heading < 0 || r.Heading > 360 {
		return fmt.Errorf("heading %v out of range", r.Heading)
	}
	return nil
}

// LogRequest is one free-text LOG or EVENT entry
type LogRequest struct {
	Log     string   `json:"log" validate:"required"`
	Lat     float64  `json:"lat"`
	Lon     float64  `json:"lon"`
	SimTime FlexTime `json:"sim_time"`
}

// Validate checks a single log entry
func (r LogRequest) Validate() error {
	if r.Log == "" {
		return fmt.Errorf("log text is required")
	}
	return nil
}

// RouteRequest is one planned-route waypoint. Order is assigned by the
// ingestion pipeline from input position, not by the client.
type RouteRequest struct {
	Name     string  `json:"name" validate:"required,max=50"`
	Lat      float64 `json:"lat" validate:"required"`
	Lon      float64 `json:"lon" validate:"required"`
	Altitude int     `json:"altitude"`
}

// Validate checks a single route waypoint
func (r RouteRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("waypoint name is required")
	}
	if r.Lat < -90 || r.Lat > 90 {
		return fmt.Errorf("lat %v out of range", r.Lat)
	}
	if r.Lon < -180 || r.Lon > 180 {
		return fmt.Errorf("lon %v out of range", r.Lon)
	}
	return nil
}

// PositionBatch wraps the body of a position post
type PositionBatch struct {
	Positions []PositionRequest `json:"positions"`
}

// LogBatch wraps the body of a log or event post
type LogBatch struct {
	Logs []LogRequest `json:"logs"`
}

// RouteBatch wraps the body of a route post
type RouteBatch struct {
	Route []RouteRequest `json:"route"`
}

// BatchResponse reports how many records a post actually wrote
type BatchResponse struct {
	Count int `json:"count"`
}
