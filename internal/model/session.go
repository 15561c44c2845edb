package model

import "time"

// Session is one client's navigation state: the chosen endpoints,
// the visible region and the current route.
type Session struct {
	ID          string      `json:"id"`
	Origin      *Coordinate `json:"origin,omitempty"`
	Destination *Coordinate `json:"destination,omitempty"`
	Region      Region      `json:"region"`
	Mode        TravelMode  `json:"mode"`
	RouteID     string      `json:"route_id,omitempty"`
	LastError   string      `json:"last_error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a copy that can be modified without affecting s
func (s *Session) Clone() *Session {
	c := *s
	if s.Origin != nil {
		origin := *s.Origin
		c.Origin = &origin
	}
	if s.Destination != nil {
		destination := *s.Destination
		c.Destination = &destination
	}
	return &c
}

// Ready reports whether both endpoints are set
func (s *Session) Ready() bool {
	return s.Origin != nil && s.Destination != nil
}
