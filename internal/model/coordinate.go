package model

import "strconv"

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// String formats the coordinate as "lat,lng", the form directions APIs expect.
func (c Coordinate) String() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// Valid reports whether the coordinate is inside the geographic range.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// Point returns the coordinate in decoder order: [latitude, longitude].
func (c Coordinate) Point() [2]float64 {
	return [2]float64{c.Latitude, c.Longitude}
}

// CoordinatesFromPoints converts decoded [lat, lng] points. It never returns nil.
func CoordinatesFromPoints(points [][2]float64) []Coordinate {
	coords := make([]Coordinate, len(points))
	for i, p := range points {
		coords[i] = Coordinate{Latitude: p[0], Longitude: p[1]}
	}
	return coords
}

// Default map span, roughly a city.
const (
	DefaultLatitudeDelta  = 0.0922
	DefaultLongitudeDelta = 0.0421
)

// Region is the visible map area: a center and the span around it.
type Region struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	LatitudeDelta  float64 `json:"latitude_delta"`
	LongitudeDelta float64 `json:"longitude_delta"`
}

// DefaultRegion is centered on San Francisco.
func DefaultRegion() Region {
	return RegionAt(Coordinate{Latitude: 37.78825, Longitude: -122.4324})
}

// RegionAt centers a default-span region on c.
func RegionAt(c Coordinate) Region {
	return Region{
		Latitude:       c.Latitude,
		Longitude:      c.Longitude,
		LatitudeDelta:  DefaultLatitudeDelta,
		LongitudeDelta: DefaultLongitudeDelta,
	}
}

// MoveTo keeps the span and moves the center to c.
func (r Region) MoveTo(c Coordinate) Region {
	r.Latitude = c.Latitude
	r.Longitude = c.Longitude
	return r
}
