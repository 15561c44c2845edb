package util

import (
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

const earthRadiusMeters = 6371000.0

func HaversineDistance(lat1, lng1, lat2, lng2 float64) float64 {
	// Convert coordinates from degrees to S2 points
	point1 := s2.PointFromLatLng(s2.LatLngFromDegrees(lat1, lng1))
	point2 := s2.PointFromLatLng(s2.LatLngFromDegrees(lat2, lng2))

	// Calculate angle between points
	angle := s1.Angle(s2.ChordAngleBetweenPoints(point1, point2).Angle())

	// Convert angle to distance on Earth's surface
	return angle.Radians() * earthRadiusMeters
}

// PathLength returns the great-circle length in meters of a decoded path.
func PathLength(points [][2]float64) float64 {
	return PathLengthFrom(points, 0)
}

// PathLengthFrom returns the length of the path from the point at index start to its end.
func PathLengthFrom(points [][2]float64, start int) float64 {
	if start < 0 {
		start = 0
	}
	total := 0.0
	for i := start + 1; i < len(points); i++ {
		total += HaversineDistance(points[i-1][0], points[i-1][1], points[i][0], points[i][1])
	}
	return total
}
