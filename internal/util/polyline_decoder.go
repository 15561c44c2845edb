package util

import (
	"errors"
	"fmt"
)

// Scale factors for the encoded polyline format.
// Google Directions uses 1e5. GraphHopper and OSRM's polyline6 use 1e6.
const (
	PolylineFactor  = 1e5
	Polyline6Factor = 1e6
)

// ErrMalformedEncoding is returned when the input ends inside a chunk or
// ends after a latitude value with no longitude value to pair it with.
var ErrMalformedEncoding = errors.New("malformed polyline encoding")

// DecodePolyline converts an encoded polyline string to a slice of lat/lng coordinates
// Implementation based on Google's Encoded Polyline Algorithm Format
// Default precision is 1e-5 (the Google Maps standard)
func DecodePolyline(encoded string) ([][2]float64, error) {
	return DecodePolylineWithFactor(encoded, PolylineFactor)
}

// DecodePolylineWithFactor decodes a polyline whose integer units are divided
// by factor to get degrees.
func DecodePolylineWithFactor(encoded string, factor float64) ([][2]float64, error) {
	points := make([][2]float64, 0, len(encoded)/4)
	index, lat, lng := 0, 0, 0

	for index < len(encoded) {
		dlat, next, err := decodeDelta(encoded, index)
		if err != nil {
			return nil, err
		}
		if next >= len(encoded) {
			return nil, fmt.Errorf("%w: latitude at offset %d has no longitude", ErrMalformedEncoding, index)
		}
		index = next
		lat += dlat

		dlng, next, err := decodeDelta(encoded, index)
		if err != nil {
			return nil, err
		}
		index = next
		lng += dlng

		// Add coordinates in Google standard order: [latitude, longitude]
		points = append(points, [2]float64{float64(lat) / factor, float64(lng) / factor})
	}

	return points, nil
}

// decodeDelta reads one zig-zag encoded value starting at index and returns
// it with the index of the next unread byte.
func decodeDelta(encoded string, index int) (int, int, error) {
	start := index
	shift, result := 0, 0
	for {
		if index >= len(encoded) {
			return 0, index, fmt.Errorf("%w: chunk at offset %d is truncated", ErrMalformedEncoding, start)
		}
		b := int(encoded[index]) - 63
		index++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}

	if result&1 != 0 {
		return ^(result >> 1), index, nil
	}
	return result >> 1, index, nil
}
