package place

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"navigator/internal/model"

	"googlemaps.github.io/maps"
)

// ErrPlaceDetailsMissing means the selected place came back without a location.
var ErrPlaceDetailsMissing = errors.New("place details missing")

// ErrEmptyInput is returned for blank autocomplete input.
var ErrEmptyInput = errors.New("autocomplete input is empty")

// ErrPlacesUnavailable wraps provider failures other than an unknown place.
var ErrPlacesUnavailable = errors.New("places service unavailable")

// Provider is the part of *maps.Client the service needs
type Provider interface {
	PlaceAutocomplete(ctx context.Context, r *maps.PlaceAutocompleteRequest) (maps.AutocompleteResponse, error)
	PlaceDetails(ctx context.Context, r *maps.PlaceDetailsRequest) (maps.PlaceDetailsResult, error)
}

// Prediction is one autocomplete suggestion
type Prediction struct {
	PlaceID     string `json:"place_id"`
	Description string `json:"description"`
}

type PlaceService struct {
	provider Provider
	language string
}

func NewPlaceService(provider Provider) *PlaceService {
	return &PlaceService{provider: provider, language: "en"}
}

// Autocomplete returns place suggestions for partial input
func (s *PlaceService) Autocomplete(ctx context.Context, input string) ([]Prediction, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyInput
	}

	resp, err := s.provider.PlaceAutocomplete(ctx, &maps.PlaceAutocompleteRequest{
		Input:    input,
		Language: s.language,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: autocomplete %q: %w", ErrPlacesUnavailable, input, err)
	}

	predictions := make([]Prediction, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		predictions = append(predictions, Prediction{PlaceID: p.PlaceID, Description: p.Description})
	}
	return predictions, nil
}

// Resolve looks up the coordinate of a selected place
func (s *PlaceService) Resolve(ctx context.Context, placeID string) (model.Coordinate, error) {
	if placeID == "" {
		return model.Coordinate{}, fmt.Errorf("%w: empty place id", ErrPlaceDetailsMissing)
	}

	details, err := s.provider.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID:  placeID,
		Language: s.language,
	})
	if err != nil {
		if strings.Contains(err.Error(), "NOT_FOUND") || strings.Contains(err.Error(), "INVALID_REQUEST") {
			return model.Coordinate{}, fmt.Errorf("%w: %s: %w", ErrPlaceDetailsMissing, placeID, err)
		}
		return model.Coordinate{}, fmt.Errorf("%w: place details %s: %w", ErrPlacesUnavailable, placeID, err)
	}

	loc := details.Geometry.Location
	if loc.Lat == 0 && loc.Lng == 0 {
		return model.Coordinate{}, fmt.Errorf("%w: %s has no geometry", ErrPlaceDetailsMissing, placeID)
	}
	return model.Coordinate{Latitude: loc.Lat, Longitude: loc.Lng}, nil
}
