package routes

import (
	"context"

	"navigator/internal/service/navigation"
	"navigator/internal/service/place"
)

// Autocompleter returns place predictions for partial input
type Autocompleter interface {
	Autocomplete(ctx context.Context, input string) ([]place.Prediction, error)
}

// Services the handlers call into
type Services struct {
	Navigation *navigation.NavigationService
	Places     Autocompleter
}
