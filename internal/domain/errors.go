package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrGameNotFound        = errors.New("game not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrDuplicatePrediction = errors.New("you have already made a prediction for this game")
	ErrGameStarted         = errors.New("game has already started")
	ErrInvalidTeam         = errors.New("predicted winner must be one of the two teams")
	ErrInsufficientCoins   = errors.New("insufficient coin balance")
	ErrUnauthorized        = errors.New("missing or invalid authentication token")
	ErrInvalidRequest      = errors.New("invalid request")
	ErrNotConfigured       = errors.New("service not configured")
	ErrMissingAPIKey       = errors.New("sports data API key is not configured")
	ErrInternalError       = errors.New("internal server error")
)

// UnsupportedSportError reports a sport outside the supported set. The
// offending value is carried so handlers can name it in the response.
type UnsupportedSportError struct {
	Sport string
}

func (e *UnsupportedSportError) Error() string {
	return fmt.Sprintf("unsupported sport: %q", e.Sport)
}

// NewUnsupportedSportError builds an UnsupportedSportError for the given value.
func NewUnsupportedSportError(sport string) error {
	return &UnsupportedSportError{Sport: sport}
}

// UpstreamError reports a non-2xx response from a data provider.
type UpstreamError struct {
	Provider string
	Status   int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Provider, e.Status)
}

// IsNotFoundError checks if an error is a not-found type error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrGameNotFound) || errors.Is(err, ErrUserNotFound)
}

// IsValidationError checks if an error represents a bad request or a
// business-rule violation that should surface as a 400.
func IsValidationError(err error) bool {
	var unsupported *UnsupportedSportError
	return errors.Is(err, ErrDuplicatePrediction) ||
		errors.Is(err, ErrGameStarted) ||
		errors.Is(err, ErrInvalidTeam) ||
		errors.Is(err, ErrInvalidRequest) ||
		errors.As(err, &unsupported)
}
