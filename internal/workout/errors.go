package workout

import (
	"errors"
	"fmt"
)

var (
	// ErrCatalogUnavailable means no exercises could be obtained at all. Callers substitute [DefaultExercises].
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrNoEligibleExercises means the filter came up empty even after widening to bodyweight exercises.
	ErrNoEligibleExercises = errors.New("no eligible exercises")
	ErrInvalidPreferences  = errors.New("invalid preferences")
	ErrInvalidPlan         = errors.New("invalid plan")
	ErrNotFound            = errors.New("not found")
	// ErrSuggestionFailed matches every [SuggestionError].
	ErrSuggestionFailed = errors.New("suggestion failed")
)

// SuggestionFailure classifies why a suggestion tier did not produce a usable plan.
type SuggestionFailure string

const (
	// SuggestionTransportError covers network errors, timeouts, non-2xx responses and missing configuration.
	SuggestionTransportError SuggestionFailure = "transport"
	// SuggestionParseError means the response contained no recognisable exercise ids.
	SuggestionParseError SuggestionFailure = "parse"
	// SuggestionInsufficient means fewer than MinSuggestedExercises ids survived validation.
	SuggestionInsufficient SuggestionFailure = "insufficient"
)

// SuggestionError is returned by suggestion tiers. The Generator absorbs it and moves on to the next tier.
type SuggestionError struct {
	Reason SuggestionFailure
	Err    error
}

// NewSuggestionError wraps err with reason. If err already is a SuggestionError it is returned as is.
func NewSuggestionError(reason SuggestionFailure, err error) error {
	var se *SuggestionError
	if errors.As(err, &se) {
		return err
	}
	return &SuggestionError{Reason: reason, Err: err}
}

func (e *SuggestionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("suggestion failed (%s)", e.Reason)
	}
	return fmt.Sprintf("suggestion failed (%s): %v", e.Reason, e.Err)
}

func (e *SuggestionError) Unwrap() error {
	return e.Err
}

// Is makes every SuggestionError match ErrSuggestionFailed.
func (e *SuggestionError) Is(target error) bool {
	return target == ErrSuggestionFailed //nolint:errorlint // sentinel identity check.
}

// suggestionReason extracts the failure reason, treating unknown errors as transport failures.
func suggestionReason(err error) SuggestionFailure {
	var se *SuggestionError
	if errors.As(err, &se) {
		return se.Reason
	}
	return SuggestionTransportError
}
