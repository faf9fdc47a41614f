package domain

import "errors"

var (
	// ErrInvalidConfig is returned when quiz settings cannot produce valid rounds.
	ErrInvalidConfig = errors.New("invalid quiz config")
	// ErrParticipantNotFound is returned when a participant has never been credited.
	ErrParticipantNotFound = errors.New("participant not found")
	// ErrRewardsUnavailable indicates the credit ledger capability was not resolved.
	ErrRewardsUnavailable = errors.New("rewards unavailable")
	// ErrInvalidDistribution indicates a weighted distribution could not be decoded.
	ErrInvalidDistribution = errors.New("invalid weighted distribution")
)
