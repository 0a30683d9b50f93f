// Package apperror defines the stable error kinds surfaced by the fund
// analytics and ledger verbs. Callers match with errors.Is; human-readable
// causes are attached by wrapping with fmt.Errorf and %w.
package apperror

import "errors"

var (
	// ErrNotFound means the fund code (or a requested record) is unknown.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientHistory marks a metric window shorter than required.
	// It degrades a single field to undefined and never aborts a report.
	ErrInsufficientHistory = errors.New("insufficient history")

	// ErrInsufficientShares means a liquidation exceeds the current holding.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrTransientData marks an upstream fetch failure the caller may retry.
	ErrTransientData = errors.New("transient data error")

	// ErrInvalidParameter covers non-positive shares/cost and malformed input.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Kind returns the stable machine-readable kind for an error, or "internal"
// when it carries none of the known sentinels.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInsufficientHistory):
		return "insufficient_history"
	case errors.Is(err, ErrInsufficientShares):
		return "insufficient_shares"
	case errors.Is(err, ErrTransientData):
		return "transient_data_error"
	case errors.Is(err, ErrInvalidParameter):
		return "invalid_parameter"
	default:
		return "internal"
	}
}
