package arb

import "errors"

var (
	// ErrNoMatch means no fallback tier yielded a single candidate. It is
	// reported to the caller, never converted into an empty snapshot: zero
	// is a legitimate price and must not stand in for "nothing found".
	ErrNoMatch = errors.New("no candidate matched any fallback tier")

	// ErrInsufficientData means a tier matched but a required aggregate is
	// undefined (e.g. asp24h with zero trades in the window).
	ErrInsufficientData = errors.New("required market aggregate is undefined")

	// ErrDivisionUndefined means the reference price is zero and ROI cannot
	// be computed.
	ErrDivisionUndefined = errors.New("reference price is zero, roi undefined")
)
