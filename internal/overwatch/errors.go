package overwatch

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedIdentity is returned when a BattleTag-only operation is
	// invoked on a handle that does not match the name#digits grammar.
	ErrMalformedIdentity = errors.New("overwatch: malformed battletag")

	// ErrLocationRequired is returned by a strict refresh when the platform
	// (or the region, for PC) is not already known.
	ErrLocationRequired = errors.New("overwatch: platform and region must be known")

	// ErrProfileNotFound is returned when every candidate location was probed
	// without a hit. It is an expected outcome, not a fault.
	ErrProfileNotFound = errors.New("overwatch: profile not found")

	// ErrUnknownPrestigeTier is returned when the level border image carries a
	// token missing from the prestige table. It signals that the reference
	// data has drifted from the live site and must not be defaulted away.
	ErrUnknownPrestigeTier = errors.New("overwatch: unknown prestige border")

	// ErrMalformedPage is returned when the portrait node is missing from an
	// otherwise fetched page. Every valid career page carries a portrait, so
	// its absence means the fetch did not produce a profile.
	ErrMalformedPage = errors.New("overwatch: malformed career page")
)

// TransportError wraps a failure from the HTTP transport (DNS, reset,
// timeout). Probe misses are ordinary statuses, never TransportErrors.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("overwatch: fetch %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
