package liquidity

import "errors"

var (
	// ErrInvalidConfiguration means no instance families are configured, so there is no maximum.
	ErrInvalidConfiguration = errors.New("no instance families configured")
	// ErrUnknownFamily means the family is absent from the configuration.
	ErrUnknownFamily = errors.New("unknown instance family")
	// ErrRemoteSource wraps failures returned by the offering source.
	ErrRemoteSource = errors.New("offering source failed")
	// ErrNoCapacity means no configured family has cached capacity, so liquidity is undefined.
	ErrNoCapacity = errors.New("no marketplace capacity cached for any configured family")
	// ErrNoSource means a refresh was requested on a store opened without an offering source.
	ErrNoSource = errors.New("no offering source configured")
)
