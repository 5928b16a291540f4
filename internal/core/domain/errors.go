package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned when client input is malformed.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidInput is returned when an address is not a valid ledger address.
	ErrInvalidInput = errors.New("invalid public key format")

	// ErrConfiguration is returned when a required server setting is missing.
	ErrConfiguration = errors.New("server not configured")

	// ErrAuthorization is returned when the holder check fails.
	ErrAuthorization = errors.New("insufficient token holdings")

	// ErrUpstream is returned when the ledger RPC is unreachable or erroring.
	ErrUpstream = errors.New("rpc error")

	// ErrStorage is returned when no message backend can serve a write.
	ErrStorage = errors.New("message storage unavailable")

	// ErrRateLimited is returned when a wallet posts faster than allowed.
	ErrRateLimited = errors.New("rate limited")
)

// NotHolderError carries the balance that failed the holder check.
type NotHolderError struct {
	Address string
	Balance float64
	MinHold float64
}

func (e *NotHolderError) Error() string {
	return fmt.Sprintf("%s: balance %g below %g", ErrAuthorization, e.Balance, e.MinHold)
}

func (e *NotHolderError) Unwrap() error {
	return ErrAuthorization
}
