package faucet

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidWallet covers input that fails the cheap shape checks before
	// any address parsing is attempted.
	ErrInvalidWallet = errors.New("invalid wallet address")
	// ErrInvalidAddress covers input that fails bech32 decoding or carries
	// the wrong prefix.
	ErrInvalidAddress = errors.New("invalid nhb address")
	// ErrInsufficientBalance means the admission gate rejected the claim.
	ErrInsufficientBalance = errors.New("faucet balance insufficient")
	// ErrDisabled means the dispensing key never initialised; claiming is
	// permanently off for this process.
	ErrDisabled = errors.New("faucet disabled")
)

// CooldownActiveError rejects a claim inside the cooldown window and carries
// the ceiling of remaining hours for user display.
type CooldownActiveError struct {
	HoursRemaining int
}

func (e *CooldownActiveError) Error() string {
	return fmt.Sprintf("cooldown active: %d hours remaining", e.HoursRemaining)
}

// TransferFailure collapses every dispatch-side failure (network, signing,
// node rejection, confirmation timeout) into one retryable kind. Callers
// never branch on the underlying cause; it exists for logging only.
type TransferFailure struct {
	Reason string
	Err    error
}

func (e *TransferFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transfer failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("transfer failed: %s", e.Reason)
}

func (e *TransferFailure) Unwrap() error {
	return e.Err
}
