package faucet

import (
	"math"
	"sync"
	"time"
)

// DefaultCooldownWindow is the minimum time an address must wait between
// successful claims.
const DefaultCooldownWindow = 24 * time.Hour

// CooldownLedger tracks the instant of the last successful claim per
// address. Entries are overwritten on each success and never removed for the
// lifetime of the process.
type CooldownLedger struct {
	mu        sync.RWMutex
	window    time.Duration
	lastClaim map[string]time.Time
}

func NewCooldownLedger(window time.Duration) *CooldownLedger {
	if window <= 0 {
		window = DefaultCooldownWindow
	}
	return &CooldownLedger{
		window:    window,
		lastClaim: make(map[string]time.Time),
	}
}

// CheckEligible reports whether the address may claim at the given instant.
// When ineligible it also returns the ceiling of remaining hours.
func (l *CooldownLedger) CheckEligible(addr string, now time.Time) (bool, int) {
	l.mu.RLock()
	last, ok := l.lastClaim[addr]
	l.mu.RUnlock()
	if !ok {
		return true, 0
	}
	elapsed := now.Sub(last)
	if elapsed >= l.window {
		return true, 0
	}
	remaining := l.window - elapsed
	return false, int(math.Ceil(remaining.Hours()))
}

// RecordClaim overwrites the entry for addr. Callers must only invoke this
// after a transfer has been confirmed; recording before dispatch would burn
// the address's slot on a failed transfer.
func (l *CooldownLedger) RecordClaim(addr string, now time.Time) {
	l.mu.Lock()
	l.lastClaim[addr] = now
	l.mu.Unlock()
}
