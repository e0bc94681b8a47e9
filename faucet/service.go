package faucet

import (
	"context"
	"errors"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"time"

	"nhbfaucet/crypto"
	"nhbfaucet/observability"
)

const (
	minWalletLength = 32
	maxWalletLength = 90
)

// Config carries the fixed claim policy for the service.
type Config struct {
	ClaimAmount    *big.Int
	FeeReserve     *big.Int
	CooldownWindow time.Duration
	// Account is the bech32 address of the dispensing identity. Empty means
	// the key never initialised and claiming stays off for the process.
	Account string
}

// Service sequences a claim through address validation, the cooldown ledger,
// the balance gate, and the transfer dispatcher. Requests for the same
// address are mutually exclusive end to end; admission plus transfer is
// additionally serialized across all addresses so concurrent claims cannot
// overdraw the account between a balance read and the submission it
// admitted.
type Service struct {
	logger      *slog.Logger
	clock       func() time.Time
	claimAmount *big.Int
	account     string

	cooldown *CooldownLedger
	stats    *StatsAggregator
	gate     *BalanceGate
	balances BalanceReader
	dispatch TransferDispatcher

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	dispatchMu sync.Mutex
}

func NewService(cfg Config, balances BalanceReader, dispatcher TransferDispatcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	amount := cfg.ClaimAmount
	if amount == nil {
		amount = big.NewInt(0)
	}
	reserve := cfg.FeeReserve
	if reserve == nil {
		reserve = big.NewInt(0)
	}
	svc := &Service{
		logger:      logger,
		clock:       time.Now,
		claimAmount: new(big.Int).Set(amount),
		account:     strings.TrimSpace(cfg.Account),
		cooldown:    NewCooldownLedger(cfg.CooldownWindow),
		stats:       NewStatsAggregator(),
		balances:    balances,
		dispatch:    dispatcher,
		locks:       make(map[string]*sync.Mutex),
	}
	if balances != nil && svc.account != "" {
		svc.gate = NewBalanceGate(balances, svc.account, amount, reserve)
	}
	return svc
}

// SetClock overrides the time source. Test hook.
func (s *Service) SetClock(clock func() time.Time) {
	if clock != nil {
		s.clock = clock
	}
}

// Account returns the dispensing address, or empty when disabled.
func (s *Service) Account() string {
	return s.account
}

// ClaimAmount returns the fixed per-claim amount in wei.
func (s *Service) ClaimAmount() *big.Int {
	return new(big.Int).Set(s.claimAmount)
}

// Snapshot exposes the running totals and recent activity.
func (s *Service) Snapshot() Snapshot {
	return s.stats.Snapshot()
}

// Balance reports the dispensing account's confirmed balance, zero when the
// faucet is disabled or the node cannot be reached.
func (s *Service) Balance(ctx context.Context) *big.Int {
	if s.balances == nil || s.account == "" {
		return big.NewInt(0)
	}
	balance, err := s.balances.Balance(ctx, s.account)
	if err != nil {
		s.logger.Warn("balance query failed", "account", s.account, "error", err)
		return big.NewInt(0)
	}
	return balance
}

// Claim runs one request through the full sequence and returns the
// transaction hash on success. The cooldown ledger and stats are only
// touched after the dispatcher confirms the transfer.
func (s *Service) Claim(ctx context.Context, wallet string) (string, error) {
	wallet = strings.TrimSpace(wallet)
	if len(wallet) < minWalletLength || len(wallet) > maxWalletLength {
		observability.Metrics().ObserveClaim("invalid_wallet")
		return "", ErrInvalidWallet
	}

	addr, err := crypto.DecodeAddress(wallet)
	if err != nil {
		observability.Metrics().ObserveClaim("invalid_address")
		return "", ErrInvalidAddress
	}
	canonical := addr.String()

	lock := s.addressLock(canonical)
	lock.Lock()
	defer lock.Unlock()

	now := s.clock()
	eligible, hoursRemaining := s.cooldown.CheckEligible(canonical, now)
	if !eligible {
		observability.Metrics().ObserveClaim("cooldown")
		return "", &CooldownActiveError{HoursRemaining: hoursRemaining}
	}

	if s.dispatch == nil || s.gate == nil {
		observability.Metrics().ObserveClaim("disabled")
		return "", ErrDisabled
	}

	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	admitted, err := s.gate.Admit(ctx)
	if err != nil {
		s.logger.Warn("admission check failed", "wallet", canonical, "error", err)
		admitted = false
	}
	if !admitted {
		observability.Metrics().ObserveClaim("insufficient_balance")
		return "", ErrInsufficientBalance
	}

	hash, err := s.dispatch.Submit(ctx, addr)
	if err != nil {
		s.logger.Error("transfer failed",
			"wallet", canonical,
			"at", s.clock().UTC(),
			"error", err,
		)
		observability.Metrics().ObserveClaim("transfer_failed")
		var failure *TransferFailure
		if !errors.As(err, &failure) {
			err = &TransferFailure{Reason: "submission rejected", Err: err}
		}
		return "", err
	}

	committed := s.clock()
	s.cooldown.RecordClaim(canonical, committed)
	s.stats.RecordSuccess(s.claimAmount, ClaimRecord{
		Wallet: canonical,
		Time:   committed,
		TxHash: hash,
	})
	observability.Metrics().ObserveClaim("committed")
	observability.Metrics().AddDispensed(s.claimAmount)

	s.logger.Info("claim committed", "wallet", canonical, "tx", hash)
	return hash, nil
}

// addressLock returns the mutex for an address, creating it on first use.
// Entries are never removed; the table grows with the set of addresses seen.
func (s *Service) addressLock(addr string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	lock, ok := s.locks[addr]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[addr] = lock
	}
	return lock
}
