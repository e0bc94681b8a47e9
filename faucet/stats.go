package faucet

import (
	"math/big"
	"sync"
	"time"
)

// recentClaimsCap bounds the activity log; the oldest entries are evicted
// once it is exceeded.
const recentClaimsCap = 50

// ClaimRecord is one entry in the recent-activity log. It exists purely for
// reporting and plays no part in eligibility decisions.
type ClaimRecord struct {
	Wallet string
	Time   time.Time
	TxHash string
}

// Snapshot is a point-in-time copy of the aggregator state.
type Snapshot struct {
	TotalClaims    uint64
	TotalDispensed *big.Int
	Recent         []ClaimRecord
}

// StatsAggregator keeps monotonically increasing totals plus the bounded
// recent-activity log. Totals are only ever added to, never recomputed from
// the log.
type StatsAggregator struct {
	mu             sync.Mutex
	totalClaims    uint64
	totalDispensed *big.Int
	recent         []ClaimRecord
}

func NewStatsAggregator() *StatsAggregator {
	return &StatsAggregator{totalDispensed: big.NewInt(0)}
}

// RecordSuccess adds one confirmed claim to the totals and appends it to the
// activity log in a single step.
func (s *StatsAggregator) RecordSuccess(amount *big.Int, record ClaimRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalClaims++
	s.totalDispensed = new(big.Int).Add(s.totalDispensed, amount)
	s.recent = append(s.recent, record)
	if len(s.recent) > recentClaimsCap {
		s.recent = s.recent[len(s.recent)-recentClaimsCap:]
	}
}

func (s *StatsAggregator) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	recent := make([]ClaimRecord, len(s.recent))
	copy(recent, s.recent)
	return Snapshot{
		TotalClaims:    s.totalClaims,
		TotalDispensed: new(big.Int).Set(s.totalDispensed),
		Recent:         recent,
	}
}
