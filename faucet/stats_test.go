package faucet

import (
	"fmt"
	"math/big"
	"testing"
	"time"
)

func TestStatsAggregatorTotals(t *testing.T) {
	stats := NewStatsAggregator()
	amount := big.NewInt(10_000_000_000_000_000) // 0.01 NHB
	now := time.Now()

	for i := 0; i < 3; i++ {
		stats.RecordSuccess(amount, ClaimRecord{Wallet: fmt.Sprintf("nhb1wallet%d", i), Time: now, TxHash: "0xabc"})
	}

	snap := stats.Snapshot()
	if snap.TotalClaims != 3 {
		t.Fatalf("expected 3 claims, got %d", snap.TotalClaims)
	}
	want := new(big.Int).Mul(amount, big.NewInt(3))
	if snap.TotalDispensed.Cmp(want) != 0 {
		t.Fatalf("expected %s dispensed, got %s", want, snap.TotalDispensed)
	}
	if len(snap.Recent) != 3 {
		t.Fatalf("expected 3 recent records, got %d", len(snap.Recent))
	}
}

func TestStatsAggregatorEvictsOldest(t *testing.T) {
	stats := NewStatsAggregator()
	amount := big.NewInt(1)
	now := time.Now()

	for i := 0; i < recentClaimsCap+10; i++ {
		stats.RecordSuccess(amount, ClaimRecord{Wallet: fmt.Sprintf("nhb1wallet%d", i), Time: now})
	}

	snap := stats.Snapshot()
	if len(snap.Recent) != recentClaimsCap {
		t.Fatalf("expected recent log capped at %d, got %d", recentClaimsCap, len(snap.Recent))
	}
	if snap.Recent[0].Wallet != "nhb1wallet10" {
		t.Fatalf("expected oldest entries evicted, first is %s", snap.Recent[0].Wallet)
	}
	if snap.TotalClaims != uint64(recentClaimsCap+10) {
		t.Fatalf("totals must not shrink with the log, got %d", snap.TotalClaims)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	stats := NewStatsAggregator()
	stats.RecordSuccess(big.NewInt(5), ClaimRecord{Wallet: "nhb1walletx", Time: time.Now()})

	snap := stats.Snapshot()
	snap.Recent[0].Wallet = "mutated"
	snap.TotalDispensed.SetInt64(0)

	again := stats.Snapshot()
	if again.Recent[0].Wallet != "nhb1walletx" {
		t.Fatal("snapshot must not share the recent log")
	}
	if again.TotalDispensed.Cmp(big.NewInt(5)) != 0 {
		t.Fatal("snapshot must not share the dispensed total")
	}
}
