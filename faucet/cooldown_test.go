package faucet

import (
	"testing"
	"time"
)

func TestCooldownEligibilityBoundary(t *testing.T) {
	ledger := NewCooldownLedger(24 * time.Hour)
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	addr := "nhb1testaddress"

	eligible, _ := ledger.CheckEligible(addr, start)
	if !eligible {
		t.Fatal("address with no prior claim must be eligible")
	}

	ledger.RecordClaim(addr, start)

	eligible, hours := ledger.CheckEligible(addr, start.Add(time.Minute))
	if eligible {
		t.Fatal("claim inside the window must be ineligible")
	}
	if hours != 24 {
		t.Fatalf("expected 24 hours remaining right after a claim, got %d", hours)
	}

	eligible, hours = ledger.CheckEligible(addr, start.Add(23*time.Hour))
	if eligible {
		t.Fatal("one hour before expiry must still be ineligible")
	}
	if hours != 1 {
		t.Fatalf("expected 1 hour remaining, got %d", hours)
	}

	// Eligibility flips exactly at lastClaim + window.
	if eligible, _ = ledger.CheckEligible(addr, start.Add(24*time.Hour-time.Nanosecond)); eligible {
		t.Fatal("just before the window elapses must be ineligible")
	}
	if eligible, _ = ledger.CheckEligible(addr, start.Add(24*time.Hour)); !eligible {
		t.Fatal("exactly at the window boundary must be eligible")
	}
}

func TestCooldownRecordOverwrites(t *testing.T) {
	ledger := NewCooldownLedger(24 * time.Hour)
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	addr := "nhb1testaddress"

	ledger.RecordClaim(addr, start)
	ledger.RecordClaim(addr, start.Add(30*time.Hour))

	if eligible, _ := ledger.CheckEligible(addr, start.Add(31*time.Hour)); eligible {
		t.Fatal("second claim must restart the window")
	}
	if eligible, _ := ledger.CheckEligible(addr, start.Add(54*time.Hour)); !eligible {
		t.Fatal("window from the second claim must expire on schedule")
	}
}

func TestCooldownHoursRemainingCeiling(t *testing.T) {
	ledger := NewCooldownLedger(24 * time.Hour)
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	addr := "nhb1testaddress"
	ledger.RecordClaim(addr, start)

	// 23.5h elapsed leaves 0.5h: reported as 1.
	_, hours := ledger.CheckEligible(addr, start.Add(23*time.Hour+30*time.Minute))
	if hours != 1 {
		t.Fatalf("expected fractional remainder to round up to 1, got %d", hours)
	}
}
