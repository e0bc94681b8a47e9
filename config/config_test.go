package config

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faucet.toml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected default config file to be written: %v", err)
	}
	if cfg.ListenAddress != ":3004" {
		t.Fatalf("unexpected listen address %q", cfg.ListenAddress)
	}
	if cfg.CooldownHours != 24 {
		t.Fatalf("unexpected cooldown %d", cfg.CooldownHours)
	}

	amount, err := cfg.ClaimAmountWei()
	if err != nil {
		t.Fatalf("claim amount: %v", err)
	}
	want, _ := new(big.Int).SetString("10000000000000000", 10)
	if amount.Cmp(want) != 0 {
		t.Fatalf("expected default claim amount %s wei, got %s", want, amount)
	}

	// A second load round-trips the written file.
	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.ClaimAmount != cfg.ClaimAmount {
		t.Fatalf("reload mismatch: %q != %q", again.ClaimAmount, cfg.ClaimAmount)
	}
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faucet.toml")
	if err := os.WriteFile(path, []byte("ClaimAmount = \"0.5\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	amount, err := cfg.ClaimAmountWei()
	if err != nil {
		t.Fatalf("claim amount: %v", err)
	}
	want, _ := new(big.Int).SetString("500000000000000000", 10)
	if amount.Cmp(want) != 0 {
		t.Fatalf("expected 0.5 NHB in wei, got %s", amount)
	}
	if cfg.NodeRPCURL == "" || cfg.FeeReserve == "" {
		t.Fatal("expected unset fields to receive defaults")
	}
}

func TestLoadRejectsBadAmounts(t *testing.T) {
	cases := []string{
		"ClaimAmount = \"abc\"\n",
		"ClaimAmount = \"-0.01\"\n",
		"ClaimAmount = \"0.0000000000000000001\"\n",
		"FeeReserve = \"0\"\n",
	}
	for _, body := range cases {
		path := filepath.Join(t.TempDir(), "faucet.toml")
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Fatalf("expected %q to be rejected", body)
		}
	}
}
