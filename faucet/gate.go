package faucet

import (
	"context"
	"math/big"
)

// BalanceReader answers confirmed-balance queries against the external
// ledger.
type BalanceReader interface {
	Balance(ctx context.Context, addr string) (*big.Int, error)
}

// BalanceGate decides whether a claim of the fixed amount may proceed. The
// fee reserve is a fixed safety margin, not a fee estimate; it is always
// added so a transfer can never drain the account below what its own fee
// needs.
type BalanceGate struct {
	reader      BalanceReader
	account     string
	claimAmount *big.Int
	feeReserve  *big.Int
}

func NewBalanceGate(reader BalanceReader, account string, claimAmount, feeReserve *big.Int) *BalanceGate {
	return &BalanceGate{
		reader:      reader,
		account:     account,
		claimAmount: new(big.Int).Set(claimAmount),
		feeReserve:  new(big.Int).Set(feeReserve),
	}
}

// Admit reports whether balance >= claimAmount + feeReserve at read time.
// The read is advisory: without external serialization the balance can move
// between this check and the transfer, which is why the orchestrator holds
// the dispatch lock across both.
func (g *BalanceGate) Admit(ctx context.Context) (bool, error) {
	balance, err := g.reader.Balance(ctx, g.account)
	if err != nil {
		return false, err
	}
	required := new(big.Int).Add(g.claimAmount, g.feeReserve)
	return balance.Cmp(required) >= 0, nil
}
