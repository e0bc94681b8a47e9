package faucet

import (
	"context"
	"math/big"
	"time"

	"nhbfaucet/crypto"
	"nhbfaucet/ledger"
)

// DefaultConfirmTimeout bounds how long a single dispatch waits for the node
// to accept a transfer.
const DefaultConfirmTimeout = 15 * time.Second

// TransferDispatcher submits one fixed-size value transfer to the external
// ledger and reports the transaction hash. Implementations never retry; a
// retry after an ambiguous failure could dispense twice.
type TransferDispatcher interface {
	Submit(ctx context.Context, to crypto.Address) (string, error)
}

// LedgerDispatcher signs with the dispensing key and submits through the
// node client.
type LedgerDispatcher struct {
	client  *ledger.Client
	key     *crypto.PrivateKey
	amount  *big.Int
	timeout time.Duration
}

func NewLedgerDispatcher(client *ledger.Client, key *crypto.PrivateKey, amount *big.Int, timeout time.Duration) *LedgerDispatcher {
	if timeout <= 0 {
		timeout = DefaultConfirmTimeout
	}
	return &LedgerDispatcher{
		client:  client,
		key:     key,
		amount:  new(big.Int).Set(amount),
		timeout: timeout,
	}
}

// Submit sends the fixed amount to the recipient. Any failure, including a
// confirmation timeout, comes back as a TransferFailure; a timed-out
// submission may or may not have landed, and treating it as failed risks an
// under-count but never a double dispense.
func (d *LedgerDispatcher) Submit(ctx context.Context, to crypto.Address) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	hash, err := d.client.SubmitTransfer(ctx, d.key, to, d.amount)
	if err != nil {
		reason := "submission rejected"
		if ctx.Err() != nil {
			reason = "confirmation timed out"
		}
		return "", &TransferFailure{Reason: reason, Err: err}
	}
	return hash, nil
}
