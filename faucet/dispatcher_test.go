package faucet

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nhbfaucet/crypto"
	"nhbfaucet/ledger"
)

func rpcNode(t *testing.T, delay time.Duration) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		var req struct {
			Method string `json:"method"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		switch req.Method {
		case "nhb_getBalance":
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"balanceNHB":100000000000000000,"nonce":0}}`))
		case "nhb_sendTransaction":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"jsonrpc": "2.0", "id": 1, "result": "0xdeadbeef",
			})
		default:
			t.Errorf("unexpected method %s", req.Method)
		}
	}))
}

func TestLedgerDispatcherSubmit(t *testing.T) {
	srv := rpcNode(t, 0)
	defer srv.Close()

	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	recipient := key.PubKey().Address()

	dispatcher := NewLedgerDispatcher(ledger.NewClient(srv.URL, ""), key, big.NewInt(1), time.Second)
	hash, err := dispatcher.Submit(context.Background(), recipient)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if hash != "0xdeadbeef" {
		t.Fatalf("expected node-reported hash, got %q", hash)
	}
}

func TestLedgerDispatcherTimeoutIsTransferFailure(t *testing.T) {
	srv := rpcNode(t, 2*time.Second)
	defer srv.Close()

	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	dispatcher := NewLedgerDispatcher(ledger.NewClient(srv.URL, ""), key, big.NewInt(1), 50*time.Millisecond)
	_, err = dispatcher.Submit(context.Background(), key.PubKey().Address())

	var failure *TransferFailure
	if !errors.As(err, &failure) {
		t.Fatalf("expected TransferFailure, got %v", err)
	}
	if failure.Reason != "confirmation timed out" {
		t.Fatalf("expected timeout reason, got %q", failure.Reason)
	}
}
