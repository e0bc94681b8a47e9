package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"nhbfaucet/crypto"
)

// TxType defines the purpose of a transaction.
type TxType byte

// TxTypeTransfer is a standard value transfer of NHB.
const TxTypeTransfer TxType = 0x01

const (
	transferGasLimit = 21000
	transferGasPrice = 1
)

// Transaction is the wire form the node expects from nhb_sendTransaction.
type Transaction struct {
	Type     TxType   `json:"type"`
	Nonce    uint64   `json:"nonce"`
	To       []byte   `json:"to"`
	Value    *big.Int `json:"value"`
	Data     []byte   `json:"data"`
	GasLimit uint64   `json:"gasLimit"`
	GasPrice *big.Int `json:"gasPrice"`

	R *big.Int `json:"r"`
	S *big.Int `json:"s"`
	V *big.Int `json:"v"`
}

// NewTransfer builds an unsigned value transfer to a recipient address.
func NewTransfer(to crypto.Address, amount *big.Int, nonce uint64) *Transaction {
	return &Transaction{
		Type:     TxTypeTransfer,
		Nonce:    nonce,
		To:       to.Bytes(),
		Value:    new(big.Int).Set(amount),
		GasLimit: transferGasLimit,
		GasPrice: big.NewInt(transferGasPrice),
	}
}

// Hash covers every field that is part of the signed payload. The signature
// fields are excluded.
func (tx *Transaction) Hash() ([]byte, error) {
	txData := struct {
		Type     TxType
		Nonce    uint64
		To       []byte
		Value    *big.Int
		Data     []byte
		GasLimit uint64
		GasPrice *big.Int
	}{tx.Type, tx.Nonce, tx.To, tx.Value, tx.Data, tx.GasLimit, tx.GasPrice}

	b, err := json.Marshal(txData)
	if err != nil {
		return nil, err
	}
	hash := sha256.Sum256(b)
	return hash[:], nil
}

// HashHex returns the 0x-prefixed hex form of the transaction hash.
func (tx *Transaction) HashHex() (string, error) {
	hash, err := tx.Hash()
	if err != nil {
		return "", err
	}
	return "0x" + hex.EncodeToString(hash), nil
}

func (tx *Transaction) Sign(key *crypto.PrivateKey) error {
	hash, err := tx.Hash()
	if err != nil {
		return err
	}
	sig, err := ethcrypto.Sign(hash, key.PrivateKey)
	if err != nil {
		return err
	}
	tx.R = new(big.Int).SetBytes(sig[:32])
	tx.S = new(big.Int).SetBytes(sig[32:64])
	tx.V = new(big.Int).SetBytes([]byte{sig[64] + 27})
	return nil
}
