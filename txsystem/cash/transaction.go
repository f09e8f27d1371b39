package cash

import (
	"crypto"
	"fmt"
)

const (
	TxTypeMint     = "mint"
	TxTypeTransfer = "transfer"
)

type (
	// Transaction is either *Mint or *Transfer.
	Transaction interface {
		Type() string
		transaction()
	}

	// Mint creates exactly one new bill owned by the minter.
	Mint struct {
		_      struct{} `cbor:",toarray"`
		Minter Identity `json:"minter" yaml:"minter"`
		Amount uint64   `json:"amount,string" yaml:"amount"`
	}

	// Transfer consumes Spends and creates Receives. Spends and receives need
	// not share an owner. Whatever the receives do not claim of the spent value
	// is destroyed, so there is no separate burn transaction.
	Transfer struct {
		_        struct{} `cbor:",toarray"`
		Spends   []Bill   `json:"spends" yaml:"spends"`
		Receives []Bill   `json:"receives" yaml:"receives"`
	}

	txRecord struct {
		_          struct{} `cbor:",toarray"`
		Type       string
		Attributes any
	}
)

func (*Mint) Type() string     { return TxTypeMint }
func (*Transfer) Type() string { return TxTypeTransfer }

func (*Mint) transaction()     {}
func (*Transfer) transaction() {}

// TransactionHash returns the digest of the canonical CBOR encoding of tx.
func TransactionHash(tx Transaction, hashAlgorithm crypto.Hash) ([]byte, error) {
	if tx == nil {
		return nil, ErrUnknownTransaction
	}
	if !hashAlgorithm.Available() {
		return nil, fmt.Errorf("hash algorithm %v is not available", hashAlgorithm)
	}
	data, err := Cbor.Marshal(&txRecord{Type: tx.Type(), Attributes: tx})
	if err != nil {
		return nil, fmt.Errorf("transaction encode error: %w", err)
	}
	hasher := hashAlgorithm.New()
	hasher.Write(data)
	return hasher.Sum(nil), nil
}
