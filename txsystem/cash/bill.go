package cash

import (
	"encoding/binary"
	"fmt"
)

const serialKeyLength = 8

type (
	// Identity is an opaque owner tag. Ownership is advisory metadata, it is
	// never verified by the transition function.
	Identity string

	// Bill is an indivisible value token. Two bills are equal iff all three fields match.
	Bill struct {
		_      struct{} `cbor:",toarray"`
		Owner  Identity `json:"owner" yaml:"owner"`
		Amount uint64   `json:"amount,string" yaml:"amount"`
		Serial uint64   `json:"serial,string" yaml:"serial"`
	}
)

// NewBill creates a bill with the given owner, amount and serial.
func NewBill(owner Identity, amount, serial uint64) Bill {
	return Bill{Owner: owner, Amount: amount, Serial: serial}
}

func (b Bill) String() string {
	return fmt.Sprintf("{%s %d #%d}", b.Owner, b.Amount, b.Serial)
}

// key returns the store key of the bill: serial and amount in big-endian
// followed by the owner bytes. The fixed-width serial prefix keeps all bills
// with the same serial next to each other in the tree.
func (b Bill) key() []byte {
	k := make([]byte, 2*serialKeyLength+len(b.Owner))
	binary.BigEndian.PutUint64(k, b.Serial)
	binary.BigEndian.PutUint64(k[serialKeyLength:], b.Amount)
	copy(k[2*serialKeyLength:], b.Owner)
	return k
}

func serialPrefix(serial uint64) []byte {
	p := make([]byte, serialKeyLength)
	binary.BigEndian.PutUint64(p, serial)
	return p
}
