package cash

import (
	"bytes"
	"crypto"
	"fmt"
	"strings"

	iradix "github.com/hashicorp/go-immutable-radix"
	"github.com/holiman/uint256"
)

// State is the set of circulating bills plus the serial counter.
//
// Bills are kept in a persistent radix tree so Clone is O(1) and a clone never
// observes changes made to the original (or vice versa). A single State value
// is not safe for concurrent mutation, but clones can be handed to different
// goroutines freely.
type State struct {
	bills      *iradix.Tree
	nextSerial uint64
}

// NewState returns an empty state with the serial counter at zero.
func NewState() *State {
	return &State{bills: iradix.New()}
}

// NewStateFromBills bulk-imports bills in the given order. The serial counter
// is advanced once per inserted bill starting from zero, the Serial fields of
// the bills are not consulted. Use SetSerial afterwards when the imported
// serials do not form the sequence 0..n-1.
func NewStateFromBills(bills ...Bill) *State {
	s := NewState()
	txn := s.bills.Txn()
	for _, b := range bills {
		txn.Insert(b.key(), b)
	}
	s.bills = txn.Commit()
	s.nextSerial = uint64(len(bills))
	return s
}

// Insert adds the bill and advances the serial counter by one, whatever the
// serial of the bill is.
func (s *State) Insert(b Bill) {
	s.bills, _, _ = s.bills.Insert(b.key(), b)
	s.nextSerial++
}

// Remove removes an exact-match bill. Removing a bill that is not present is a no-op.
func (s *State) Remove(b Bill) {
	s.bills, _, _ = s.bills.Delete(b.key())
}

// Contains reports whether exactly this bill (owner, amount and serial) is circulating.
func (s *State) Contains(b Bill) bool {
	_, ok := s.bills.Get(b.key())
	return ok
}

// HasSerial reports whether any circulating bill carries the serial.
func (s *State) HasSerial(serial uint64) bool {
	found := false
	s.bills.Root().WalkPrefix(serialPrefix(serial), func(k []byte, v interface{}) bool {
		found = true
		return true
	})
	return found
}

func (s *State) NextSerial() uint64 {
	return s.nextSerial
}

// SetSerial overrides the serial counter. Meant for genesis and test fixtures only.
func (s *State) SetSerial(serial uint64) {
	s.nextSerial = serial
}

func (s *State) Len() int {
	return s.bills.Len()
}

// Clone returns an independent copy of the state.
func (s *State) Clone() *State {
	return &State{bills: s.bills, nextSerial: s.nextSerial}
}

// Bills returns the circulating bills ordered by serial, then amount, then owner.
func (s *State) Bills() []Bill {
	bills := make([]Bill, 0, s.bills.Len())
	s.bills.Root().Walk(func(k []byte, v interface{}) bool {
		bills = append(bills, v.(Bill))
		return false
	})
	return bills
}

// TotalValue returns the sum of all circulating bill amounts.
func (s *State) TotalValue() *uint256.Int {
	total := uint256.NewInt(0)
	s.bills.Root().Walk(func(k []byte, v interface{}) bool {
		total.Add(total, uint256.NewInt(v.(Bill).Amount))
		return false
	})
	return total
}

// Equal compares the bill sets and the serial counters of two states.
func (s *State) Equal(o *State) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.nextSerial != o.nextSerial || s.bills.Len() != o.bills.Len() {
		return false
	}
	if s.bills == o.bills {
		return true
	}
	ia := s.bills.Root().Iterator()
	ib := o.bills.Root().Iterator()
	for {
		ka, _, okA := ia.Next()
		kb, _, okB := ib.Next()
		if okA != okB {
			return false
		}
		if !okA {
			return true
		}
		if !bytes.Equal(ka, kb) {
			return false
		}
	}
}

type stateRecord struct {
	_          struct{} `cbor:",toarray"`
	NextSerial uint64
	Bills      []Bill
}

// Hash returns the digest of the canonical CBOR encoding of the state. Equal
// states produce equal digests.
func (s *State) Hash(hashAlgorithm crypto.Hash) ([]byte, error) {
	if !hashAlgorithm.Available() {
		return nil, fmt.Errorf("hash algorithm %v is not available", hashAlgorithm)
	}
	data, err := Cbor.Marshal(&stateRecord{NextSerial: s.nextSerial, Bills: s.Bills()})
	if err != nil {
		return nil, fmt.Errorf("state encode error: %w", err)
	}
	hasher := hashAlgorithm.New()
	hasher.Write(data)
	return hasher.Sum(nil), nil
}

func (s *State) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "next serial %d, bills [", s.nextSerial)
	for i, b := range s.Bills() {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(b.String())
	}
	sb.WriteString("]")
	return sb.String()
}
