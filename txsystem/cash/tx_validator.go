package cash

import (
	"errors"
	"fmt"
	"math"

	"github.com/holiman/uint256"
)

var (
	ErrUnknownTransaction  = errors.New("unknown transaction type")
	ErrZeroMint            = errors.New("mint amount is zero")
	ErrEmptyReceives       = errors.New("transfer has no receives")
	ErrReceiveExceedsSpend = errors.New("received value exceeds spent value")
	ErrUnknownSpend        = errors.New("spent bill is not circulating")
	ErrDuplicateSpend      = errors.New("bill is spent more than once")
	ErrZeroReceive         = errors.New("received bill amount is zero")
	ErrSerialReused        = errors.New("received bill serial is not fresh")
	ErrSerialOutOfRange    = errors.New("received bill serial is not below the serial counter")
)

// ValidateMint checks that the mint creates a bill of non-zero value.
func ValidateMint(tx *Mint) error {
	if tx.Amount == 0 {
		return ErrZeroMint
	}
	return nil
}

// ValidateTransfer checks tx against the pre-transition state s. Checks run in
// a fixed order and the first failing one is returned.
func ValidateTransfer(s *State, tx *Transfer) error {
	if len(tx.Receives) == 0 {
		return ErrEmptyReceives
	}
	spent, received := sumAmounts(tx.Spends), sumAmounts(tx.Receives)
	if received.Gt(spent) {
		return fmt.Errorf("%w: spent %d, received %d", ErrReceiveExceedsSpend, spent.ToBig(), received.ToBig())
	}
	if err := validateSpends(s, tx.Spends); err != nil {
		return err
	}
	for i, b := range tx.Receives {
		if b.Amount == 0 {
			return fmt.Errorf("%w: receive at index %d", ErrZeroReceive, i)
		}
	}
	return validateReceiveSerials(s, tx.Spends, tx.Receives)
}

func validateSpends(s *State, spends []Bill) error {
	seen := make(map[Bill]struct{}, len(spends))
	for i, b := range spends {
		if !s.Contains(b) {
			return fmt.Errorf("%w: spend %s at index %d", ErrUnknownSpend, b, i)
		}
		if _, ok := seen[b]; ok {
			return fmt.Errorf("%w: spend %s at index %d", ErrDuplicateSpend, b, i)
		}
		seen[b] = struct{}{}
	}
	return nil
}

// validateReceiveSerials rejects a receive whose serial belongs to a bill spent
// by the same transfer, to another receive, or to any circulating bill. Serials
// are retired once issued, so reusing the serial of a bill that this very
// transfer consumes is rejected as well.
//
// Every serial must also fall into the window [NextSerial, NextSerial+len(receives)).
// Serials below the counter have been issued before and may belong to spent
// bills, serials above the window are ones the counter has not reached yet.
func validateReceiveSerials(s *State, spends, receives []Bill) error {
	first := s.NextSerial()
	limit := first + uint64(len(receives))
	if limit < first {
		limit = math.MaxUint64
	}
	spent := make(map[uint64]struct{}, len(spends))
	for _, b := range spends {
		spent[b.Serial] = struct{}{}
	}
	fresh := make(map[uint64]struct{}, len(receives))
	for i, b := range receives {
		if _, ok := spent[b.Serial]; ok {
			return fmt.Errorf("%w: receive at index %d reuses spent serial %d", ErrSerialReused, i, b.Serial)
		}
		if _, ok := fresh[b.Serial]; ok {
			return fmt.Errorf("%w: receive at index %d repeats serial %d", ErrSerialReused, i, b.Serial)
		}
		if s.HasSerial(b.Serial) {
			return fmt.Errorf("%w: receive at index %d uses circulating serial %d", ErrSerialReused, i, b.Serial)
		}
		if b.Serial < first {
			return fmt.Errorf("%w: receive at index %d uses retired serial %d, next serial %d", ErrSerialReused, i, b.Serial, first)
		}
		if b.Serial >= limit {
			return fmt.Errorf("%w: receive at index %d has serial %d, counter after transfer %d", ErrSerialOutOfRange, i, b.Serial, limit)
		}
		fresh[b.Serial] = struct{}{}
	}
	return nil
}

func sumAmounts(bills []Bill) *uint256.Int {
	sum := uint256.NewInt(0)
	for _, b := range bills {
		sum.Add(sum, uint256.NewInt(b.Amount))
	}
	return sum
}
