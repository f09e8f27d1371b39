package cash

import "fmt"

// Apply computes the state that follows s after tx. On success the new state is
// returned and s is left untouched. On rejection s itself is returned together
// with the reason, no partial effect of tx is ever visible.
func Apply(s *State, tx Transaction) (*State, error) {
	switch t := tx.(type) {
	case *Mint:
		if t == nil {
			break
		}
		if err := ValidateMint(t); err != nil {
			return s, fmt.Errorf("mint validation error: %w", err)
		}
		return executeMint(s, t), nil
	case *Transfer:
		if t == nil {
			break
		}
		if err := ValidateTransfer(s, t); err != nil {
			return s, fmt.Errorf("transfer validation error: %w", err)
		}
		return executeTransfer(s, t), nil
	}
	return s, fmt.Errorf("%w: %T", ErrUnknownTransaction, tx)
}

// NextState is the total form of Apply: a rejected transaction yields the
// input state. Compare the result with s using Equal to find out whether tx
// changed anything.
func NextState(s *State, tx Transaction) *State {
	next, _ := Apply(s, tx)
	return next
}

func executeMint(s *State, tx *Mint) *State {
	next := s.Clone()
	next.Insert(Bill{Owner: tx.Minter, Amount: tx.Amount, Serial: next.NextSerial()})
	return next
}

func executeTransfer(s *State, tx *Transfer) *State {
	next := s.Clone()
	for _, b := range tx.Spends {
		next.Remove(b)
	}
	// receives carry their own (already validated) serials, insertion order
	// only drives the counter
	for _, b := range tx.Receives {
		next.Insert(b)
	}
	return next
}
