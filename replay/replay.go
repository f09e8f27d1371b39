package replay

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/alphabill-org/digitalcash/internal/logger"
	"github.com/alphabill-org/digitalcash/txsystem"
	"github.com/alphabill-org/digitalcash/txsystem/cash"
	"golang.org/x/sync/errgroup"
)

var (
	log = logger.CreateForPackage()

	ErrGenesisIsNil = errors.New("genesis state is nil")
	ErrNoReplicas   = errors.New("replica count must be positive")
	ErrDiverged     = errors.New("replicas diverged")
)

type (
	// Outcome describes what happened to a single transaction of the sequence.
	Outcome struct {
		Index  int
		Type   string
		TxHash []byte
		Err    error // nil when the transaction was applied
	}

	Result struct {
		State     *cash.State
		StateHash []byte
		Outcomes  []Outcome
		Stats     txsystem.Stats
	}
)

func (o Outcome) Accepted() bool {
	return o.Err == nil
}

func (o Outcome) String() string {
	if o.Err != nil {
		return fmt.Sprintf("#%d %s %X rejected: %v", o.Index, o.Type, o.TxHash, o.Err)
	}
	return fmt.Sprintf("#%d %s %X accepted", o.Index, o.Type, o.TxHash)
}

// Replay feeds txs in order through a transaction system started from genesis
// and commits the outcome. Rejected transactions are recorded in the result,
// they do not stop the replay.
func Replay(ctx context.Context, genesis *cash.State, txs []cash.Transaction, opts ...txsystem.Option) (*Result, error) {
	if genesis == nil {
		return nil, ErrGenesisIsNil
	}
	txSystem, err := txsystem.NewTxSystem(append([]txsystem.Option{txsystem.WithState(genesis)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction system: %w", err)
	}
	outcomes := make([]Outcome, 0, len(txs))
	for i, tx := range txs {
		if err := ctx.Err(); err != nil {
			txSystem.Revert()
			return nil, fmt.Errorf("replay stopped before transaction %d: %w", i, err)
		}
		o := Outcome{Index: i}
		if tx != nil {
			o.Type = tx.Type()
			if o.TxHash, err = cash.TransactionHash(tx, txSystem.HashAlgorithm()); err != nil {
				return nil, fmt.Errorf("transaction %d hash calculation failed: %w", i, err)
			}
		}
		o.Err = txSystem.Execute(tx)
		outcomes = append(outcomes, o)
	}
	txSystem.Commit()
	summary, err := txSystem.StateSummary()
	if err != nil {
		return nil, err
	}
	return &Result{
		State:     txSystem.Committed(),
		StateHash: summary.Root(),
		Outcomes:  outcomes,
		Stats:     txSystem.Stats(),
	}, nil
}

// VerifyReplicas replays the same sequence on n independent replicas
// concurrently and checks that all of them end in the same state. The result
// of the first replica is returned.
func VerifyReplicas(ctx context.Context, genesis *cash.State, txs []cash.Transaction, n int, opts ...txsystem.Option) (*Result, error) {
	if n < 1 {
		return nil, ErrNoReplicas
	}
	results := make([]*Result, n)
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i // copy value for closure
		g.Go(func() error {
			res, err := Replay(ctx, genesis, txs, opts...)
			if err != nil {
				return fmt.Errorf("replica %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	first := results[0]
	for i, res := range results[1:] {
		if !bytes.Equal(first.StateHash, res.StateHash) {
			return nil, fmt.Errorf("%w: replica %d state %X, replica 0 state %X", ErrDiverged, i+1, res.StateHash, first.StateHash)
		}
	}
	log.Debug("%d replicas converged to state %s", n, hex.EncodeToString(first.StateHash))
	return first, nil
}
