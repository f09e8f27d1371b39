package txsystem

import (
	"crypto"
	"errors"
	"fmt"
	"sync"

	"github.com/alphabill-org/digitalcash/internal/logger"
	"github.com/alphabill-org/digitalcash/txsystem/cash"
	"github.com/holiman/uint256"
)

var (
	log = logger.CreateForPackage()

	ErrStateIsNil                      = errors.New("state is nil")
	ErrStateContainsUncommittedChanges = errors.New("state contains uncommitted changes")
)

type (
	// StateSummary represents the root hash and summary value of the transaction system.
	StateSummary interface {
		Root() []byte
		Summary() []byte
	}

	stateSummary struct {
		rootHash   []byte
		totalValue *uint256.Int
	}

	// Stats counts the transactions seen by the transaction system since it was created.
	Stats struct {
		Accepted uint64
		Rejected uint64
	}

	// TxSystem owns the committed ledger state and the pending state built on
	// top of it by Execute calls. Execute, Commit and Revert follow the block
	// life cycle: transactions of a block are executed one by one, then the
	// block is either committed or reverted as a whole.
	TxSystem struct {
		mu            sync.RWMutex
		hashAlgorithm crypto.Hash
		committed     *cash.State
		pending       *cash.State
		log           logger.Logger
		stats         Stats
	}
)

func NewTxSystem(opts ...Option) (*TxSystem, error) {
	options := DefaultOptions()
	for _, option := range opts {
		option(options)
	}
	if options.state == nil {
		return nil, ErrStateIsNil
	}
	if !options.hashAlgorithm.Available() {
		return nil, fmt.Errorf("hash algorithm %v is not available", options.hashAlgorithm)
	}
	return &TxSystem{
		hashAlgorithm: options.hashAlgorithm,
		committed:     options.state,
		pending:       options.state,
		log:           options.log,
	}, nil
}

// Execute applies tx to the pending state. A rejected transaction leaves the
// pending state as it was.
func (m *TxSystem) Execute(tx cash.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := cash.Apply(m.pending, tx)
	if err != nil {
		m.stats.Rejected++
		m.log.Debug("transaction rejected: %v", err)
		return fmt.Errorf("invalid transaction: %w", err)
	}
	m.pending = next
	m.stats.Accepted++
	m.log.Trace("%s accepted, next serial %d", tx.Type(), next.NextSerial())
	return nil
}

// State returns the pending state. States are immutable, the caller may keep
// the returned value around.
func (m *TxSystem) State() *cash.State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pending
}

// Committed returns the last committed state.
func (m *TxSystem) Committed() *cash.State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.committed
}

// Commit makes the pending state the committed one.
func (m *TxSystem) Commit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.committed = m.pending
}

// Revert drops every change made since the last Commit.
func (m *TxSystem) Revert() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = m.committed
}

// EndBlock returns the summary of the pending state.
func (m *TxSystem) EndBlock() (StateSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.summarize(m.pending)
}

// StateSummary returns the summary of the committed state. It fails while
// executed transactions wait for Commit or Revert.
func (m *TxSystem) StateSummary() (StateSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.pending != m.committed {
		return nil, ErrStateContainsUncommittedChanges
	}
	return m.summarize(m.committed)
}

func (m *TxSystem) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats
}

func (m *TxSystem) HashAlgorithm() crypto.Hash {
	return m.hashAlgorithm
}

func (m *TxSystem) summarize(s *cash.State) (StateSummary, error) {
	root, err := s.Hash(m.hashAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("state hash calculation failed: %w", err)
	}
	return &stateSummary{
		rootHash:   root,
		totalValue: s.TotalValue(),
	}, nil
}

func (s *stateSummary) Root() []byte {
	return s.rootHash
}

// Summary is the total value of all bills as a 32 byte big-endian number.
func (s *stateSummary) Summary() []byte {
	b := s.totalValue.Bytes32()
	return b[:]
}
