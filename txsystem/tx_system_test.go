package txsystem

import (
	"crypto"
	"testing"

	"github.com/alphabill-org/digitalcash/internal/logger"
	"github.com/alphabill-org/digitalcash/txsystem/cash"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func genesis() *cash.State {
	return cash.NewStateFromBills(
		cash.NewBill("Alice", 20, 0),
		cash.NewBill("Bob", 5, 1),
	)
}

func TestNewTxSystem(t *testing.T) {
	txs, err := NewTxSystem()
	require.NoError(t, err)
	require.Equal(t, crypto.SHA256, txs.HashAlgorithm())
	require.Zero(t, txs.State().Len())

	_, err = NewTxSystem(WithState(nil))
	require.ErrorIs(t, err, ErrStateIsNil)

	_, err = NewTxSystem(WithHashAlgorithm(crypto.Hash(0)))
	require.ErrorContains(t, err, "is not available")
}

func TestExecute_AcceptedAndRejected(t *testing.T) {
	txs, err := NewTxSystem(WithState(genesis()), WithLogger(logger.Create("tx_system_test")))
	require.NoError(t, err)

	require.NoError(t, txs.Execute(&cash.Mint{Minter: "Charlie", Amount: 7}))
	require.True(t, txs.State().Contains(cash.NewBill("Charlie", 7, 2)))

	before := txs.State()
	err = txs.Execute(&cash.Transfer{
		Spends:   []cash.Bill{cash.NewBill("Bob", 5, 1)},
		Receives: []cash.Bill{cash.NewBill("Alice", 6, 3)},
	})
	require.ErrorIs(t, err, cash.ErrReceiveExceedsSpend)
	require.ErrorContains(t, err, "invalid transaction: transfer validation error")
	require.Same(t, before, txs.State())

	require.NoError(t, txs.Execute(&cash.Transfer{
		Spends:   []cash.Bill{cash.NewBill("Bob", 5, 1)},
		Receives: []cash.Bill{cash.NewBill("Alice", 4, 3)},
	}))
	require.Equal(t, Stats{Accepted: 2, Rejected: 1}, txs.Stats())
	require.EqualValues(t, 4, txs.State().NextSerial())
}

func TestCommitAndRevert(t *testing.T) {
	g := genesis()
	txs, err := NewTxSystem(WithState(g))
	require.NoError(t, err)

	require.NoError(t, txs.Execute(&cash.Mint{Minter: "Alice", Amount: 1}))
	_, err = txs.StateSummary()
	require.ErrorIs(t, err, ErrStateContainsUncommittedChanges)

	txs.Revert()
	require.Same(t, g, txs.State())
	summary, err := txs.StateSummary()
	require.NoError(t, err)
	root, err := g.Hash(crypto.SHA256)
	require.NoError(t, err)
	require.Equal(t, root, summary.Root())

	require.NoError(t, txs.Execute(&cash.Mint{Minter: "Alice", Amount: 1}))
	pending, err := txs.EndBlock()
	require.NoError(t, err)
	txs.Commit()
	require.Same(t, txs.State(), txs.Committed())
	summary, err = txs.StateSummary()
	require.NoError(t, err)
	require.Equal(t, pending.Root(), summary.Root())
	require.NotEqual(t, root, summary.Root())
}

func TestStateSummary_Summary(t *testing.T) {
	txs, err := NewTxSystem(WithState(genesis()))
	require.NoError(t, err)
	summary, err := txs.StateSummary()
	require.NoError(t, err)
	require.Len(t, summary.Summary(), 32)
	require.Equal(t, uint256.NewInt(25), new(uint256.Int).SetBytes(summary.Summary()))

}

func TestRejectedTransactionLeavesCommittedStateSummaryAvailable(t *testing.T) {
	txs, err := NewTxSystem(WithState(genesis()))
	require.NoError(t, err)
	require.ErrorIs(t, txs.Execute(&cash.Mint{Minter: "Alice"}), cash.ErrZeroMint)
	_, err = txs.StateSummary()
	require.NoError(t, err)
}
