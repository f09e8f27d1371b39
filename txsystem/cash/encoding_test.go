package cash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCbor_StateRecord(t *testing.T) {
	s := NewStateFromBills(NewBill(bob, 5, 1), NewBill(alice, 20, 0))
	data, err := Cbor.Marshal(&stateRecord{NextSerial: s.NextSerial(), Bills: s.Bills()})
	require.NoError(t, err)
	// array of two: counter, bills
	require.EqualValues(t, 0x82, data[0])

	rec := &stateRecord{}
	require.NoError(t, Cbor.Unmarshal(data, rec))
	require.EqualValues(t, 2, rec.NextSerial)
	require.Equal(t, []Bill{NewBill(alice, 20, 0), NewBill(bob, 5, 1)}, rec.Bills)

	again, err := Cbor.Marshal(rec)
	require.NoError(t, err)
	require.Equal(t, data, again)
}

func TestCbor_TxRecord(t *testing.T) {
	tx := &Transfer{
		Spends:   []Bill{NewBill(alice, 20, 0)},
		Receives: []Bill{NewBill(bob, 15, 1), NewBill(charlie, 5, 2)},
	}
	data, err := Cbor.Marshal(&txRecord{Type: tx.Type(), Attributes: tx})
	require.NoError(t, err)

	rec := &struct {
		_          struct{} `cbor:",toarray"`
		Type       string
		Attributes Transfer
	}{}
	require.NoError(t, Cbor.Unmarshal(data, rec))
	require.Equal(t, TxTypeTransfer, rec.Type)
	require.Equal(t, *tx, rec.Attributes)
}

func TestCbor_DuplicateMapKeysRejected(t *testing.T) {
	var m map[uint64]uint64
	// {1: 1, 1: 2}
	require.Error(t, Cbor.Unmarshal([]byte{0xa2, 0x01, 0x01, 0x01, 0x02}, &m))
}
