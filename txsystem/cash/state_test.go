package cash

import (
	"crypto"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewState(t *testing.T) {
	s := NewState()
	require.Zero(t, s.NextSerial())
	require.Zero(t, s.Len())
	require.Empty(t, s.Bills())
	require.True(t, s.TotalValue().IsZero())
}

func TestState_Insert(t *testing.T) {
	s := NewState()
	s.Insert(NewBill(alice, 5, 10))
	require.EqualValues(t, 1, s.NextSerial(), "counter counts insertions, not serials")
	require.True(t, s.Contains(NewBill(alice, 5, 10)))

	// inserting an identical bill keeps the set unchanged but still moves the counter
	s.Insert(NewBill(alice, 5, 10))
	require.Equal(t, 1, s.Len())
	require.EqualValues(t, 2, s.NextSerial())
}

func TestState_Remove(t *testing.T) {
	s := NewStateFromBills(NewBill(alice, 5, 0), NewBill(bob, 6, 1))
	s.Remove(NewBill(alice, 6, 0))
	require.Equal(t, 2, s.Len(), "inexact match must not be removed")
	s.Remove(NewBill(alice, 5, 0))
	require.Equal(t, 1, s.Len())
	require.False(t, s.Contains(NewBill(alice, 5, 0)))
	s.Remove(NewBill(alice, 5, 0))
	require.Equal(t, 1, s.Len())
	require.EqualValues(t, 2, s.NextSerial(), "removal never moves the counter")
}

func TestState_Contains(t *testing.T) {
	s := NewStateFromBills(NewBill(alice, 20, 0))
	require.True(t, s.Contains(NewBill(alice, 20, 0)))
	require.False(t, s.Contains(NewBill(bob, 20, 0)))
	require.False(t, s.Contains(NewBill(alice, 21, 0)))
	require.False(t, s.Contains(NewBill(alice, 20, 1)))
}

func TestState_HasSerial(t *testing.T) {
	s := NewStateFromBills(NewBill(alice, 20, 0), NewBill(bob, 1, 256), NewBill(bob, 1, math.MaxUint64))
	require.True(t, s.HasSerial(0))
	require.True(t, s.HasSerial(256))
	require.True(t, s.HasSerial(math.MaxUint64))
	require.False(t, s.HasSerial(1))
	require.False(t, s.HasSerial(255))
}

func TestNewStateFromBills_CounterByInsertionCount(t *testing.T) {
	s := NewStateFromBills(NewBill(charlie, 68, 54), NewBill(alice, 4000, 58))
	require.EqualValues(t, 2, s.NextSerial())
	s.SetSerial(59)
	require.EqualValues(t, 59, s.NextSerial())
}

func TestState_Clone(t *testing.T) {
	s := NewStateFromBills(NewBill(alice, 20, 0))
	c := s.Clone()
	c.Insert(NewBill(bob, 1, 1))
	c.Remove(NewBill(alice, 20, 0))

	require.True(t, s.Contains(NewBill(alice, 20, 0)))
	require.False(t, s.Contains(NewBill(bob, 1, 1)))
	require.EqualValues(t, 1, s.NextSerial())
	require.EqualValues(t, 2, c.NextSerial())
	require.False(t, s.Equal(c))
}

func TestState_Equal(t *testing.T) {
	a := NewStateFromBills(NewBill(alice, 1, 0), NewBill(bob, 2, 1))
	b := NewStateFromBills(NewBill(bob, 2, 1), NewBill(alice, 1, 0))
	require.True(t, a.Equal(b), "insertion order must not matter")
	require.True(t, a.Equal(a.Clone()))

	b.SetSerial(3)
	require.False(t, a.Equal(b), "counter is part of the state")

	c := NewStateFromBills(NewBill(alice, 1, 0), NewBill(bob, 3, 1))
	require.False(t, a.Equal(c))

	var nilState *State
	require.True(t, nilState.Equal(nil))
	require.False(t, a.Equal(nil))
	require.False(t, nilState.Equal(a))
}

func TestState_Bills(t *testing.T) {
	s := NewStateFromBills(NewBill(charlie, 3, 300), NewBill(alice, 1, 2), NewBill(bob, 2, 1))
	require.Equal(t, []Bill{NewBill(bob, 2, 1), NewBill(alice, 1, 2), NewBill(charlie, 3, 300)}, s.Bills())
}

func TestState_TotalValue(t *testing.T) {
	s := NewStateFromBills(NewBill(alice, math.MaxUint64, 0), NewBill(bob, 2, 1))
	require.False(t, s.TotalValue().IsUint64())
	require.Equal(t, "18446744073709551617", s.TotalValue().ToBig().String())
}

func TestState_Hash(t *testing.T) {
	a := NewStateFromBills(NewBill(alice, 1, 0), NewBill(bob, 2, 1))
	b := NewStateFromBills(NewBill(bob, 2, 1), NewBill(alice, 1, 0))
	ha, err := a.Hash(crypto.SHA256)
	require.NoError(t, err)
	require.Len(t, ha, crypto.SHA256.Size())
	hb, err := b.Hash(crypto.SHA256)
	require.NoError(t, err)
	require.Equal(t, ha, hb)

	b.SetSerial(5)
	hb, err = b.Hash(crypto.SHA256)
	require.NoError(t, err)
	require.NotEqual(t, ha, hb)

	_, err = a.Hash(crypto.Hash(0))
	require.ErrorContains(t, err, "not available")
}

func TestState_String(t *testing.T) {
	s := NewStateFromBills(NewBill(alice, 20, 0), NewBill(bob, 1, 1))
	require.Equal(t, "next serial 2, bills [{Alice 20 #0} {Bob 1 #1}]", s.String())
}
