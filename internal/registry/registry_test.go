package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAssignsContextNameOnce(t *testing.T) {
	s := NewStore()

	name := s.Register("Counter_ab12cd34", "count", Default{Kind: KindNumber})
	assert.Equal(t, "CTX_Counter_ab12cd34", name)

	again := s.Register("Counter_ab12cd34", "step", Default{Kind: KindNumber, Number: 1})
	assert.Equal(t, name, again)
}

func TestRegisterIsIdempotent(t *testing.T) {
	s := NewStore()
	s.Register("Counter_ab12cd34", "count", Default{Kind: KindNumber, Number: 1})
	s.Register("Counter_ab12cd34", "count", Default{Kind: KindNumber, Number: 99})

	entry, ok := s.Lookup("Counter_ab12cd34")
	require.True(t, ok)
	assert.Equal(t, []string{"count"}, entry.VariableNames)
	assert.Equal(t, float64(1), entry.Defaults["count"].Number, "first default wins")
}

func TestFindOwnerOfFirstWins(t *testing.T) {
	s := NewStore()
	s.Register("First_aaaa1111", "shared", Default{})
	s.Register("Second_bbbb2222", "shared", Default{})

	owner, ok := s.FindOwnerOf("shared")
	require.True(t, ok)
	assert.Equal(t, "First_aaaa1111", owner)

	_, ok = s.FindOwnerOf("unknown")
	assert.False(t, ok)
}

func TestOwnerConflict(t *testing.T) {
	s := NewStore()
	s.Register("First_aaaa1111", "shared", Default{})

	other, conflict := s.OwnerConflict("Second_bbbb2222", "shared")
	assert.True(t, conflict)
	assert.Equal(t, "First_aaaa1111", other)

	_, conflict = s.OwnerConflict("First_aaaa1111", "shared")
	assert.False(t, conflict, "the owner itself is not a conflict")

	_, conflict = s.OwnerConflict("First_aaaa1111", "fresh")
	assert.False(t, conflict)
}

func TestResetForFileKeepsContextName(t *testing.T) {
	s := NewStore()
	first := s.Register("Counter_ab12cd34", "count", Default{Kind: KindNumber})
	s.Register("Other_ffff0000", "misc", Default{})

	s.ResetForFile("ab12cd34")

	_, ok := s.Lookup("Counter_ab12cd34")
	assert.False(t, ok, "reset entry should be empty")
	_, ok = s.FindOwnerOf("count")
	assert.False(t, ok, "reverse index should be pruned")
	_, ok = s.FindOwnerOf("misc")
	assert.True(t, ok, "other files untouched")

	again := s.Register("Counter_ab12cd34", "count", Default{Kind: KindNumber})
	assert.Equal(t, first, again, "context name survives the reset")
}

func TestSnapshotIsSortedAndSkipsEmpty(t *testing.T) {
	s := NewStore()
	s.Register("Zeta_cccc3333", "z", Default{})
	s.Register("Alpha_aaaa1111", "a", Default{})
	s.Register("Gone_bbbb2222", "g", Default{})
	s.ResetForFile("bbbb2222")

	snap := s.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "Alpha_aaaa1111", snap[0].ScopeKey)
	assert.Equal(t, "Zeta_cccc3333", snap[1].ScopeKey)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := NewStore()
	s.Register("Counter_ab12cd34", "count", Default{Kind: KindNumber})

	snap := s.Snapshot()
	snap[0].VariableNames[0] = "mutated"
	snap[0].Defaults["count"] = Default{Kind: KindString}

	entry, ok := s.Lookup("Counter_ab12cd34")
	require.True(t, ok)
	assert.Equal(t, []string{"count"}, entry.VariableNames)
	assert.Equal(t, KindNumber, entry.Defaults["count"].Kind)
}
