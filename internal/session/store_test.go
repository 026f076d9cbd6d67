package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CreateGetDelete(t *testing.T) {
	st := NewStore(0)

	s := st.Create()
	require.NotEmpty(t, s.ID)
	assert.Equal(t, 1, st.Len())

	got, err := st.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = st.Get("unknown")
	assert.ErrorIs(t, err, ErrNotFound)

	st.Delete(s.ID)
	_, err = st.Get(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, st.Len())
}

func TestStore_SweepExpiresIdleSessions(t *testing.T) {
	st := NewStore(10 * time.Millisecond)

	idle := st.Create()
	busy := st.Create()
	require.NoError(t, busy.BeginRun())

	time.Sleep(20 * time.Millisecond)
	st.sweep()

	_, err := st.Get(idle.ID)
	assert.ErrorIs(t, err, ErrNotFound, "idle session past its ttl is reclaimed")

	_, err = st.Get(busy.ID)
	assert.NoError(t, err, "a session with a run in flight is never reclaimed")
}

func TestStore_SweepKeepsRecentlyTouched(t *testing.T) {
	st := NewStore(50 * time.Millisecond)

	s := st.Create()
	time.Sleep(30 * time.Millisecond)
	s.Snapshot() // touches lastAccess
	time.Sleep(30 * time.Millisecond)
	st.sweep()

	_, err := st.Get(s.ID)
	assert.NoError(t, err)
}
