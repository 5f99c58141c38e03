package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_SingleLiveSession(t *testing.T) {
	m := NewManager()

	first, _, err := m.Create("case-1", "Jane Doe", "owner-1")
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	_, _, err = m.Create("case-2", "John Roe", "owner-1")
	assert.ErrorIs(t, err, ErrSessionActive, "a second live session must be rejected")

	close(first.done)
	first.finish(StateCancelled, nil, "")

	second, _, err := m.Create("case-2", "John Roe", "owner-1")
	require.NoError(t, err, "a terminal session must not block new ones")
	assert.NotEqual(t, first.ID, second.ID)
	close(second.done)
	second.finish(StateCancelled, nil, "")
}

func TestManager_GetAndActive(t *testing.T) {
	m := NewManager()

	assert.Nil(t, m.Get("missing"))
	assert.Nil(t, m.Active())

	sess, _, err := m.Create("case-1", "Jane Doe", "owner-1")
	require.NoError(t, err)

	assert.Same(t, sess, m.Get(sess.ID))
	assert.Same(t, sess, m.Active())

	close(sess.done)
	sess.finish(StateFailed, nil, "backend down")

	// Terminal sessions stay retrievable for status queries.
	assert.Same(t, sess, m.Get(sess.ID))
	assert.Nil(t, m.Active(), "a terminal session is no longer the live one")
}

func TestManager_Delete(t *testing.T) {
	m := NewManager()

	sess, _, err := m.Create("case-1", "Jane Doe", "owner-1")
	require.NoError(t, err)
	close(sess.done)
	sess.finish(StateCancelled, nil, "")

	m.Delete(sess.ID)
	assert.Nil(t, m.Get(sess.ID))
}
