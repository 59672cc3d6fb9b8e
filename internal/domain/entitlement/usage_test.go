//go:build unit

package entitlement_test

import (
	"testing"

	"reservation-engine/internal/domain/entitlement"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUsage(t *testing.T, original int) *entitlement.Usage {
	t.Helper()
	u, err := entitlement.NewUsage(uuid.New(), uuid.New(), original)
	require.NoError(t, err)
	return u
}

func assertBalanced(t *testing.T, u *entitlement.Usage) {
	t.Helper()
	assert.Equal(t, u.Original(), u.Remaining()+u.Used())
	assert.GreaterOrEqual(t, u.Remaining(), 0)
	assert.GreaterOrEqual(t, u.Used(), 0)
}

func TestUsage_Quote(t *testing.T) {
	u := newUsage(t, 2)

	testCases := []struct {
		name      string
		requested int
		covered   int
		uncovered int
	}{
		{name: "fully covered", requested: 1, covered: 1, uncovered: 0},
		{name: "exactly remaining", requested: 2, covered: 2, uncovered: 0},
		{name: "partially covered", requested: 3, covered: 2, uncovered: 1},
		{name: "negative request", requested: -1, covered: 0, uncovered: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := u.Quote(tc.requested)
			assert.Equal(t, tc.covered, c.Covered)
			assert.Equal(t, 2, c.Remaining)
			assert.Equal(t, tc.uncovered, c.Uncovered(tc.requested))
		})
	}

	assert.Equal(t, 2, u.Remaining(), "quote must not mutate")
}

func TestUsage_Commit(t *testing.T) {
	t.Run("success: moves remaining to used", func(t *testing.T) {
		u := newUsage(t, 2)

		require.NoError(t, u.Commit(2))

		assert.Zero(t, u.Remaining())
		assert.Equal(t, 2, u.Used())
		assertBalanced(t, u)
	})

	t.Run("zero commit is a no-op", func(t *testing.T) {
		u := newUsage(t, 2)
		require.NoError(t, u.Commit(0))
		assert.Equal(t, 2, u.Remaining())
	})

	t.Run("error: more than remaining", func(t *testing.T) {
		u := newUsage(t, 2)
		require.NoError(t, u.Commit(1))

		err := u.Commit(2)

		require.ErrorIs(t, err, entitlement.ErrInsufficientRemaining)
		var remErr *entitlement.InsufficientRemainingError
		require.ErrorAs(t, err, &remErr)
		assert.Equal(t, 1, remErr.Remaining)
		assert.Equal(t, 1, u.Remaining(), "failed commit must not mutate")
		assertBalanced(t, u)
	})

	t.Run("error: negative", func(t *testing.T) {
		u := newUsage(t, 2)
		assert.ErrorIs(t, u.Commit(-1), entitlement.ErrInvalidQuantity)
	})
}

func TestUsage_Restore(t *testing.T) {
	u := newUsage(t, 3)
	require.NoError(t, u.Commit(2))

	require.NoError(t, u.Restore(2))
	assert.Equal(t, 3, u.Remaining())
	assertBalanced(t, u)

	require.NoError(t, u.Restore(2))
	assert.Equal(t, 3, u.Remaining(), "restore saturates at original balance")
	assertBalanced(t, u)
}

func TestReconstructUsage(t *testing.T) {
	_, err := entitlement.ReconstructUsage(uuid.New(), uuid.New(), 5, 3, 2)
	assert.NoError(t, err)

	_, err = entitlement.ReconstructUsage(uuid.New(), uuid.New(), 5, 3, 3)
	assert.ErrorIs(t, err, entitlement.ErrInvalidCounters)

	_, err = entitlement.ReconstructUsage(uuid.New(), uuid.New(), 5, -1, 6)
	assert.ErrorIs(t, err, entitlement.ErrInvalidCounters)
}
