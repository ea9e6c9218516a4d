package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodePoolScanLegacyShape(t *testing.T) {
	var pool CodePool
	require.NoError(t, pool.Scan([]byte(`["CODE-A","CODE-B"]`)))

	require.Len(t, pool, 2)
	assert.Equal(t, "CODE-A", pool[0].Code)
	assert.False(t, pool[0].IsRedeemed)
	assert.Equal(t, 2, pool.Available())
}

func TestCodePoolScanObjectShape(t *testing.T) {
	var pool CodePool
	require.NoError(t, pool.Scan([]byte(`[{"code":"CODE-A","is_redeemed":true},{"code":"CODE-B","is_redeemed":false}]`)))

	require.Len(t, pool, 2)
	assert.True(t, pool[0].IsRedeemed)
	assert.Equal(t, 1, pool.Available())
}

func TestCodePoolScanInvalidShape(t *testing.T) {
	var pool CodePool
	err := pool.Scan([]byte(`{"not":"a pool"}`))
	require.ErrorIs(t, err, ErrInvalidCodePool)
}

func TestCodePoolValueNormalizes(t *testing.T) {
	var pool CodePool
	require.NoError(t, pool.Scan([]byte(`["CODE-A"]`)))

	value, err := pool.Value()
	require.NoError(t, err)

	// Legacy input is rewritten in the object shape.
	assert.JSONEq(t, `[{"code":"CODE-A","is_redeemed":false}]`, value.(string))
}

func TestCodePoolAllocate(t *testing.T) {
	pool := CodePool{
		{Code: "CODE-A", IsRedeemed: true},
		{Code: "CODE-B"},
		{Code: "CODE-C"},
	}

	codes, err := pool.Allocate(2)
	require.NoError(t, err)

	assert.Equal(t, []string{"CODE-B", "CODE-C"}, codes)
	assert.Equal(t, 0, pool.Available())

	_, err = pool.Allocate(1)
	require.Error(t, err)
}

func TestAssignmentStatusTransitions(t *testing.T) {
	assert.True(t, AssignmentStatusNew.CanTransition(AssignmentStatusSentToAdvisor))
	assert.True(t, AssignmentStatusSentToAdvisor.CanTransition(AssignmentStatusApproved))
	assert.True(t, AssignmentStatusApproved.CanTransition(AssignmentStatusRedeemed))

	// No skipping, no going back.
	assert.False(t, AssignmentStatusNew.CanTransition(AssignmentStatusApproved))
	assert.False(t, AssignmentStatusApproved.CanTransition(AssignmentStatusSentToAdvisor))
	assert.False(t, AssignmentStatusRedeemed.CanTransition(AssignmentStatusApproved))
}
