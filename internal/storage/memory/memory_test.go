package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finbot/internal/core"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Load(ctx)
	assert.True(t, errors.Is(err, core.ErrNotFound))

	snap := core.NewDefaultSnapshot()
	require.NoError(t, s.Save(ctx, snap))
	snap.Budgets["groceries"] = 1

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 300.0, got.Budgets["groceries"], "store must keep its own copy")
	assert.Equal(t, 1, s.Saves())
}
