package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/fabricwire/rewire/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore(t *testing.T) {
	s, err := New(Config{Path: ":memory:"})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Migrate())

	ctx := context.Background()

	t.Run("Health Check", func(t *testing.T) {
		assert.NoError(t, s.Health(ctx))
	})

	t.Run("Record and List Switches", func(t *testing.T) {
		now := time.Now().UTC().Truncate(time.Second)
		require.NoError(t, s.RecordSwitch(ctx, store.SwitchRecord{ID: 7, Tier: "core", NPorts: 32, CreatedAt: now}))
		require.NoError(t, s.RecordSwitch(ctx, store.SwitchRecord{ID: 8, Tier: "agg", NPorts: 48, CreatedAt: now}))

		switches, err := s.ListSwitches(ctx)
		require.NoError(t, err)
		require.Len(t, switches, 2)
		assert.Equal(t, 7, switches[0].ID)
		assert.Equal(t, "core", switches[0].Tier)
	})

	t.Run("Record Switch Upsert", func(t *testing.T) {
		now := time.Now().UTC().Truncate(time.Second)
		require.NoError(t, s.RecordSwitch(ctx, store.SwitchRecord{ID: 7, Tier: "core", NPorts: 64, CreatedAt: now}))

		switches, err := s.ListSwitches(ctx)
		require.NoError(t, err)
		for _, sw := range switches {
			if sw.ID == 7 {
				assert.Equal(t, 64, sw.NPorts)
			}
		}
	})

	t.Run("Record Link", func(t *testing.T) {
		require.NoError(t, s.RecordLink(ctx, store.LinkRecord{
			ID: "l1", A: 7, B: 8, Op: "connect", CreatedAt: time.Now().UTC(),
		}))
	})

	t.Run("Record and List Expansions", func(t *testing.T) {
		require.NoError(t, s.RecordExpansion(ctx, store.ExpansionRecord{
			ID: "e1", Level: "spine", NPorts: 5, NewSwitchID: 99, ActionCount: 3, CreatedAt: time.Now().UTC(),
		}))

		expansions, err := s.ListExpansions(ctx)
		require.NoError(t, err)
		require.Len(t, expansions, 1)
		assert.Equal(t, "e1", expansions[0].ID)
		assert.Equal(t, 3, expansions[0].ActionCount)
	})
}
