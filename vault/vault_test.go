package vault

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTransitionTo(t *testing.T) {
	t.Run("full forward lifecycle", func(t *testing.T) {
		v := New("asset-1", "mint-1", "auth-1", 1_000_000)
		require.Equal(t, StatusActive, v.Status)
		require.NoError(t, v.TransitionTo(StatusRedeemable))
		require.NoError(t, v.TransitionTo(StatusClosed))
	})

	t.Run("skipping a stage forward is allowed", func(t *testing.T) {
		v := New("asset-1", "mint-1", "auth-1", 1_000_000)
		require.NoError(t, v.TransitionTo(StatusClosed))
	})

	t.Run("regression rejected", func(t *testing.T) {
		v := New("asset-1", "mint-1", "auth-1", 1_000_000)
		require.NoError(t, v.TransitionTo(StatusClosed))
		require.ErrorIs(t, v.TransitionTo(StatusActive), ErrStatusRegression)
		require.Equal(t, StatusClosed, v.Status)
	})

	t.Run("self transition keeps status", func(t *testing.T) {
		v := New("asset-1", "mint-1", "auth-1", 1_000_000)
		require.NoError(t, v.TransitionTo(StatusActive))
		require.Equal(t, StatusActive, v.Status)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		v := New("asset-1", "mint-1", "auth-1", 1_000_000)
		require.ErrorContains(t, v.TransitionTo(Status("frozen")), "unknown vault status")
	})
}

func TestPosition(t *testing.T) {
	v := New("asset-1", "mint-1", "auth-1", 1_000_000)

	t.Run("below reclaim threshold", func(t *testing.T) {
		p := v.Position(799_999)
		require.InDelta(t, 79.9999, p.SharePercentage, 0.001)
		require.False(t, p.CanReclaim)
	})

	t.Run("at reclaim threshold", func(t *testing.T) {
		p := v.Position(800_000)
		require.True(t, p.CanReclaim)
	})

	t.Run("huge supplies do not overflow the threshold check", func(t *testing.T) {
		big := New("asset-2", "mint-2", "auth-1", 10_000_000_000_000_000_000)

		p := big.Position(8_000_000_000_000_000_000)
		require.True(t, p.CanReclaim)

		p = big.Position(7_999_999_999_999_999_999)
		require.False(t, p.CanReclaim)
	})

	t.Run("zero supply yields empty position", func(t *testing.T) {
		empty := &Vault{ID: "v"}
		p := empty.Position(10)
		require.Zero(t, p.SharePercentage)
		require.False(t, p.CanReclaim)
	})
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	t.Run("get unknown id", func(t *testing.T) {
		_, err := reg.Get("missing")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list newest first and filter by status", func(t *testing.T) {
		older := New("asset-1", "mint-1", "auth", 100)
		older.CreatedAt = older.CreatedAt.Add(-time.Hour)
		newer := New("asset-2", "mint-2", "auth", 100)
		require.NoError(t, newer.TransitionTo(StatusRedeemable))

		reg.Put(older)
		reg.Put(newer)

		all := reg.List()
		require.Len(t, all, 2)
		require.Equal(t, newer.ID, all[0].ID)

		redeemable := reg.ListByStatus(StatusRedeemable)
		require.Len(t, redeemable, 1)
		require.Equal(t, newer.ID, redeemable[0].ID)

		got, err := reg.Get(older.ID)
		require.NoError(t, err)
		require.Equal(t, "asset-1", got.AssetID)
	})
}
