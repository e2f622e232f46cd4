package workflow

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func u64Ptr(v uint64) *uint64 { return &v }

func TestWorkflow(t *testing.T) {
	t.Run("selecting an asset advances", func(t *testing.T) {
		w := New()
		require.Equal(t, StepSelectAsset, w.Step())
		require.NoError(t, w.Select("asset-1"))
		require.Equal(t, StepConfigureTokens, w.Step())
		require.Equal(t, "asset-1", w.Form().AssetID)
	})

	t.Run("back keeps entered field values", func(t *testing.T) {
		w := New()
		require.NoError(t, w.Select("asset-1"))
		w.Update(FormUpdate{
			TokenName:   strPtr("Sky Fraction"),
			TokenSymbol: strPtr("SKYF"),
			TotalSupply: u64Ptr(250_000),
		})

		w.Back()
		require.Equal(t, StepSelectAsset, w.Step())

		form := w.Form()
		require.Equal(t, "Sky Fraction", form.TokenName)
		require.Equal(t, "SKYF", form.TokenSymbol)
		require.EqualValues(t, 250_000, form.TotalSupply)

		// moving forward again finds the form as it was left
		require.NoError(t, w.Select("asset-2"))
		require.Equal(t, "Sky Fraction", w.Form().TokenName)
	})

	t.Run("partial update leaves other fields alone", func(t *testing.T) {
		w := New()
		w.Update(FormUpdate{TokenName: strPtr("Only Name")})
		require.Equal(t, "Only Name", w.Form().TokenName)
		require.EqualValues(t, DefaultTotalSupply, w.Form().TotalSupply)
	})

	t.Run("complete returns the form and resets", func(t *testing.T) {
		w := New()
		require.NoError(t, w.Select("asset-1"))
		w.Update(FormUpdate{TokenName: strPtr("Sky Fraction")})

		form, err := w.Complete()
		require.NoError(t, err)
		require.Equal(t, "asset-1", form.AssetID)

		require.Equal(t, StepSelectAsset, w.Step())
		require.Empty(t, w.Form().TokenName)
		require.EqualValues(t, DefaultTotalSupply, w.Form().TotalSupply)
	})

	t.Run("complete without a selection fails", func(t *testing.T) {
		w := New()
		_, err := w.Complete()
		require.ErrorIs(t, err, ErrNoAssetSelected)
	})

	t.Run("empty asset id rejected", func(t *testing.T) {
		w := New()
		require.Error(t, w.Select(""))
		require.Equal(t, StepSelectAsset, w.Step())
	})
}

func TestSessions(t *testing.T) {
	s := NewSessions()

	id := s.Open()
	w, err := s.Get(id)
	require.NoError(t, err)
	require.NoError(t, w.Select("asset-1"))

	again, err := s.Get(id)
	require.NoError(t, err)
	require.Equal(t, StepConfigureTokens, again.Step())

	s.Close(id)
	_, err = s.Get(id)
	require.ErrorContains(t, err, "unknown workflow session")
}
