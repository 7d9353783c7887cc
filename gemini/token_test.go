package gemini_test

import (
	"context"
	"testing"

	"github.com/pinnacledb/qtd/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCounter_CountTokens(t *testing.T) {
	t.Parallel()

	tc, err := gemini.NewTokenCounter("gemini-2.0-flash")
	require.NoError(t, err)

	t.Run("counts tokens in text", func(t *testing.T) {
		t.Parallel()

		count, err := tc.CountTokens(context.Background(), "Hello, world!")
		require.NoError(t, err)
		assert.Positive(t, count)
	})

	t.Run("empty string returns zero", func(t *testing.T) {
		t.Parallel()

		count, err := tc.CountTokens(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("longer text returns more tokens", func(t *testing.T) {
		t.Parallel()

		short, err := tc.CountTokens(context.Background(), "Hello")
		require.NoError(t, err)
		long, err := tc.CountTokens(context.Background(), "Hello, this is a much longer question about installing SuperDuperDB on a fresh machine.")
		require.NoError(t, err)
		assert.Greater(t, long, short)
	})
}
