package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClearCmd(t *testing.T) {
	tests := []struct {
		source    string
		remaining []string
	}{
		{source: "tmdb", remaining: []string{"master_anime_2024-01-01_"}},
		{source: "jikan", remaining: []string{"master_movie_2024-01-01_"}},
		{source: "all", remaining: nil},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			c := newMemory(t)
			ctx := context.Background()
			require.NoError(t, c.Set(ctx, "master_movie_2024-01-01_", []byte("[]")))
			require.NoError(t, c.Set(ctx, "master_anime_2024-01-01_", []byte("[]")))

			cmd := &ClearCmd{Source: tt.source}
			require.NoError(t, cmd.Run(ctx, c))

			var remaining []string
			for _, key := range []string{"master_movie_2024-01-01_", "master_anime_2024-01-01_"} {
				if _, ok, _ := c.Get(ctx, key); ok {
					remaining = append(remaining, key)
				}
			}
			assert.Equal(t, tt.remaining, remaining)
		})
	}
}

func TestClearCmdRejectsUnknownSource(t *testing.T) {
	cmd := &ClearCmd{Source: "omdb"}
	err := cmd.Run(context.Background(), newMemory(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cache source")
}
