package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileLoaderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.session")
	loader := NewFromFile(path)

	_, err := loader.Load()
	require.Error(t, err, "loading a missing session must fail")

	want := &Session{Offset: 4242, BotID: 99}
	require.NoError(t, loader.Store(want))

	got, err := loader.Load()
	require.NoError(t, err)
	require.Equal(t, want.Offset, got.Offset)
	require.Equal(t, want.BotID, got.BotID)

	// A fresh loader must read the same file back.
	got, err = NewFromFile(path).Load()
	require.NoError(t, err)
	require.Equal(t, int64(4242), got.Offset)

	require.NoError(t, loader.Delete())
	_, err = loader.Load()
	require.Error(t, err)
}

func TestInMemoryLoader(t *testing.T) {
	loader := NewInMemory()

	got, err := loader.Load()
	require.NoError(t, err)
	require.Nil(t, got)

	require.NoError(t, loader.Store(&Session{Offset: 7}))
	got, err = loader.Load()
	require.NoError(t, err)
	require.Equal(t, int64(7), got.Offset)

	require.NoError(t, loader.Delete())
	got, err = loader.Load()
	require.NoError(t, err)
	require.Nil(t, got)
}
