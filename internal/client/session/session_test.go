package session

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaanbaran/libraryapp/internal/client/cache"
)

func setupCache(t *testing.T) *cache.Cache {
	t.Helper()
	path := fmt.Sprintf("./test_%s.db", t.Name())
	c, err := cache.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = c.Close()
		_ = os.Remove(path)
	})
	return c
}

func TestSessionStoreAndClear(t *testing.T) {
	c := setupCache(t)

	s, err := NewSession(c)
	require.NoError(t, err)
	assert.False(t, s.IsLoggedIn())
	assert.Empty(t, s.Token())
	assert.Empty(t, s.CurrentUserID())

	require.NoError(t, s.Store("tok-123", "user-1"))
	assert.True(t, s.IsLoggedIn())
	assert.Equal(t, "tok-123", s.Token())
	assert.Equal(t, "user-1", s.CurrentUserID())

	s.Clear()
	assert.False(t, s.IsLoggedIn())
	assert.Empty(t, s.Token())
	assert.Empty(t, s.CurrentUserID())
}

func TestSessionLoadsPersistedCredentials(t *testing.T) {
	c := setupCache(t)

	first, err := NewSession(c)
	require.NoError(t, err)
	require.NoError(t, first.Store("tok-abc", "user-7"))

	second, err := NewSession(c)
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", second.Token())
	assert.Equal(t, "user-7", second.CurrentUserID())
	assert.True(t, second.IsLoggedIn())
}

func TestSessionObservers(t *testing.T) {
	c := setupCache(t)

	s, err := NewSession(c)
	require.NoError(t, err)

	var tokens []string
	unsubscribe := s.ObserveToken(func(v string) {
		tokens = append(tokens, v)
	})
	defer unsubscribe()

	require.NoError(t, s.Store("tok-1", "user-1"))
	s.Clear()

	assert.Equal(t, []string{"", "tok-1", ""}, tokens)
}
