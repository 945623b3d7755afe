package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaanbaran/libraryapp/internal/client/api"
	"github.com/kaanbaran/libraryapp/internal/client/cache"
	"github.com/kaanbaran/libraryapp/internal/client/session"
	"github.com/kaanbaran/libraryapp/internal/entities"
)

func newAuthRepo(t *testing.T, c *cache.Cache, serverURL string) (*AuthRepository, *session.Session) {
	t.Helper()
	sess, err := session.NewSession(c)
	require.NoError(t, err)
	client := api.NewClient(serverURL, sess.Token)
	return NewAuthRepository(c, client, sess), sess
}

func authHandler(t *testing.T, path string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, path, r.URL.Path)
		_ = json.NewEncoder(w).Encode(api.AuthResponse{
			Token: "jwt-token",
			User: entities.User{
				ID:       "u-9",
				Username: "alice",
				Email:    "alice@example.com",
				Role:     entities.UserRoleStudent,
				FullName: "Alice Smith",
			},
		})
	})
}

func TestLoginStoresSessionAndUser(t *testing.T) {
	c := setupCache(t)
	srv := httptest.NewServer(authHandler(t, "/auth/login"))
	defer srv.Close()

	repo, sess := newAuthRepo(t, c, srv.URL)

	user, err := repo.Login(context.Background(), "alice@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u-9", user.ID)

	assert.True(t, sess.IsLoggedIn())
	assert.Equal(t, "jwt-token", sess.Token())
	assert.Equal(t, "u-9", sess.CurrentUserID())

	current, err := repo.CurrentUser()
	require.NoError(t, err)
	assert.Equal(t, "alice", current.Username)
}

func TestLoginFailureLeavesSessionUntouched(t *testing.T) {
	c := setupCache(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "User not found"})
	}))
	defer srv.Close()

	repo, sess := newAuthRepo(t, c, srv.URL)

	user, err := repo.Login(context.Background(), "ghost@example.com", "secret")
	assert.Nil(t, user)

	var statusErr *api.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, "User not found", statusErr.Message)

	assert.False(t, sess.IsLoggedIn())
}

func TestRegisterStoresSession(t *testing.T) {
	c := setupCache(t)
	srv := httptest.NewServer(authHandler(t, "/auth/register"))
	defer srv.Close()

	repo, sess := newAuthRepo(t, c, srv.URL)

	user, err := repo.Register(context.Background(), api.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret",
		FullName: "Alice Smith",
	})
	require.NoError(t, err)
	assert.Equal(t, "u-9", user.ID)
	assert.True(t, sess.IsLoggedIn())
}

func TestLogoutClearsEverything(t *testing.T) {
	c := setupCache(t)
	srv := httptest.NewServer(authHandler(t, "/auth/login"))
	defer srv.Close()

	repo, sess := newAuthRepo(t, c, srv.URL)

	_, err := repo.Login(context.Background(), "alice@example.com", "secret")
	require.NoError(t, err)

	repo.Logout()

	assert.False(t, sess.IsLoggedIn())
	assert.Empty(t, sess.Token())

	_, err = repo.CurrentUser()
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	cached, err := c.GetUser("u-9")
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestSessionPersistsAcrossRestart(t *testing.T) {
	c := setupCache(t)
	srv := httptest.NewServer(authHandler(t, "/auth/login"))
	defer srv.Close()

	repo, _ := newAuthRepo(t, c, srv.URL)
	_, err := repo.Login(context.Background(), "alice@example.com", "secret")
	require.NoError(t, err)

	// a fresh repository over the same cache sees the stored session
	restarted, sess := newAuthRepo(t, c, srv.URL)
	assert.True(t, sess.IsLoggedIn())

	current, err := restarted.CurrentUser()
	require.NoError(t, err)
	assert.Equal(t, "u-9", current.ID)
}
