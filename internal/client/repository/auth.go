package repository

import (
	"context"
	"errors"
	"log"

	"github.com/kaanbaran/libraryapp/internal/client/api"
	"github.com/kaanbaran/libraryapp/internal/client/cache"
	"github.com/kaanbaran/libraryapp/internal/client/session"
	"github.com/kaanbaran/libraryapp/internal/entities"
)

// ErrNotLoggedIn is returned when an operation needs a signed-in user and
// there is none.
var ErrNotLoggedIn = errors.New("not logged in")

// AuthRepository handles sign-in, sign-up and sign-out. Unlike the catalog,
// auth calls always need the backend and report their failures.
type AuthRepository struct {
	cache   *cache.Cache
	api     *api.Client
	session *session.Session
}

func NewAuthRepository(c *cache.Cache, a *api.Client, s *session.Session) *AuthRepository {
	return &AuthRepository{cache: c, api: a, session: s}
}

// Login authenticates against the backend, persists the session and caches
// the user row.
func (r *AuthRepository) Login(ctx context.Context, email, password string) (*entities.User, error) {
	resp, err := r.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := r.storeSession(resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Register creates an account, then persists the returned session exactly
// like Login does.
func (r *AuthRepository) Register(ctx context.Context, req api.RegisterRequest) (*entities.User, error) {
	resp, err := r.api.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := r.storeSession(resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (r *AuthRepository) storeSession(resp *api.AuthResponse) error {
	if err := r.session.Store(resp.Token, resp.User.ID); err != nil {
		return err
	}
	if err := r.cache.UpsertUser(resp.User); err != nil {
		return err
	}
	return nil
}

// Logout clears the session and wipes cached user rows. It never fails.
func (r *AuthRepository) Logout() {
	r.session.Clear()
	if err := r.cache.DeleteAllUsers(); err != nil {
		log.Printf("failed to wipe cached users: %v", err)
	}
}

// IsLoggedIn reports whether a session token is present.
func (r *AuthRepository) IsLoggedIn() bool {
	return r.session.IsLoggedIn()
}

// CurrentUserID returns the signed-in user's id, "" when signed out.
func (r *AuthRepository) CurrentUserID() string {
	return r.session.CurrentUserID()
}

// CurrentUser returns the cached row for the signed-in user.
func (r *AuthRepository) CurrentUser() (*entities.User, error) {
	id := r.session.CurrentUserID()
	if id == "" {
		return nil, ErrNotLoggedIn
	}
	user, err := r.cache.GetUser(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotLoggedIn
	}
	return user, nil
}
