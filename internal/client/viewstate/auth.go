package viewstate

import (
	"context"
	"errors"

	"github.com/kaanbaran/libraryapp/internal/client/api"
	"github.com/kaanbaran/libraryapp/internal/client/repository"
	"github.com/kaanbaran/libraryapp/internal/entities"
	"github.com/kaanbaran/libraryapp/internal/observe"
)

// AuthState is what the login and register screens render.
type AuthState struct {
	Status Status
	User   *entities.User
	Err    string
}

// AuthController drives the sign-in and sign-up flows.
type AuthController struct {
	auth  *repository.AuthRepository
	state *observe.Value[AuthState]
}

func NewAuthController(auth *repository.AuthRepository) *AuthController {
	state := AuthState{Status: StatusIdle}
	if user, err := auth.CurrentUser(); err == nil {
		state = AuthState{Status: StatusSuccess, User: user}
	}
	return &AuthController{
		auth:  auth,
		state: observe.NewValue(state),
	}
}

// Observe subscribes to auth state changes.
func (c *AuthController) Observe(fn func(AuthState)) func() {
	return c.state.Subscribe(fn)
}

// State returns the current auth state.
func (c *AuthController) State() AuthState {
	return c.state.Get()
}

// Login signs in and publishes the result.
func (c *AuthController) Login(ctx context.Context, email, password string) {
	c.state.Set(AuthState{Status: StatusLoading})

	user, err := c.auth.Login(ctx, email, password)
	if err != nil {
		c.state.Set(AuthState{Status: StatusError, Err: userMessage(err)})
		return
	}
	c.state.Set(AuthState{Status: StatusSuccess, User: user})
}

// Register creates an account and signs the new user in.
func (c *AuthController) Register(ctx context.Context, req api.RegisterRequest) {
	c.state.Set(AuthState{Status: StatusLoading})

	user, err := c.auth.Register(ctx, req)
	if err != nil {
		c.state.Set(AuthState{Status: StatusError, Err: userMessage(err)})
		return
	}
	c.state.Set(AuthState{Status: StatusSuccess, User: user})
}

// Logout signs out and returns the screen to its idle state.
func (c *AuthController) Logout() {
	c.auth.Logout()
	c.state.Set(AuthState{Status: StatusIdle})
}

// userMessage extracts the server's message when there is one, since those
// are written for end users ("User not found", "Invalid password").
func userMessage(err error) string {
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) && statusErr.Message != "" {
		return statusErr.Message
	}
	return err.Error()
}
