// Package session holds the signed-in user's credentials. Values are
// persisted in the local cache so a restart picks up the previous session,
// and exposed as observables so the UI layer reacts to sign-in state.
package session

import (
	"log"

	"github.com/kaanbaran/libraryapp/internal/client/cache"
	"github.com/kaanbaran/libraryapp/internal/entities"
	"github.com/kaanbaran/libraryapp/internal/observe"
)

// Session is the persisted auth state: the bearer token and the id of the
// signed-in user. Empty string means signed out.
type Session struct {
	cache         *cache.Cache
	token         *observe.Value[string]
	currentUserID *observe.Value[string]
}

// NewSession loads any persisted credentials from the cache.
func NewSession(c *cache.Cache) (*Session, error) {
	token, err := c.GetSetting(entities.SettingKeyAuthToken)
	if err != nil {
		return nil, err
	}
	userID, err := c.GetSetting(entities.SettingKeyCurrentUserID)
	if err != nil {
		return nil, err
	}
	return &Session{
		cache:         c,
		token:         observe.NewValue(token),
		currentUserID: observe.NewValue(userID),
	}, nil
}

// Token returns the current bearer token, "" when signed out.
func (s *Session) Token() string {
	return s.token.Get()
}

// CurrentUserID returns the signed-in user's id, "" when signed out.
func (s *Session) CurrentUserID() string {
	return s.currentUserID.Get()
}

// ObserveToken subscribes to token changes. The current value is delivered
// immediately. The returned function cancels the subscription.
func (s *Session) ObserveToken(fn func(string)) func() {
	return s.token.Subscribe(fn)
}

// ObserveCurrentUserID subscribes to signed-in user changes.
func (s *Session) ObserveCurrentUserID(fn func(string)) func() {
	return s.currentUserID.Subscribe(fn)
}

// IsLoggedIn reports whether a token is present.
func (s *Session) IsLoggedIn() bool {
	return s.token.Get() != ""
}

// Store persists the token and user id and notifies observers.
func (s *Session) Store(token, userID string) error {
	if err := s.cache.SetSetting(entities.SettingKeyAuthToken, token); err != nil {
		return err
	}
	if err := s.cache.SetSetting(entities.SettingKeyCurrentUserID, userID); err != nil {
		return err
	}
	s.token.Set(token)
	s.currentUserID.Set(userID)
	return nil
}

// Clear wipes the persisted credentials. Cache failures are logged rather
// than returned so signing out always succeeds from the caller's view.
func (s *Session) Clear() {
	if err := s.cache.DeleteSetting(entities.SettingKeyAuthToken); err != nil {
		log.Printf("failed to clear stored token: %v", err)
	}
	if err := s.cache.DeleteSetting(entities.SettingKeyCurrentUserID); err != nil {
		log.Printf("failed to clear stored user id: %v", err)
	}
	s.token.Set("")
	s.currentUserID.Set("")
}
