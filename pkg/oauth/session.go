package oauth

import (
	"context"
	"fmt"
	"time"
)

// expiryLeeway refreshes tokens slightly before they actually expire so a
// request started just before expiry does not fail mid-flight.
const expiryLeeway = 30 * time.Second

// Session hands out a valid access token for a stored provider login,
// refreshing it when it has expired.
type Session struct {
	storage  *TokenStorage
	flow     *Flow
	provider string
	now      func() time.Time
}

// NewSession creates a session for provider backed by storage and flow.
func NewSession(storage *TokenStorage, flow *Flow, provider string) *Session {
	return &Session{
		storage:  storage,
		flow:     flow,
		provider: provider,
		now:      time.Now,
	}
}

// AccessToken returns a usable access token. It returns ErrTokenNotFound when
// the user never signed in and ErrRefreshFailed when the token expired and
// could not be renewed. A failed refresh is not retried.
func (s *Session) AccessToken(ctx context.Context) (string, error) {
	token, err := s.storage.Load(s.provider)
	if err != nil {
		return "", err
	}
	if token.AccessToken == "" {
		return "", ErrTokenNotFound
	}

	now := s.now()
	if !token.Expired(now.Add(expiryLeeway)) {
		return token.AccessToken, nil
	}

	refreshed, err := s.flow.RefreshAccessToken(ctx, token.RefreshToken)
	if err != nil {
		return "", err
	}

	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = token.RefreshToken
	}

	if err := s.storage.Save(s.provider, refreshed); err != nil {
		return "", fmt.Errorf("failed to save refreshed token: %w", err)
	}

	return refreshed.AccessToken, nil
}

// StaticSession is a session whose token was obtained elsewhere, such as a
// bearer header on an incoming request.
type StaticSession string

// AccessToken returns the wrapped token, or ErrTokenNotFound when empty.
func (s StaticSession) AccessToken(context.Context) (string, error) {
	if s == "" {
		return "", ErrTokenNotFound
	}
	return string(s), nil
}
