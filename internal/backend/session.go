package backend

import (
	"context"
	"fmt"
	"sync"
)

// Keys under which the session is persisted.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyActiveOrgID  = "active_org_id"
)

// TokenStore persists session values. *store.KVRepo implements it.
type TokenStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Session holds the caller's credentials and active organization. It is
// safe for concurrent use; a nil TokenStore keeps the session in memory.
type Session struct {
	mu           sync.RWMutex
	tokens       TokenStore
	accessToken  string
	refreshToken string
	orgID        string
}

// NewSession returns an empty session backed by tokens.
func NewSession(tokens TokenStore) *Session {
	return &Session{tokens: tokens}
}

// LoadSession reads a persisted session from tokens.
func LoadSession(ctx context.Context, tokens TokenStore) (*Session, error) {
	s := NewSession(tokens)
	for key, dst := range map[string]*string{
		KeyAccessToken:  &s.accessToken,
		KeyRefreshToken: &s.refreshToken,
		KeyActiveOrgID:  &s.orgID,
	} {
		v, _, err := tokens.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("load session: %w", err)
		}
		*dst = v
	}
	return s, nil
}

// AccessToken returns the bearer token, or "" when signed out.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the refresh token, or "".
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// OrgID returns the active organization, or "".
func (s *Session) OrgID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.orgID
}

// SignedIn reports whether an access token is present.
func (s *Session) SignedIn() bool {
	return s.AccessToken() != ""
}

// SetTokens stores new credentials.
func (s *Session) SetTokens(ctx context.Context, access, refresh string) error {
	s.mu.Lock()
	s.accessToken, s.refreshToken = access, refresh
	s.mu.Unlock()

	if err := s.persist(ctx, KeyAccessToken, access); err != nil {
		return err
	}
	return s.persist(ctx, KeyRefreshToken, refresh)
}

// SetOrg selects the active organization.
func (s *Session) SetOrg(ctx context.Context, orgID string) error {
	s.mu.Lock()
	s.orgID = orgID
	s.mu.Unlock()
	return s.persist(ctx, KeyActiveOrgID, orgID)
}

// ClearTokens drops the access and refresh tokens. The active
// organization is kept so the next sign-in lands in the same place.
func (s *Session) ClearTokens(ctx context.Context) error {
	s.mu.Lock()
	s.accessToken, s.refreshToken = "", ""
	s.mu.Unlock()
	if s.tokens == nil {
		return nil
	}
	return s.tokens.Delete(ctx, KeyAccessToken, KeyRefreshToken)
}

// Clear drops every session value.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.accessToken, s.refreshToken, s.orgID = "", "", ""
	s.mu.Unlock()
	if s.tokens == nil {
		return nil
	}
	return s.tokens.Delete(ctx, KeyAccessToken, KeyRefreshToken, KeyActiveOrgID)
}

func (s *Session) persist(ctx context.Context, key, value string) error {
	if s.tokens == nil {
		return nil
	}
	if value == "" {
		return s.tokens.Delete(ctx, key)
	}
	return s.tokens.Set(ctx, key, value)
}
