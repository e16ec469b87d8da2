package auth

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/fieldsync/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fieldsync/internal/common"
)

// Session keeps the current access token in memory and in the local metadata
// table so a restart does not require logging in again.
type Session struct {
	repo metadata.Repository
	now  func() time.Time

	mu     sync.RWMutex
	token  string
	claims *Claims
}

func NewSession(repo metadata.Repository) *Session {
	return &Session{repo: repo, now: time.Now}
}

// Restore loads a previously saved token. A missing or undecodable token
// leaves the session logged out.
func (s *Session) Restore(ctx context.Context) error {
	raw, err := s.repo.Get(ctx, common.MetadataAccessToken)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	claims, err := ParseToken(string(raw))
	if err != nil {
		return nil
	}
	s.set(string(raw), claims)
	return nil
}

// Login validates and stores a token issued by the backend.
func (s *Session) Login(ctx context.Context, token string) error {
	claims, err := ParseToken(token)
	if err != nil {
		return err
	}
	if claims.Expired(s.now()) {
		return common.ErrTokenExpired
	}
	if err := s.repo.Set(ctx, common.MetadataAccessToken, []byte(token)); err != nil {
		return err
	}
	s.set(token, claims)
	return nil
}

func (s *Session) Logout(ctx context.Context) error {
	if err := s.repo.Delete(ctx, common.MetadataAccessToken); err != nil {
		return err
	}
	s.set("", nil)
	return nil
}

func (s *Session) set(token string, claims *Claims) {
	s.mu.Lock()
	s.token, s.claims = token, claims
	s.mu.Unlock()
}

// Token returns the raw access token or "" when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// OwnerID returns the authenticated user id.
func (s *Session) OwnerID() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.claims == nil {
		return "", common.ErrUnauthorized
	}
	return s.claims.Owner(), nil
}

// Valid returns the token when it can still be used for remote calls.
func (s *Session) Valid() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.claims == nil {
		return "", common.ErrUnauthorized
	}
	if s.claims.Expired(s.now()) {
		return "", common.ErrTokenExpired
	}
	return s.token, nil
}
