package auth

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/fieldsync/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, userID string, expiresAt time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(expiresAt)},
		UserID:           userID,
	})
	s, err := tok.SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return s
}

// memRepo is an in-memory metadata.Repository.
type memRepo struct {
	data   map[string][]byte
	setErr error
}

func newMemRepo() *memRepo { return &memRepo{data: map[string][]byte{}} }

func (m *memRepo) Get(_ context.Context, key string) ([]byte, error) { return m.data[key], nil }
func (m *memRepo) Set(_ context.Context, key string, v []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = v
	return nil
}
func (m *memRepo) Delete(_ context.Context, key string) error { delete(m.data, key); return nil }
func (m *memRepo) GetBool(_ context.Context, key string) (bool, error) {
	v := m.data[key]
	return len(v) == 1 && v[0] == 1, nil
}
func (m *memRepo) SetBool(ctx context.Context, key string, v bool) error {
	if v {
		return m.Set(ctx, key, []byte{1})
	}
	return m.Set(ctx, key, []byte{0})
}

func TestParseToken(t *testing.T) {
	c, err := ParseToken(signToken(t, "user-7", time.Now().Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, "user-7", c.Owner())
	assert.False(t, c.Expired(time.Now()))
	assert.True(t, c.Expired(time.Now().Add(2*time.Hour)))

	_, err = ParseToken("not.a.jwt")
	require.ErrorIs(t, err, common.ErrInvalidToken)

	_, err = ParseToken(signToken(t, "", time.Now().Add(time.Hour)))
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestClaims_SubjectFallback(t *testing.T) {
	c := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "sub-1"}}
	assert.Equal(t, "sub-1", c.Owner())
	assert.False(t, c.Expired(time.Now()), "no exp claim never expires")
}

func TestSession_LoginPersistsAndRestores(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	tok := signToken(t, "user-1", time.Now().Add(time.Hour))

	s := NewSession(repo)
	_, err := s.OwnerID()
	require.ErrorIs(t, err, common.ErrUnauthorized)

	require.NoError(t, s.Login(ctx, tok))
	owner, err := s.OwnerID()
	require.NoError(t, err)
	assert.Equal(t, "user-1", owner)
	assert.Equal(t, tok, s.Token())

	restored := NewSession(repo)
	require.NoError(t, restored.Restore(ctx))
	got, err := restored.Valid()
	require.NoError(t, err)
	assert.Equal(t, tok, got)
}

func TestSession_LoginRejectsExpired(t *testing.T) {
	s := NewSession(newMemRepo())
	err := s.Login(context.Background(), signToken(t, "u", time.Now().Add(-time.Minute)))
	require.ErrorIs(t, err, common.ErrTokenExpired)
	assert.Empty(t, s.Token())
}

func TestSession_ValidReportsExpiry(t *testing.T) {
	now := time.Now()
	s := NewSession(newMemRepo())
	s.now = func() time.Time { return now }
	require.NoError(t, s.Login(context.Background(), signToken(t, "u", now.Add(time.Minute))))

	s.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, err := s.Valid()
	require.ErrorIs(t, err, common.ErrTokenExpired)

	owner, err := s.OwnerID()
	require.NoError(t, err, "captures stay possible with an expired token")
	assert.Equal(t, "u", owner)
}

func TestSession_Logout(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	s := NewSession(repo)
	require.NoError(t, s.Login(ctx, signToken(t, "u", time.Now().Add(time.Hour))))

	require.NoError(t, s.Logout(ctx))
	_, err := s.Valid()
	require.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Empty(t, repo.data[common.MetadataAccessToken])
}

func TestSession_RestoreIgnoresGarbage(t *testing.T) {
	repo := newMemRepo()
	repo.data[common.MetadataAccessToken] = []byte("garbage")

	s := NewSession(repo)
	require.NoError(t, s.Restore(context.Background()))
	_, err := s.OwnerID()
	require.ErrorIs(t, err, common.ErrUnauthorized)
}
