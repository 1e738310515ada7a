package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/petcareclinic/petcare-backend/pkg/config"
	redisclient "github.com/petcareclinic/petcare-backend/pkg/redis"
)

const refreshTokenBytes = 32

var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	errBlankAccessID       = errors.New("access id is required")
)

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	AccessSessionKey(accessID string) string
}

// record is the redis value stored under the access token's jti. Only a
// digest of the refresh token is kept, so a leaked redis snapshot cannot be
// replayed against /api/auth/refresh.
type record struct {
	UserID    uuid.UUID `json:"uid"`
	Digest    string    `json:"rt"`
	IssuedAt  time.Time `json:"iat"`
	Rotations int       `json:"rot,omitempty"`
}

// Manager issues, rotates and revokes refresh sessions. A session belongs to
// exactly one access token jti and one user.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
	now   func() time.Time
}

// AccessSessionChecker is the read-only surface the auth middleware needs.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// NewManager requires the refresh TTL to outlive the access token TTL.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	ttl, accessTTL := cfg.RefreshTokenTTL(), cfg.AccessTokenTTL()
	if ttl <= 0 {
		return nil, errors.New("refresh token ttl must be positive")
	}
	if ttl <= accessTTL {
		return nil, fmt.Errorf("refresh token ttl (%s) must exceed access token ttl (%s)", ttl, accessTTL)
	}
	return &Manager{store: client, keyer: client, ttl: ttl}, nil
}

// NewAccessID produces the identifier used as the JWT jti and redis key suffix.
func NewAccessID() string {
	return uuid.NewString()
}

// Generate opens a session for accessID and returns the plaintext refresh token.
func (m *Manager) Generate(ctx context.Context, accessID string, userID uuid.UUID) (string, error) {
	if strings.TrimSpace(accessID) == "" {
		return "", errBlankAccessID
	}
	if userID == uuid.Nil {
		return "", errors.New("user id is required")
	}
	return m.issue(ctx, accessID, record{UserID: userID, IssuedAt: m.clock()})
}

// Rotate consumes the session bound to oldAccessID and opens a new one. The
// old session is deleted before the new one is written, so a refresh token
// can be used at most once even if the write fails.
func (m *Manager) Rotate(ctx context.Context, oldAccessID string, userID uuid.UUID, provided string) (string, string, error) {
	if strings.TrimSpace(oldAccessID) == "" || strings.TrimSpace(provided) == "" {
		return "", "", ErrInvalidRefreshToken
	}

	key := m.keyer.AccessSessionKey(oldAccessID)
	prev, err := m.load(ctx, key)
	if err != nil {
		return "", "", err
	}
	if prev.UserID != userID || subtle.ConstantTimeCompare([]byte(prev.Digest), []byte(digest(provided))) != 1 {
		return "", "", ErrInvalidRefreshToken
	}
	if err := m.store.Del(ctx, key); err != nil {
		return "", "", err
	}

	newAccessID := NewAccessID()
	token, err := m.issue(ctx, newAccessID, record{UserID: userID, IssuedAt: prev.IssuedAt, Rotations: prev.Rotations + 1})
	if err != nil {
		return "", "", err
	}
	return newAccessID, token, nil
}

// Revoke ends the session bound to accessID. Revoking twice is not an error.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return errBlankAccessID
	}
	return m.store.Del(ctx, m.keyer.AccessSessionKey(accessID))
}

// HasSession reports whether accessID still has a live refresh session.
// Logout and rotation remove it, which invalidates the access token early.
func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if strings.TrimSpace(accessID) == "" {
		return false, errBlankAccessID
	}
	_, err := m.store.Get(ctx, m.keyer.AccessSessionKey(accessID))
	switch {
	case errors.Is(err, redislib.Nil):
		return false, nil
	case err != nil:
		return false, err
	default:
		return true, nil
	}
}

func (m *Manager) issue(ctx context.Context, accessID string, rec record) (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating refresh token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(buf)
	rec.Digest = digest(token)

	value, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}
	if err := m.store.Set(ctx, m.keyer.AccessSessionKey(accessID), string(value), m.ttl); err != nil {
		return "", err
	}
	return token, nil
}

func (m *Manager) load(ctx context.Context, key string) (record, error) {
	raw, err := m.store.Get(ctx, key)
	if errors.Is(err, redislib.Nil) {
		return record{}, ErrInvalidRefreshToken
	}
	if err != nil {
		return record{}, err
	}
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil || rec.UserID == uuid.Nil || rec.Digest == "" {
		return record{}, ErrInvalidRefreshToken
	}
	return rec, nil
}

func (m *Manager) clock() time.Time {
	if m.now != nil {
		return m.now()
	}
	return time.Now().UTC()
}

func digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
