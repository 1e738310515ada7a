package redis

import "strings"

// Every key the API writes lives under "pc:<kind>:...".
const keyNamespace = "pc"

type keyKind string

const (
	kindIdempotency keyKind = "idempotency"
	kindRateLimit   keyKind = "rate_limit"
	kindSession     keyKind = "session"
	kindLock        keyKind = "lock"
)

func buildKey(kind keyKind, parts ...string) string {
	var b strings.Builder
	b.WriteString(keyNamespace)
	b.WriteByte(':')
	b.WriteString(string(kind))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		b.WriteByte(':')
		b.WriteString(part)
	}
	return b.String()
}

// IdempotencyKey scopes a client-supplied or provider-supplied id.
func (c *Client) IdempotencyKey(scope, id string) string {
	return buildKey(kindIdempotency, scope, id)
}

// RateLimitKey holds the fixed-window counter for scope.
func (c *Client) RateLimitKey(scope string) string {
	return buildKey(kindRateLimit, scope)
}

// LockKey names a worker-wide mutex, e.g. the cron leader lock.
func (c *Client) LockKey(name string) string {
	return buildKey(kindLock, name)
}

// AccessSessionKey maps an access token jti to its refresh session.
func (c *Client) AccessSessionKey(accessID string) string {
	return buildKey(kindSession, "access", accessID)
}
