package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/petcareclinic/petcare-backend/pkg/config"
)

var signingMethod = jwt.SigningMethodHS256

// clockSkew tolerates small drift between API replicas.
const clockSkew = 30 * time.Second

var (
	errNoSecret = errors.New("jwt secret is required")
	errNoIssuer = errors.New("jwt issuer is required")
)

// MintAccessToken signs an HS256 token for payload, valid for the configured TTL.
// A fresh jti is generated when payload.JTI is blank.
func MintAccessToken(cfg config.JWTConfig, now time.Time, payload AccessTokenPayload) (string, error) {
	switch {
	case cfg.Secret == "":
		return "", errNoSecret
	case cfg.Issuer == "":
		return "", errNoIssuer
	case cfg.ExpirationMinutes <= 0:
		return "", errors.New("jwt expiration minutes must be positive")
	case payload.UserID == uuid.Nil:
		return "", errors.New("user id is required")
	case !payload.Role.IsValid():
		return "", fmt.Errorf("invalid user role %q", payload.Role)
	}

	jti := strings.TrimSpace(payload.JTI)
	if jti == "" {
		jti = uuid.NewString()
	}

	claims := AccessTokenClaims{
		UserID:   payload.UserID,
		Username: payload.Username,
		Role:     payload.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   payload.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.AccessTokenTTL())),
			ID:        jti,
		},
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// ParseAccessToken verifies signature, issuer and expiry.
func ParseAccessToken(cfg config.JWTConfig, token string) (*AccessTokenClaims, error) {
	return parse(cfg, token, jwt.WithLeeway(clockSkew), jwt.WithExpirationRequired())
}

// ParseAccessTokenAllowExpired verifies signature and issuer only. Refresh
// uses it to recover the jti of a lapsed token.
func ParseAccessTokenAllowExpired(cfg config.JWTConfig, token string) (*AccessTokenClaims, error) {
	return parse(cfg, token, jwt.WithoutClaimsValidation())
}

// IsExpired reports whether err came from an access token past its expiry.
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}

func parse(cfg config.JWTConfig, token string, opts ...jwt.ParserOption) (*AccessTokenClaims, error) {
	if cfg.Secret == "" {
		return nil, errNoSecret
	}
	opts = append(opts,
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	)

	claims := &AccessTokenClaims{}
	if _, err := jwt.NewParser(opts...).ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(cfg.Secret), nil
	}); err != nil {
		return nil, err
	}
	return claims, nil
}
