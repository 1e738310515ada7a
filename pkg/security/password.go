package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/petcareclinic/petcare-backend/pkg/config"
)

const tempPasswordCharset = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"

// MinPasswordLength is the shortest password accepted at registration or change.
const MinPasswordLength = 8

var (
	// ErrInvalidHash signals a malformed Argon2id hash string.
	ErrInvalidHash = errors.New("invalid argon2id hash")
	// ErrWeakPassword is returned by ValidatePassword.
	ErrWeakPassword = fmt.Errorf("password must be at least %d characters and not blank", MinPasswordLength)
)

// ArgonParams are the Argon2id cost settings encoded into every stored hash.
type ArgonParams struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLen     uint32
	KeyLen      uint32
}

// HashPassword encodes password as $argon2id$v=19$m=..,t=..,p=..$salt$key.
func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}

	p := paramsFromConfig(cfg)
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Parallelism, p.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Time, p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword reports whether password matches the encoded hash.
func VerifyPassword(password, encoded string) (bool, error) {
	p, salt, key, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}
	computed := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Parallelism, p.KeyLen)
	return subtle.ConstantTimeCompare(key, computed) == 1, nil
}

// NeedsRehash reports whether encoded was produced with cost settings that
// differ from cfg. Malformed hashes always need replacing.
func NeedsRehash(encoded string, cfg config.PasswordConfig) bool {
	p, _, _, err := decodeHash(encoded)
	if err != nil {
		return true
	}
	return p != paramsFromConfig(cfg)
}

func paramsFromConfig(cfg config.PasswordConfig) ArgonParams {
	return ArgonParams{
		Memory:      uint32(clamp(cfg.ArgonMemoryKB, 8, 512*1024)),
		Time:        uint32(clamp(cfg.ArgonTime, 1, 10)),
		Parallelism: uint8(clamp(cfg.ArgonParallelism, 1, 255)),
		SaltLen:     uint32(clamp(cfg.ArgonSaltLen, 8, 64)),
		KeyLen:      uint32(clamp(cfg.ArgonKeyLen, 16, 64)),
	}
}

func decodeHash(encoded string) (ArgonParams, []byte, []byte, error) {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}

	var p ArgonParams
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Parallelism); err != nil {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}
	if p.Memory == 0 || p.Time == 0 || p.Parallelism == 0 {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}

	p.SaltLen = uint32(len(salt))
	p.KeyLen = uint32(len(key))
	return p, salt, key, nil
}

func clamp(value, lo, hi int) int {
	switch {
	case value < lo:
		return lo
	case value > hi:
		return hi
	default:
		return value
	}
}

// ValidatePassword enforces the minimum password policy.
func ValidatePassword(password string) error {
	if strings.TrimSpace(password) == "" || len([]rune(password)) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// GenerateTempPassword returns a random password for admin-created accounts.
// Look-alike characters are left out of the alphabet.
func GenerateTempPassword(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("length must be positive")
	}

	limit := big.NewInt(int64(len(tempPasswordCharset)))
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate temp password: %w", err)
		}
		b.WriteByte(tempPasswordCharset[n.Int64()])
	}
	return b.String(), nil
}
