package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/petcareclinic/petcare-backend/internal/users"
	pkgAuth "github.com/petcareclinic/petcare-backend/pkg/auth"
	"github.com/petcareclinic/petcare-backend/pkg/auth/session"
	"github.com/petcareclinic/petcare-backend/pkg/config"
	"github.com/petcareclinic/petcare-backend/pkg/db/models"
	pkgerrors "github.com/petcareclinic/petcare-backend/pkg/errors"
	"github.com/petcareclinic/petcare-backend/pkg/security"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	tokenTypeBearer           = "Bearer"
)

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error)
	Logout(ctx context.Context, accessToken string) error
}

type service struct {
	users   userRepository
	session sessionManager
	jwtCfg  config.JWTConfig
	pwdCfg  config.PasswordConfig
	now     func() time.Time
}

type userRepository interface {
	FindByLogin(ctx context.Context, login string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string, userID uuid.UUID) (string, error)
	Rotate(ctx context.Context, oldAccessID string, userID uuid.UUID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
	// PasswordConfig is the current Argon2 cost. Hashes stored under older
	// settings are replaced on the next successful login.
	PasswordConfig config.PasswordConfig
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		users:   params.UserRepo,
		session: params.SessionManager,
		jwtCfg:  params.JWTConfig,
		pwdCfg:  params.PasswordConfig,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.authenticate(ctx, req.Login, req.Password)
	if err != nil {
		return nil, err
	}

	s.upgradeHash(ctx, user, req.Password)

	now, err := s.recordLogin(ctx, user)
	if err != nil {
		return nil, err
	}

	accessID := session.NewAccessID()
	accessToken, err := s.mint(now, user, accessID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.session.Generate(ctx, accessID, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refresh token")
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    tokenTypeBearer,
		ExpiresIn:    int64(s.jwtCfg.AccessTokenTTL().Seconds()),
		User:         users.FromModel(user),
	}, nil
}

// Refresh rotates the refresh session bound to the presented access token's jti
// and mints a new access token with the user's current role.
func (s *service) Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error) {
	claims, err := s.parseSessionToken(req.AccessToken)
	if err != nil {
		return nil, err
	}

	newAccessID, newRefreshToken, err := s.session.Rotate(ctx, claims.ID, claims.UserID, req.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		_ = s.session.Revoke(ctx, newAccessID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
		}
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	accessToken, err := s.mint(s.now(), user, newAccessID)
	if err != nil {
		return nil, err
	}

	return &RefreshResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		TokenType:    tokenTypeBearer,
		ExpiresIn:    int64(s.jwtCfg.AccessTokenTTL().Seconds()),
	}, nil
}

// Logout revokes the refresh session. Expired access tokens are accepted.
func (s *service) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.parseSessionToken(accessToken)
	if err != nil {
		return err
	}
	if err := s.session.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) parseSessionToken(token string) (*pkgAuth.AccessTokenClaims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}
	return claims, nil
}

func (s *service) mint(now time.Time, user *models.User, accessID string) (string, error) {
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		JTI:      accessID,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return token, nil
}

func (s *service) authenticate(ctx context.Context, login, password string) (*models.User, error) {
	input := strings.TrimSpace(login)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByLogin(ctx, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

func (s *service) recordLogin(ctx context.Context, user *models.User) (time.Time, error) {
	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update last login")
	}
	user.LastLoginAt = &now
	return now, nil
}

// upgradeHash is best effort. A failed write leaves the old hash usable.
func (s *service) upgradeHash(ctx context.Context, user *models.User, password string) {
	if !security.NeedsRehash(user.PasswordHash, s.pwdCfg) {
		return
	}
	hash, err := security.HashPassword(password, s.pwdCfg)
	if err != nil {
		return
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err == nil {
		user.PasswordHash = hash
	}
}
