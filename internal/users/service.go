package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/petcareclinic/petcare-backend/internal/repo"
	"github.com/petcareclinic/petcare-backend/pkg/config"
	"github.com/petcareclinic/petcare-backend/pkg/db"
	"github.com/petcareclinic/petcare-backend/pkg/db/models"
	pkgerrors "github.com/petcareclinic/petcare-backend/pkg/errors"
	"github.com/petcareclinic/petcare-backend/pkg/pagination"
	"github.com/petcareclinic/petcare-backend/pkg/security"
)

const (
	entityName         = "user"
	tempPasswordLength = 12
)

type userRepository interface {
	Create(ctx context.Context, dto CreateUserDTO) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, params pagination.Params) ([]models.User, int64, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) (bool, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service covers profile reads, self-service edits and admin user management.
type Service struct {
	repo        userRepository
	passwordCfg config.PasswordConfig
}

func NewService(repo userRepository, passwordCfg config.PasswordConfig) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &Service{repo: repo, passwordCfg: passwordCfg}, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.Translate(err, entityName)
	}
	return FromModel(user), nil
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*UserDTO, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, repo.Translate(err, entityName)
	}
	return FromModel(user), nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*UserDTO, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, repo.Translate(err, entityName)
	}
	return FromModel(user), nil
}

func (s *Service) UsernameExists(ctx context.Context, username string) (bool, error) {
	if strings.TrimSpace(username) == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	ok, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check username")
	}
	return ok, nil
}

func (s *Service) EmailExists(ctx context.Context, email string) (bool, error) {
	if strings.TrimSpace(email) == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	ok, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
	}
	return ok, nil
}

// UpdateProfile edits the caller's own contact details.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileUpdate) (*UserDTO, error) {
	fields := map[string]any{
		"first_name":        strings.TrimSpace(in.FirstName),
		"last_name":         strings.TrimSpace(in.LastName),
		"phone":             in.Phone,
		"address":           in.Address,
		"city":              in.City,
		"state":             in.State,
		"zip_code":          in.ZipCode,
		"profile_image_url": in.ProfileImageURL,
		"date_of_birth":     in.DateOfBirth,
	}
	if in.Country != nil && strings.TrimSpace(*in.Country) != "" {
		fields["country"] = strings.TrimSpace(*in.Country)
	}
	return s.applyUpdate(ctx, id, fields)
}

// ChangePassword requires the current password and enforces the password policy.
func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return repo.Translate(err, entityName)
	}
	valid, err := security.VerifyPassword(req.CurrentPassword, user.PasswordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "current password is incorrect")
	}
	if err := security.ValidatePassword(req.NewPassword); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}
	hash, err := security.HashPassword(req.NewPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update password")
	}
	return nil
}

func (s *Service) List(ctx context.Context, params pagination.Params) (pagination.Page[*UserDTO], error) {
	rows, total, err := s.repo.List(ctx, params)
	if err != nil {
		return pagination.Page[*UserDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	out := make([]*UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return pagination.NewPage(out, params, total), nil
}

// AdminCreate provisions an account. The generated password is returned only here.
func (s *Service) AdminCreate(ctx context.Context, req AdminCreateRequest) (*AdminCreateResult, error) {
	if err := s.ensureUnique(ctx, req.Username, req.Email); err != nil {
		return nil, err
	}

	password := req.Password
	temporary := ""
	if strings.TrimSpace(password) == "" {
		generated, err := security.GenerateTempPassword(tempPasswordLength)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate password")
		}
		password = generated
		temporary = generated
	} else if err := security.ValidatePassword(password); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}

	hash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	dto := CreateUserDTO{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
	}
	if req.Role != nil {
		if !req.Role.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
		}
		dto.Role = *req.Role
	}

	user, err := s.repo.Create(ctx, dto)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "username or email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return &AdminCreateResult{User: FromModel(user), TemporaryPassword: temporary}, nil
}

// AdminUpdate patches only the supplied fields.
func (s *Service) AdminUpdate(ctx context.Context, id uuid.UUID, req AdminUpdateRequest) (*UserDTO, error) {
	if req.Role != nil && !req.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	return s.applyUpdate(ctx, id, req.fields())
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return nil
}

func (s *Service) applyUpdate(ctx context.Context, id uuid.UUID, fields map[string]any) (*UserDTO, error) {
	found, err := s.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return s.GetByID(ctx, id)
}

func (s *Service) ensureUnique(ctx context.Context, username, email string) error {
	taken, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check username")
	}
	if taken {
		return pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
	}
	taken, err = s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
	}
	if taken {
		return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	}
	return nil
}
