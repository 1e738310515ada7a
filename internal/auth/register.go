package auth

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/petcareclinic/petcare-backend/internal/users"
	"github.com/petcareclinic/petcare-backend/pkg/config"
	"github.com/petcareclinic/petcare-backend/pkg/db"
	"github.com/petcareclinic/petcare-backend/pkg/db/models"
	"github.com/petcareclinic/petcare-backend/pkg/enums"
	pkgerrors "github.com/petcareclinic/petcare-backend/pkg/errors"
	"github.com/petcareclinic/petcare-backend/pkg/security"
)

// RegisterRequest contains the payload required to open a customer account.
type RegisterRequest struct {
	Username  string  `json:"username" validate:"required,min=3,max=50"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required"`
	FirstName string  `json:"first_name" validate:"required,max=100"`
	LastName  string  `json:"last_name" validate:"required,max=100"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Address   *string `json:"address,omitempty"`
	City      *string `json:"city,omitempty"`
	State     *string `json:"state,omitempty"`
	ZipCode   *string `json:"zip_code,omitempty"`
	Country   string  `json:"country,omitempty"`
}

// RegisterService handles the sign-up transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type registerUserRepository interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	TxRunner       txRunner
	PasswordConfig config.PasswordConfig
	// UserRepoFactory binds a user repository to the running transaction.
	UserRepoFactory func(tx *gorm.DB) registerUserRepository
}

type registerService struct {
	tx          txRunner
	passwordCfg config.PasswordConfig
	repoFactory func(tx *gorm.DB) registerUserRepository
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	factory := params.UserRepoFactory
	if factory == nil {
		factory = func(tx *gorm.DB) registerUserRepository { return users.NewRepository(tx) }
	}
	return &registerService{
		tx:          params.TxRunner,
		passwordCfg: params.PasswordConfig,
		repoFactory: factory,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if err := security.ValidatePassword(req.Password); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *models.User
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.repoFactory(tx)

		taken, err := userRepo.ExistsByUsername(ctx, username)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check username")
		}
		if taken {
			return pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
		}
		taken, err = userRepo.ExistsByEmail(ctx, email)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
		}
		if taken {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}

		created, err = userRepo.Create(ctx, users.CreateUserDTO{
			Username:     username,
			Email:        email,
			PasswordHash: passwordHash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Phone:        req.Phone,
			Address:      req.Address,
			City:         req.City,
			State:        req.State,
			ZipCode:      req.ZipCode,
			Country:      req.Country,
			Role:         enums.UserRoleUser,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "username or email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users.FromModel(created), nil
}
