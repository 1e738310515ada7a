package users

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/petcareclinic/petcare-backend/internal/repo"
	"github.com/petcareclinic/petcare-backend/pkg/db/models"
	"github.com/petcareclinic/petcare-backend/pkg/pagination"
)

var sortColumns = map[string]string{
	"createdAt": "created_at",
	"username":  "username",
	"email":     "email",
	"lastName":  "last_name",
}

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail matches case-insensitively.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("lower(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByLogin resolves either a username or an email address.
func (r *Repository) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	login = strings.TrimSpace(login)
	if strings.Contains(login, "@") {
		return r.FindByEmail(ctx, login)
	}
	return r.FindByUsername(ctx, login)
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", strings.TrimSpace(username)).Count(&count).Error
	return count > 0, err
}

func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("lower(email) = ?", strings.ToLower(strings.TrimSpace(email))).Count(&count).Error
	return count > 0, err
}

// List returns one page of users ordered by the requested column.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.User, int64, error) {
	return repo.Paginate[models.User](r.db.WithContext(ctx).Model(&models.User{}), params, sortColumns, "created_at")
}

// UpdateFields applies a partial column update and reports whether a row matched.
func (r *Repository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) (bool, error) {
	if len(fields) == 0 {
		return r.exists(ctx, id)
	}
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	return res.RowsAffected > 0, res.Error
}

func (r *Repository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", hash).Error
}

// UpdateLastLogin refreshes the user's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

func (r *Repository) exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
