package users

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/petcareclinic/petcare-backend/pkg/db/models"
	"github.com/petcareclinic/petcare-backend/pkg/enums"
)

const defaultCountry = "Sri Lanka"

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID              uuid.UUID      `json:"id"`
	Username        string         `json:"username"`
	Email           string         `json:"email"`
	FirstName       string         `json:"first_name"`
	LastName        string         `json:"last_name"`
	Phone           *string        `json:"phone,omitempty"`
	Address         *string        `json:"address,omitempty"`
	City            *string        `json:"city,omitempty"`
	State           *string        `json:"state,omitempty"`
	ZipCode         *string        `json:"zip_code,omitempty"`
	Country         string         `json:"country"`
	Role            enums.UserRole `json:"role"`
	IsActive        bool           `json:"is_active"`
	EmailVerified   bool           `json:"email_verified"`
	ProfileImageURL *string        `json:"profile_image_url,omitempty"`
	DateOfBirth     *time.Time     `json:"date_of_birth,omitempty"`
	LastLoginAt     *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        *string
	Address      *string
	City         *string
	State        *string
	ZipCode      *string
	Country      string
	Role         enums.UserRole
	IsActive     *bool
}

// ProfileUpdate is the self-service edit. Username, email and password cannot
// be changed here.
type ProfileUpdate struct {
	FirstName       string     `json:"first_name" validate:"required,max=100"`
	LastName        string     `json:"last_name" validate:"required,max=100"`
	Phone           *string    `json:"phone,omitempty" validate:"omitempty,max=30"`
	Address         *string    `json:"address,omitempty"`
	City            *string    `json:"city,omitempty" validate:"omitempty,max=100"`
	State           *string    `json:"state,omitempty" validate:"omitempty,max=100"`
	ZipCode         *string    `json:"zip_code,omitempty" validate:"omitempty,max=20"`
	Country         *string    `json:"country,omitempty" validate:"omitempty,max=100"`
	ProfileImageURL *string    `json:"profile_image_url,omitempty" validate:"omitempty,url"`
	DateOfBirth     *time.Time `json:"date_of_birth,omitempty"`
}

// AdminCreateRequest creates an account on behalf of someone else. A temporary
// password is generated when Password is empty.
type AdminCreateRequest struct {
	Username  string          `json:"username" validate:"required,min=3,max=50"`
	Email     string          `json:"email" validate:"required,email"`
	Password  string          `json:"password,omitempty"`
	FirstName string          `json:"first_name" validate:"required,max=100"`
	LastName  string          `json:"last_name" validate:"required,max=100"`
	Phone     *string         `json:"phone,omitempty"`
	Role      *enums.UserRole `json:"role,omitempty"`
}

// AdminCreateResult returns the temporary password exactly once.
type AdminCreateResult struct {
	User              *UserDTO `json:"user"`
	TemporaryPassword string   `json:"temporary_password,omitempty"`
}

// AdminUpdateRequest only touches fields that are present.
type AdminUpdateRequest struct {
	FirstName     *string         `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName      *string         `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Phone         *string         `json:"phone,omitempty"`
	Address       *string         `json:"address,omitempty"`
	City          *string         `json:"city,omitempty"`
	State         *string         `json:"state,omitempty"`
	ZipCode       *string         `json:"zip_code,omitempty"`
	Country       *string         `json:"country,omitempty"`
	Role          *enums.UserRole `json:"role,omitempty"`
	IsActive      *bool           `json:"is_active,omitempty"`
	EmailVerified *bool           `json:"email_verified,omitempty"`
}

func (r AdminUpdateRequest) fields() map[string]any {
	out := map[string]any{}
	setString := func(col string, v *string) {
		if v != nil {
			out[col] = strings.TrimSpace(*v)
		}
	}
	setString("first_name", r.FirstName)
	setString("last_name", r.LastName)
	setString("phone", r.Phone)
	setString("address", r.Address)
	setString("city", r.City)
	setString("state", r.State)
	setString("zip_code", r.ZipCode)
	setString("country", r.Country)
	if r.Role != nil {
		out["role"] = *r.Role
	}
	if r.IsActive != nil {
		out["is_active"] = *r.IsActive
	}
	if r.EmailVerified != nil {
		out["email_verified"] = *r.EmailVerified
	}
	return out
}

// ChangePasswordRequest is posted by the account owner.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Phone:           u.Phone,
		Address:         u.Address,
		City:            u.City,
		State:           u.State,
		ZipCode:         u.ZipCode,
		Country:         u.Country,
		Role:            u.Role,
		IsActive:        u.IsActive,
		EmailVerified:   u.EmailVerified,
		ProfileImageURL: u.ProfileImageURL,
		DateOfBirth:     u.DateOfBirth,
		LastLoginAt:     u.LastLoginAt,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}
	role := c.Role
	if role == "" {
		role = enums.UserRoleUser
	}
	country := strings.TrimSpace(c.Country)
	if country == "" {
		country = defaultCountry
	}

	return &models.User{
		Username:     strings.TrimSpace(c.Username),
		Email:        strings.ToLower(strings.TrimSpace(c.Email)),
		PasswordHash: c.PasswordHash,
		FirstName:    strings.TrimSpace(c.FirstName),
		LastName:     strings.TrimSpace(c.LastName),
		Phone:        c.Phone,
		Address:      c.Address,
		City:         c.City,
		State:        c.State,
		ZipCode:      c.ZipCode,
		Country:      country,
		Role:         role,
		IsActive:     isActive,
	}
}
