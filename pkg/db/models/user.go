package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/petcareclinic/petcare-backend/pkg/enums"
)

// User is a clinic customer, administrator or veterinarian login.
type User struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Username        string         `gorm:"column:username;not null;uniqueIndex"`
	Email           string         `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash    string         `gorm:"column:password_hash;not null"`
	FirstName       string         `gorm:"column:first_name;not null"`
	LastName        string         `gorm:"column:last_name;not null"`
	Phone           *string        `gorm:"column:phone"`
	Address         *string        `gorm:"column:address"`
	City            *string        `gorm:"column:city"`
	State           *string        `gorm:"column:state"`
	ZipCode         *string        `gorm:"column:zip_code"`
	Country         string         `gorm:"column:country;not null"`
	Role            enums.UserRole `gorm:"column:role;type:user_role;not null"`
	IsActive        bool           `gorm:"column:is_active;not null"`
	EmailVerified   bool           `gorm:"column:email_verified;not null"`
	ProfileImageURL *string        `gorm:"column:profile_image_url"`
	DateOfBirth     *time.Time     `gorm:"column:date_of_birth;type:date"`
	LastLoginAt     *time.Time     `gorm:"column:last_login_at"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

// FullName joins first and last name for display and snapshots.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
