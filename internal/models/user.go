package models

import "time"

const (
	RolePro    = "PRO"
	RoleClient = "CLIENT"
)

// User is both the login identity and, for RolePro, the tenant that owns
// services, working hours, clients and appointments.
type User struct {
	Base

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;default:'PRO'" json:"role"`

	BusinessName string  `gorm:"size:100" json:"business_name"`
	Slug         *string `gorm:"size:100;uniqueIndex" json:"slug,omitempty"`
	Address      string  `gorm:"size:255" json:"address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsPro() bool {
	return u.Role == RolePro
}
