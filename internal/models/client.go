package models

import "time"

// Client is the professional's own record of a customer, unique per
// (professional, email).
type Client struct {
	Base
	ProfessionalID string `gorm:"type:uuid;uniqueIndex:idx_client_pro_email;not null" json:"professional_id"`

	Name  string  `gorm:"size:100;not null" json:"name"`
	Email *string `gorm:"size:100;uniqueIndex:idx_client_pro_email" json:"email"`
	Phone string  `gorm:"size:20" json:"phone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
