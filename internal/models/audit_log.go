package models

import "time"

type AuditLog struct {
	Base

	ProfessionalID string  `gorm:"type:uuid;index;not null" json:"professional_id"`
	UserID         *string `gorm:"type:uuid" json:"user_id"`
	Action         string  `gorm:"size:50;not null" json:"action"`

	Entity   string  `gorm:"size:50" json:"entity"`
	EntityID *string `gorm:"type:uuid" json:"entity_id"`
	Metadata string  `gorm:"type:text" json:"metadata"`

	CreatedAt time.Time `json:"created_at"`
}
