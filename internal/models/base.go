package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base gives every table a UUID primary key generated on insert.
type Base struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`
}

func (b *Base) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
