package models

import "time"

// WorkingHours is one open interval of a weekday. A weekday may carry
// several rows (split shifts).
type WorkingHours struct {
	Base
	ProfessionalID string `gorm:"type:uuid;index:idx_wh_pro_weekday;not null" json:"professional_id"`

	Weekday int `gorm:"index:idx_wh_pro_weekday" json:"weekday"`

	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`
	Active    bool   `gorm:"not null" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
