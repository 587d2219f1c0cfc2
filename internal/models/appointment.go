package models

import "time"

type Appointment struct {
	Base

	ProfessionalID string `gorm:"type:uuid;index:idx_ap_pro_start;not null" json:"professional_id"`

	ServiceID string  `gorm:"type:uuid;not null" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"service"`

	ClientID *string `gorm:"type:uuid" json:"client_id"`
	Client   *Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client,omitempty"`

	// CustomerID links an authenticated CLIENT account, when the booking was
	// made while logged in.
	CustomerID *string `gorm:"type:uuid" json:"customer_id,omitempty"`

	StartAt time.Time `gorm:"index:idx_ap_pro_start;not null" json:"start_at"`
	EndAt   time.Time `gorm:"not null" json:"end_at"`

	Status string `gorm:"size:20;default:'PENDING'" json:"status"`

	// Snapshot taken at booking time, never re-derived from Client.
	ClientName  string `gorm:"size:100;not null" json:"client_name"`
	ClientEmail string `gorm:"size:100" json:"client_email"`
	ClientPhone string `gorm:"size:20" json:"client_phone"`

	NotificationSent bool `gorm:"default:false" json:"notification_sent"`

	Notes       string     `gorm:"size:255" json:"notes"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
