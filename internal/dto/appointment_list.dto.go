package dto

import (
	"time"

	"github.com/BruksfildServices01/pro-scheduler/internal/models"
)

type AppointmentListDTO struct {
	ID               string    `json:"id"`
	StartAt          time.Time `json:"start_at"`
	EndAt            time.Time `json:"end_at"`
	Status           string    `json:"status"`
	ClientName       string    `json:"client_name"`
	ClientEmail      string    `json:"client_email"`
	ClientPhone      string    `json:"client_phone"`
	ServiceName      string    `json:"service_name"`
	NotificationSent bool      `json:"notification_sent"`
	Notes            string    `json:"notes"`
}

// AppointmentList maps stored appointments to the calendar view. Client
// fields come from the booking snapshot, not the live client record.
func AppointmentList(apps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(apps))
	for _, ap := range apps {
		out = append(out, AppointmentListDTO{
			ID:               ap.ID,
			StartAt:          ap.StartAt,
			EndAt:            ap.EndAt,
			Status:           ap.Status,
			ClientName:       ap.ClientName,
			ClientEmail:      ap.ClientEmail,
			ClientPhone:      ap.ClientPhone,
			ServiceName:      ap.Service.Name,
			NotificationSent: ap.NotificationSent,
			Notes:            ap.Notes,
		})
	}
	return out
}
