package httperr

import (
	"errors"
	"net/http"
)

// Business error codes shared by the booking core and the HTTP layer.
const (
	CodeValidation          = "validation_error"
	CodeServiceNotFound     = "service_not_found"
	CodeAppointmentNotFound = "appointment_not_found"
	CodeProfessionalClosed  = "professional_closed"
	CodeOutsideWorkingHours = "outside_working_hours"
	CodeSlotConflict        = "slot_conflict"
	CodeUnauthorized        = "unauthorized"
)

type BusinessError struct {
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

// ErrBusinessMsg is ErrBusiness with a human readable message for the caller.
func ErrBusinessMsg(code, message string) error {
	return BusinessError{Code: code, Message: message}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// AsBusiness reports whether err carries a BusinessError and returns it.
func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}

// CodeOf returns the business code carried by err, or "" for other errors.
func CodeOf(err error) string {
	if be, ok := AsBusiness(err); ok {
		return be.Code
	}
	return ""
}

// StatusFor maps a business code to the HTTP status the API answers with.
func StatusFor(code string) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeServiceNotFound, CodeAppointmentNotFound:
		return http.StatusNotFound
	case CodeProfessionalClosed, CodeOutsideWorkingHours:
		return http.StatusUnprocessableEntity
	case CodeSlotConflict:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}
