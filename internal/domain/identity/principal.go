package identity

import (
	"github.com/BruksfildServices01/pro-scheduler/internal/httperr"
	"github.com/BruksfildServices01/pro-scheduler/internal/models"
)

// Principal is the authenticated caller as handed over by the auth
// middleware. The core never reads session state on its own.
type Principal struct {
	UserID string
	Role   string
}

func (p Principal) IsPro() bool {
	return p.UserID != "" && p.Role == models.RolePro
}

// ProfessionalID returns the tenant the principal acts for, failing when
// the caller is not a professional.
func (p Principal) ProfessionalID() (string, error) {
	if !p.IsPro() {
		return "", httperr.ErrBusinessMsg(httperr.CodeUnauthorized, "professional account required")
	}
	return p.UserID, nil
}
