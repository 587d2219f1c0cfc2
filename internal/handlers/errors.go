package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/pro-scheduler/internal/domain/identity"
	"github.com/BruksfildServices01/pro-scheduler/internal/httperr"
	"github.com/BruksfildServices01/pro-scheduler/internal/middleware"
)

// respondError writes business errors with their mapped status and
// everything else as a 500 under fallbackCode.
func respondError(c *gin.Context, log zerolog.Logger, err error, fallbackCode string) {
	if be, ok := httperr.AsBusiness(err); ok {
		httperr.FromBusiness(c, be)
		return
	}

	log.Error().Err(err).
		Str("path", c.FullPath()).
		Msg(fallbackCode)
	httperr.Internal(c, fallbackCode, "internal error")
}

// principal returns the caller set by the auth middleware. Routes behind
// AuthMiddleware always have one.
func principal(c *gin.Context) identity.Principal {
	p, _ := middleware.PrincipalFrom(c)
	return p
}
