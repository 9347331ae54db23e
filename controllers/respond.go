package controllers

import (
	"errors"
	"net/http"

	"github.com/dmarins/bingo-live/services"
	"github.com/gin-gonic/gin"
)

// API bundles the handlers' dependencies.
type API struct {
	Svc        *services.RoundService
	AdminToken string
}

// respondError maps the service error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message, "code": ve.Code})
	case errors.Is(err, services.ErrRoundMissing):
		c.JSON(http.StatusNotFound, gin.H{"error": "round not initialized"})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "round is busy, try again"})
	case services.IsTransient(err):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "temporary failure, try again"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// requireAdmin re-checks the admin token on every privileged entry point.
// Destructive handlers additionally require a justification in the body;
// both are validated here and again in the service layer.
func (a *API) requireAdmin(c *gin.Context) bool {
	if c.GetHeader("X-Admin-Token") != a.AdminToken {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin token required"})
		return false
	}
	return true
}
