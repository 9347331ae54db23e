package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}

// RegisterUser creates a player account.
func (a *API) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := a.Svc.RegisterUser(c.Request.Context(), req.Name, req.Phone)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// GetUser fetches a player by id.
func (a *API) GetUser(c *gin.Context) {
	user, err := a.Svc.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Heartbeat refreshes the caller's presence timestamp.
func (a *API) Heartbeat(c *gin.Context) {
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := a.Svc.Heartbeat(c.Request.Context(), req.PlayerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

// OnlinePlayers lists players seen within the presence window.
func (a *API) OnlinePlayers(c *gin.Context) {
	users, err := a.Svc.OnlinePlayers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
