package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetRound returns the live round document.
func (a *API) GetRound(c *gin.Context) {
	round, err := a.Svc.GetRound(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, round)
}

type actorRequest struct {
	ActorID   string `json:"actorId" binding:"required"`
	ActorName string `json:"actorName" binding:"required"`
}

// StartRound moves the round from waiting to running.
func (a *API) StartRound(c *gin.Context) {
	if !a.requireAdmin(c) {
		return
	}
	var req actorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := a.Svc.StartRound(c.Request.Context(), req.ActorID, req.ActorName); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "round started"})
}

type pauseRequest struct {
	actorRequest
	Reason string `json:"reason" binding:"required"`
}

// PauseRound suspends a running round with a mandatory reason.
func (a *API) PauseRound(c *gin.Context) {
	if !a.requireAdmin(c) {
		return
	}
	var req pauseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := a.Svc.Pause(c.Request.Context(), req.ActorID, req.ActorName, req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "round paused"})
}

// ResumeRound lifts a pause.
func (a *API) ResumeRound(c *gin.Context) {
	if !a.requireAdmin(c) {
		return
	}
	var req actorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := a.Svc.Resume(c.Request.Context(), req.ActorID, req.ActorName); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "round resumed"})
}

type resetRequest struct {
	actorRequest
	Justification string `json:"justification" binding:"required"`
}

// ResetRound is the forced administrative reset: archive, wipe, re-token.
func (a *API) ResetRound(c *gin.Context) {
	if !a.requireAdmin(c) {
		return
	}
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := a.Svc.ForceReset(c.Request.Context(), req.ActorID, req.ActorName, req.Justification); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "round reset"})
}

type settingsRequest struct {
	actorRequest
	LobbyCountdownSec int `json:"lobbyCountdownSec" binding:"required"`
	DrawIntervalSec   int `json:"drawIntervalSec" binding:"required"`
	EndGameDelaySec   int `json:"endGameDelaySec" binding:"required"`
}

// UpdateSettings edits the timing knobs; the driver picks them up on the
// next tick.
func (a *API) UpdateSettings(c *gin.Context) {
	if !a.requireAdmin(c) {
		return
	}
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := a.Svc.UpdateSettings(c.Request.Context(), req.ActorID, req.ActorName,
		req.LobbyCountdownSec, req.DrawIntervalSec, req.EndGameDelaySec)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "settings updated"})
}
