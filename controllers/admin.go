package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type wipeCardsRequest struct {
	actorRequest
	PlayerID      string `json:"playerId" binding:"required"`
	Justification string `json:"justification" binding:"required"`
}

// WipePlayerCards removes every card a player holds, with refund.
func (a *API) WipePlayerCards(c *gin.Context) {
	if !a.requireAdmin(c) {
		return
	}
	var req wipeCardsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := a.Svc.WipePlayerCards(c.Request.Context(), req.ActorID, req.ActorName, req.PlayerID, req.Justification)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cards removed"})
}

type balanceRequest struct {
	actorRequest
	PlayerID      string `json:"playerId" binding:"required"`
	Delta         int64  `json:"delta" binding:"required"`
	Justification string `json:"justification" binding:"required"`
}

// AdjustBalance credits or debits a player, audited.
func (a *API) AdjustBalance(c *gin.Context) {
	if !a.requireAdmin(c) {
		return
	}
	var req balanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := a.Svc.AdjustBalance(c.Request.Context(), req.ActorID, req.ActorName, req.PlayerID, req.Delta, req.Justification)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "balance updated"})
}

// ListHistory returns archived rounds.
func (a *API) ListHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	rows, err := a.Svc.ListHistory(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// ListAudit returns the audit trail.
func (a *API) ListAudit(c *gin.Context) {
	if !a.requireAdmin(c) {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	rows, err := a.Svc.ListAudit(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
