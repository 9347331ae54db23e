package controllers

import (
	"net/http"

	"github.com/dmarins/bingo-live/models"
	"github.com/gin-gonic/gin"
)

type purchaseRequest struct {
	PlayerID string `json:"playerId" binding:"required"`
}

// BuyCard purchases one card for the player. All preconditions (waiting
// status, balance, card cap) are validated inside the transaction.
func (a *API) BuyCard(c *gin.Context) {
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	card, err := a.Svc.PurchaseCard(c.Request.Context(), req.PlayerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, card)
}

// GetCards lists a player's cards for the active round.
func (a *API) GetCards(c *gin.Context) {
	cards, err := a.Svc.GetCardSet(c.Request.Context(), c.Param("player_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if cards == nil {
		cards = []models.BingoCard{}
	}
	c.JSON(http.StatusOK, cards)
}
