package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tharunramasamy/quickpickapp/middleware"
	"github.com/tharunramasamy/quickpickapp/services"
)

// realtimeTokenTTL bounds how long a negotiated subscription stays valid.
const realtimeTokenTTL = 15 * time.Minute

type RealtimeController struct {
	tokens *services.TokenService
	url    string
	hub    string
}

func NewRealtimeController(tokens *services.TokenService, url, hub string) *RealtimeController {
	return &RealtimeController{tokens: tokens, url: url, hub: hub}
}

// Negotiate returns the websocket bridge URL and a short-lived token bound
// to the order hub.
func (rc *RealtimeController) Negotiate(c *gin.Context) {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	token, err := rc.tokens.GenerateRealtime(claims.UserID, rc.hub, realtimeTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": rc.url, "token": token, "hub": rc.hub})
}
