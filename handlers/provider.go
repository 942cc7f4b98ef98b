package handlers

import (
	"net/http"

	"hausly/models"
	"hausly/services/provider"
	"hausly/utils"

	"github.com/gin-gonic/gin"
)

type ProviderHandler struct {
	Svc provider.ProviderService
}

func NewProviderHandler(svc provider.ProviderService) *ProviderHandler {
	return &ProviderHandler{Svc: svc}
}

// GetProfile handles GET /api/providers/:uid/profile.
func (h *ProviderHandler) GetProfile(c *gin.Context) {
	p, err := h.Svc.GetProfile(c.Request.Context(), c.Param("uid"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpsertProfile handles PUT /api/providers/profile.
func (h *ProviderHandler) UpsertProfile(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	var req models.UpsertProviderProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.Svc.UpsertProfile(c.Request.Context(), sess, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile saved", "profile": p})
}
