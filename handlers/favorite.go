package handlers

import (
	"net/http"

	"hausly/services/favorite"
	"hausly/utils"

	"github.com/gin-gonic/gin"
)

type FavoriteHandler struct {
	Svc favorite.FavoriteService
}

func NewFavoriteHandler(svc favorite.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{Svc: svc}
}

func (h *FavoriteHandler) List(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	services, err := h.Svc.List(c.Request.Context(), sess)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services, "count": len(services)})
}

func (h *FavoriteHandler) Add(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	if err := h.Svc.Add(c.Request.Context(), sess, c.Param("serviceId")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Added to favorites"})
}

func (h *FavoriteHandler) Remove(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	if err := h.Svc.Remove(c.Request.Context(), sess, c.Param("serviceId")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Removed from favorites"})
}
