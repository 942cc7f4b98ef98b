package handlers

import (
	"net/http"
	"strconv"

	"hausly/middleware"
	"hausly/models"
	"hausly/services/catalog"
	"hausly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogHandler serves service browsing and provider service management.
type CatalogHandler struct {
	Svc    catalog.CatalogService
	Logger *zap.Logger
}

func NewCatalogHandler(svc catalog.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{Svc: svc, Logger: logger}
}

// ListServices handles GET /api/services.
func (h *CatalogHandler) ListServices(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(catalog.DefaultPageSize)))

	filter := models.ServiceFilter{
		Category:   c.Query("category"),
		Search:     c.Query("search"),
		ProviderID: c.Query("providerId"),
		Page:       page,
		Limit:      limit,
	}
	caller := ""
	if id, ok := middleware.IdentityFrom(c); ok {
		caller = id.UID
	}

	res, err := h.Svc.ListServices(c.Request.Context(), filter, caller)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListCategories handles GET /api/services/categories.
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.Svc.Categories(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// CategoryInfo handles GET /api/categories.
func (h *CatalogHandler) CategoryInfo(c *gin.Context) {
	info, err := h.Svc.CategoryInfo(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// GetService handles GET /api/services/:id. Malformed ids never reach the store.
func (h *CatalogHandler) GetService(c *gin.Context) {
	id := c.Param("id")
	if !utils.IsObjectIDHex(id) {
		utils.JSONError(c, http.StatusBadRequest, utils.CodeInvalidID, "Invalid service ID format", "")
		return
	}
	svc, err := h.Svc.GetService(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (h *CatalogHandler) CreateService(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	var req models.CreateServiceRequest
	if !bindJSON(c, &req) {
		return
	}
	svc, err := h.Svc.CreateService(c.Request.Context(), sess, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	h.Logger.Info("Service created", zap.String("serviceId", svc.ID.Hex()), zap.String("providerId", sess.UID))
	c.JSON(http.StatusCreated, gin.H{"message": "Service created successfully", "service": svc})
}

func (h *CatalogHandler) UpdateService(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	var req models.UpdateServiceRequest
	if !bindJSON(c, &req) {
		return
	}
	svc, err := h.Svc.UpdateService(c.Request.Context(), sess, c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service updated", "service": svc})
}

func (h *CatalogHandler) SetActive(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	var req models.SetActiveRequest
	if !bindJSON(c, &req) {
		return
	}
	svc, err := h.Svc.SetActive(c.Request.Context(), sess, c.Param("id"), *req.IsActive)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service availability updated", "service": svc})
}
