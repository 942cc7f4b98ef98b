package handlers

import (
	"net/http"

	"hausly/models"
	"hausly/services/admin"
	"hausly/utils"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	Svc admin.AdminService
}

func NewAdminHandler(svc admin.AdminService) *AdminHandler {
	return &AdminHandler{Svc: svc}
}

// GetAllUsersHandler handles GET /api/admin/users.
func (h *AdminHandler) GetAllUsersHandler(c *gin.Context) {
	users, err := h.Svc.ListUsers(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

// SetRoleHandler handles PUT /api/admin/users/:uid/role.
func (h *AdminHandler) SetRoleHandler(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	var req models.UpdateRoleRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Svc.SetRole(c.Request.Context(), sess, c.Param("uid"), req.Role)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role updated", "user": u})
}
