package handlers

import (
	"net/http"

	"hausly/middleware"
	"hausly/models"
	"hausly/services/user"
	"hausly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	Svc    user.UserService
	Logger *zap.Logger
}

func NewUserHandler(svc user.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

// CompleteProfile handles POST /api/users/profile for a signed-up identity with no record yet.
func (h *UserHandler) CompleteProfile(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, utils.CodeUnauthorized, "Authentication required", "")
		return
	}
	var req models.CompleteProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Svc.CompleteProfile(c.Request.Context(), id, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	h.Logger.Info("Profile completed", zap.String("uid", u.UID), zap.String("role", string(u.Role)))
	c.JSON(http.StatusCreated, gin.H{"message": "Profile created", "user": u})
}

func (h *UserHandler) GetMe(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.User)
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	var req models.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), sess, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "user": u})
}

func (h *UserHandler) UpdateFCMToken(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	var req models.FCMTokenRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Svc.SetFCMToken(c.Request.Context(), sess.UID, req.Token); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "FCM token updated"})
}
