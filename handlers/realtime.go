package handlers

import (
	"errors"
	"net/http"

	"hausly/database"
	"hausly/middleware"
	"hausly/models"
	"hausly/realtime"
	"hausly/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type RealtimeHandler struct {
	Hub      *realtime.Hub
	Tickets  *realtime.TicketIssuer
	Users    middleware.UserLookup
	Upgrader websocket.Upgrader
	Logger   *zap.Logger
}

func NewRealtimeHandler(hub *realtime.Hub, tickets *realtime.TicketIssuer, users middleware.UserLookup, allowedOrigin string, logger *zap.Logger) *RealtimeHandler {
	return &RealtimeHandler{
		Hub:      hub,
		Tickets:  tickets,
		Users:    users,
		Upgrader: realtime.NewUpgrader(allowedOrigin),
		Logger:   logger,
	}
}

// IssueTicket handles POST /api/chat/ticket.
func (h *RealtimeHandler) IssueTicket(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	ticket, expires, err := h.Tickets.Issue(sess.UID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticket": ticket, "expiresAt": expires})
}

// Connect handles GET /ws?ticket=.
func (h *RealtimeHandler) Connect(c *gin.Context) {
	uid, err := h.Tickets.Parse(c.Query("ticket"))
	if err != nil {
		utils.JSONError(c, http.StatusUnauthorized, utils.CodeUnauthorized, "Invalid or expired ticket", "")
		return
	}
	user, err := h.Users.GetByUID(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, utils.CodeUserNotFound, "User profile not found", "")
			return
		}
		utils.RespondError(c, err)
		return
	}
	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Warn("Connect: websocket upgrade failed", zap.String("uid", uid), zap.Error(err))
		return
	}
	h.Hub.Serve(conn, &models.Session{
		Identity: models.Identity{UID: user.UID, Email: user.Email},
		User:     user,
	})
}
