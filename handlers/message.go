package handlers

import (
	"net/http"

	"hausly/models"
	"hausly/services/chat"
	"hausly/utils"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	Svc chat.MessageService
}

func NewMessageHandler(svc chat.MessageService) *MessageHandler {
	return &MessageHandler{Svc: svc}
}

func (h *MessageHandler) History(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	msgs, err := h.Svc.History(c.Request.Context(), sess, c.Param("bookingId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs, "count": len(msgs)})
}

func (h *MessageHandler) Send(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	var req models.SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	msg, err := h.Svc.Send(c.Request.Context(), sess, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	n, err := h.Svc.MarkRead(c.Request.Context(), sess, c.Param("bookingId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}
