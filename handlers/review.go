package handlers

import (
	"net/http"

	"hausly/models"
	"hausly/services/review"
	"hausly/utils"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	Svc review.ReviewService
}

func NewReviewHandler(svc review.ReviewService) *ReviewHandler {
	return &ReviewHandler{Svc: svc}
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	var req models.CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := h.Svc.Create(c.Request.Context(), sess, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Review submitted", "review": r})
}

func (h *ReviewHandler) ListByService(c *gin.Context) {
	reviews, err := h.Svc.ListByService(c.Request.Context(), c.Param("serviceId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "count": len(reviews)})
}

func (h *ReviewHandler) ListByProvider(c *gin.Context) {
	reviews, err := h.Svc.ListByProvider(c.Request.Context(), c.Param("providerId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "count": len(reviews)})
}

func (h *ReviewHandler) Respond(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	var req models.ReviewResponseRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := h.Svc.Respond(c.Request.Context(), sess, c.Param("id"), req.Comment)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Response saved", "review": r})
}
