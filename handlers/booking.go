package handlers

import (
	"net/http"
	"strconv"

	"hausly/middleware"
	"hausly/models"
	"hausly/services/booking"
	"hausly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdempotencyHeader carries the client-chosen key that makes POST /api/bookings safe to retry.
const IdempotencyHeader = "Idempotency-Key"

// BookingHandler serves the booking lifecycle endpoints.
type BookingHandler struct {
	Svc    booking.BookingService
	Logger *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Svc: svc, Logger: logger}
}

// CreateBooking handles POST /api/bookings. The user record is resolved by the
// service so that body validation is reported before a missing profile.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, utils.CodeUnauthorized, "Authentication required", "")
		return
	}

	var req models.CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.Svc.CreateBooking(c.Request.Context(), id, req, c.GetHeader(IdempotencyHeader))
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	status := http.StatusCreated
	message := "Booking created successfully"
	if res.Replayed {
		status = http.StatusOK
		message = "Booking already created"
	}
	c.JSON(status, gin.H{
		"message":      message,
		"booking":      res.Booking,
		"serviceTitle": res.ServiceTitle,
		"providerName": res.ProviderName,
	})
}

// UpdateStatus handles PUT /api/bookings/:id/status.
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	var req models.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.Svc.UpdateStatus(c.Request.Context(), sess, c.Param("id"), req.Status)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	message := "Booking status updated to " + string(res.Booking.Status)
	if !res.Changed {
		message = "Booking already " + string(res.Booking.Status)
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "booking": res.Booking})
}

// CancelBooking handles DELETE /api/bookings/:id. Bookings are cancelled, never removed.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	res, err := h.Svc.Cancel(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled", "booking": res.Booking})
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	b, err := h.Svc.GetBooking(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// listFilter reads ?status, ?page and ?limit. Bad numbers fall back to defaults.
func listFilter(c *gin.Context) models.BookingListFilter {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return models.BookingListFilter{Status: c.Query("status"), Page: page, Limit: limit}
}

func (h *BookingHandler) ListCustomerBookings(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	page, err := h.Svc.ListCustomerBookings(c.Request.Context(), sess, listFilter(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *BookingHandler) ListProviderBookings(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	page, err := h.Svc.ListProviderBookings(c.Request.Context(), sess, listFilter(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *BookingHandler) PendingCount(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	n, err := h.Svc.PendingCount(c.Request.Context(), sess)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}
