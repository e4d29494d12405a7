package handlers

import (
	"net/http"
	"time"

	"eticket/internal/domain"
	"eticket/internal/domain/models"
	"eticket/internal/services"

	"github.com/gin-gonic/gin"
)

// POST /api/bookings
func (h *Handler) CreateBooking(c *gin.Context) {
	var in services.BookingInput
	if !bindJSON(c, &in) {
		return
	}
	b, err := h.bookings(c).Create(c.Request.Context(), in)
	if err != nil {
		if domain.IsValidation(err) {
			respondValidation(c, fieldErrors(err))
			return
		}
		respondInternal(c)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"booking": b.Summary(),
		"message": "Booking created successfully",
	})
}

// GET /api/bookings
func (h *Handler) ListBookings(c *gin.Context) {
	list, err := h.bookings(c).List(c.Request.Context())
	if err != nil {
		respondInternal(c)
		return
	}
	out := make([]models.BookingSummary, 0, len(list))
	for _, b := range list {
		out = append(out, b.Summary())
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bookings": out})
}

// GET /api/bookings/:id
func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid booking ID"})
		return
	}
	b, err := h.bookings(c).Get(c.Request.Context(), id)
	switch {
	case domain.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Booking not found"})
	case err != nil:
		respondInternal(c)
	default:
		c.JSON(http.StatusOK, gin.H{"success": true, "booking": b})
	}
}

// GET /api/bookings/export.xlsx
func (h *Handler) ExportBookings(c *gin.Context) {
	data, err := h.export(c).BookingsXLSX(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+services.ExportFileName(time.Now())+`"`)
	c.Data(http.StatusOK, services.XLSXContentType, data)
}
