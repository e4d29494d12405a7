package handlers

import (
	"net/http"
	"strconv"

	"eticket/internal/domain"
	"eticket/internal/ticket"

	"github.com/gin-gonic/gin"
)

type ticketRequest struct {
	PNR            string          `json:"pnr"`
	LogoURL        string          `json:"logoUrl"`
	FlightSegments []ticket.Record `json:"flightSegments" binding:"max=6"`
	Passengers     []ticket.Record `json:"passengers" binding:"max=6"`
}

// POST /api/tickets?format=pdf|html
func (h *Handler) GenerateTicket(c *gin.Context) {
	var req ticketRequest
	if !bindJSON(c, &req) {
		return
	}
	in := ticket.Input{
		PNR:        req.PNR,
		LogoURL:    req.LogoURL,
		Segments:   req.FlightSegments,
		Passengers: req.Passengers,
	}
	art, err := h.docs(c).GenerateETicket(c.Request.Context(), in, ticketOptions(c))
	if err != nil {
		respondTicketError(c, err)
		return
	}
	sendArtifact(c, art)
}

// GET /api/bookings/:id/ticket?format=pdf|html&logoUrl=
func (h *Handler) BookingTicket(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid booking ID"})
		return
	}
	art, err := h.docs(c).GenerateForBooking(c.Request.Context(), id, ticketOptions(c))
	if err != nil {
		if domain.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Booking not found"})
			return
		}
		respondTicketError(c, err)
		return
	}
	sendArtifact(c, art)
}

func ticketOptions(c *gin.Context) ticket.Options {
	return ticket.Options{
		Format:  ticket.ParseFormat(c.Query("format")),
		LogoURL: c.Query("logoUrl"),
	}
}

func respondTicketError(c *gin.Context, err error) {
	if domain.IsValidation(err) {
		respondValidation(c, fieldErrors(err))
		return
	}
	respondError(c, http.StatusInternalServerError, "render_failed", "failed to generate ticket", nil)
}

func sendArtifact(c *gin.Context, art ticket.Artifact) {
	c.Header("Content-Disposition", `attachment; filename="`+art.FileName+`"`)
	c.Header("X-Ticket-Pages", strconv.Itoa(art.Pages))
	c.Data(http.StatusOK, art.ContentType, art.Body)
}
