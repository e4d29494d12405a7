package handlers

import (
	"eticket/internal/http/middleware"
	"eticket/internal/services"
	"eticket/internal/store"

	"github.com/gin-gonic/gin"
)

// Handler carries the services behind every route. Each request works on a
// copy tagged with its request id.
type Handler struct {
	Bookings     services.BookingService
	Docs         services.DocsService
	Auth         services.AuthService
	Export       services.ExportService
	Store        store.Store
	MaxLogoBytes int64
}

func (h *Handler) bookings(c *gin.Context) services.BookingService {
	svc := h.Bookings
	svc.RequestID = middleware.GetRequestID(c)
	return svc
}

func (h *Handler) docs(c *gin.Context) services.DocsService {
	svc := h.Docs
	svc.RequestID = middleware.GetRequestID(c)
	return svc
}

func (h *Handler) auth(c *gin.Context) services.AuthService {
	svc := h.Auth
	svc.RequestID = middleware.GetRequestID(c)
	return svc
}

func (h *Handler) export(c *gin.Context) services.ExportService {
	svc := h.Export
	svc.RequestID = middleware.GetRequestID(c)
	svc.Bookings.RequestID = svc.RequestID
	return svc
}
