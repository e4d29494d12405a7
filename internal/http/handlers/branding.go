package handlers

import (
	"errors"
	"io"
	"net/http"

	"eticket/internal/branding"

	"github.com/gin-gonic/gin"
)

// POST /api/branding/logo (multipart field "logo")
func (h *Handler) UploadLogo(c *gin.Context) {
	fh, err := c.FormFile("logo")
	if err != nil {
		respondError(c, http.StatusBadRequest, "missing_logo", "multipart field \"logo\" is required", nil)
		return
	}
	limit := h.MaxLogoBytes
	if limit <= 0 {
		limit = branding.DefaultMaxBytes
	}
	if fh.Size > limit {
		respondError(c, http.StatusRequestEntityTooLarge, "logo_too_large", branding.ErrTooLarge.Error(), gin.H{"max_bytes": limit})
		return
	}

	f, err := fh.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_logo", "cannot read upload", nil)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_logo", "cannot read upload", nil)
		return
	}
	if int64(len(data)) > limit {
		respondError(c, http.StatusRequestEntityTooLarge, "logo_too_large", branding.ErrTooLarge.Error(), gin.H{"max_bytes": limit})
		return
	}

	uri, err := branding.EncodeDataURI(data)
	if err != nil {
		if errors.Is(err, branding.ErrUnsupportedImage) || errors.Is(err, branding.ErrEmpty) {
			respondError(c, http.StatusUnsupportedMediaType, "invalid_logo", err.Error(), nil)
			return
		}
		respondError(c, http.StatusBadRequest, "invalid_logo", err.Error(), nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "logoUrl": uri})
}
