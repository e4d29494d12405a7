// Package render provides the output surfaces the ticket builder paints on.
package render

import (
	"fmt"

	"eticket/internal/ticket"
)

// NewSurface is a ticket.SurfaceFactory covering every supported format.
func NewSurface(f ticket.Format, title string) (ticket.Surface, error) {
	switch f {
	case ticket.FormatPDF, "":
		s, err := NewPDFSurface(title)
		if err != nil {
			return nil, err
		}
		return s, nil
	case ticket.FormatHTML:
		return NewHTMLSurface(title), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", f)
	}
}

var _ ticket.SurfaceFactory = NewSurface
