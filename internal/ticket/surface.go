package ticket

import (
	"context"
	"io"
)

// Format selects the output surface.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
)

// ParseFormat maps a query value to a Format; anything unknown is PDF.
func ParseFormat(s string) Format {
	if Format(s) == FormatHTML {
		return FormatHTML
	}
	return FormatPDF
}

// Extension is the file extension for the format.
func (f Format) Extension() string {
	if f == FormatHTML {
		return "html"
	}
	return "pdf"
}

// ContentType is the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatHTML {
		return "text/html; charset=utf-8"
	}
	return "application/pdf"
}

// Logo is a decoded branding image.
type Logo struct {
	MIME    string
	Data    []byte
	DataURI string
}

// Surface is a blank paginated canvas. Drawing calls accumulate; the first
// failure is reported by Flush.
type Surface interface {
	AddPage()
	SetPage(n int)
	Text(x, y float64, s string, st TextStyle)
	FillRect(x, y, w, h float64, c Color)
	StrokeRect(x, y, w, h float64, c Color)
	Line(x1, y1, x2, y2 float64, c Color)
	Image(logo *Logo, x, y, w, h float64)
	Flush(w io.Writer) error
}

// SurfaceFactory returns a fresh surface for each render.
type SurfaceFactory func(f Format, title string) (Surface, error)

// LogoLoader turns a logo reference (data URI or URL) into image bytes.
type LogoLoader interface {
	Load(ctx context.Context, ref string) (*Logo, error)
}

// paint replays the document onto s: every page body first, then a second
// pass over the finished pages for the footers.
func paint(s Surface, doc Document, logo *Logo) {
	for _, p := range doc.Pages {
		s.AddPage()
		for _, op := range p.Ops {
			paintOp(s, op, logo)
		}
	}
	for _, p := range doc.Pages {
		s.SetPage(p.Number)
		for _, op := range p.Footer {
			paintOp(s, op, logo)
		}
	}
}

func paintOp(s Surface, op Op, logo *Logo) {
	switch op.Kind {
	case OpText:
		if op.Text != "" {
			s.Text(op.X, op.Y, op.Text, op.Style)
		}
	case OpFill:
		s.FillRect(op.X, op.Y, op.W, op.H, op.Color)
	case OpStroke:
		s.StrokeRect(op.X, op.Y, op.W, op.H, op.Color)
	case OpLine:
		s.Line(op.X, op.Y, op.X+op.W, op.Y+op.H, op.Color)
	case OpImage:
		if logo != nil {
			s.Image(logo, op.X, op.Y, op.W, op.H)
		}
	}
}
