package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"eticket/internal/ticket"

	"github.com/phpdave11/gofpdf"
)

const (
	fontFamily = "Helvetica"
	arrowGlyph = "→"
	// points to millimetres
	ptToMM = 25.4 / 72
)

// PDFSurface paints onto an A4 gofpdf document. The core Helvetica font is
// cp1252, so text goes through the matching translator and the route arrow is
// drawn as vector art.
type PDFSurface struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	images int
}

// NewPDFSurface returns an empty A4 portrait PDF canvas.
func NewPDFSurface(title string) (*PDFSurface, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreator("eticket", false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	if pdf.Err() {
		return nil, fmt.Errorf("init pdf: %w", pdf.Error())
	}
	return &PDFSurface{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}, nil
}

func (s *PDFSurface) AddPage() { s.pdf.AddPage() }

func (s *PDFSurface) SetPage(n int) { s.pdf.SetPage(n) }

func (s *PDFSurface) Text(x, y float64, txt string, st ticket.TextStyle) {
	setFont(s.pdf, st)
	s.pdf.SetTextColor(int(st.Color.R), int(st.Color.G), int(st.Color.B))

	arrowW := arrowWidth(st)
	width := textWidth(s.pdf, s.tr, txt, st)
	pieces := strings.Split(txt, arrowGlyph)
	for i, p := range pieces {
		pieces[i] = s.tr(p)
	}

	switch st.Align {
	case ticket.AlignCenter:
		x -= width / 2
	case ticket.AlignRight:
		x -= width
	}

	for i, p := range pieces {
		if p != "" {
			s.pdf.Text(x, y, p)
			x += s.pdf.GetStringWidth(p)
		}
		if i < len(pieces)-1 {
			s.arrow(x, y, arrowW, st)
			x += arrowW
		}
	}
}

// arrow draws a right-pointing arrow in the current text colour, centred on
// the x-height of a font of st.Size.
func (s *PDFSurface) arrow(x, y, w float64, st ticket.TextStyle) {
	h := st.Size * ptToMM
	mid := y - h*0.3
	head := h * 0.22
	s.pdf.SetDrawColor(int(st.Color.R), int(st.Color.G), int(st.Color.B))
	s.pdf.SetFillColor(int(st.Color.R), int(st.Color.G), int(st.Color.B))
	s.pdf.SetLineWidth(h * 0.06)
	s.pdf.Line(x+w*0.15, mid, x+w*0.85-head, mid)
	s.pdf.Polygon([]gofpdf.PointType{
		{X: x + w*0.85 - head, Y: mid - head*0.6},
		{X: x + w*0.85, Y: mid},
		{X: x + w*0.85 - head, Y: mid + head*0.6},
	}, "F")
	s.pdf.SetLineWidth(0.2)
}

func (s *PDFSurface) FillRect(x, y, w, h float64, c ticket.Color) {
	s.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	s.pdf.Rect(x, y, w, h, "F")
}

func (s *PDFSurface) StrokeRect(x, y, w, h float64, c ticket.Color) {
	s.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	s.pdf.SetLineWidth(0.2)
	s.pdf.Rect(x, y, w, h, "D")
}

func (s *PDFSurface) Line(x1, y1, x2, y2 float64, c ticket.Color) {
	s.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	s.pdf.SetLineWidth(0.2)
	s.pdf.Line(x1, y1, x2, y2)
}

// Image places the logo scaled to fit inside the w x h box, keeping its
// aspect ratio.
func (s *PDFSurface) Image(logo *ticket.Logo, x, y, w, h float64) {
	if logo == nil || len(logo.Data) == 0 {
		return
	}
	imgType := imageType(logo.MIME)
	if imgType == "" {
		s.pdf.SetErrorf("unsupported logo type %q", logo.MIME)
		return
	}
	s.images++
	name := fmt.Sprintf("logo-%d", s.images)
	opts := gofpdf.ImageOptions{ImageType: imgType, ReadDpi: false}
	info := s.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(logo.Data))
	if s.pdf.Err() || info == nil {
		return
	}
	iw, ih := info.Extent()
	if iw <= 0 || ih <= 0 {
		return
	}
	scale := w / iw
	if ih*scale > h {
		scale = h / ih
	}
	s.pdf.ImageOptions(name, x, y, iw*scale, ih*scale, false, opts, 0, "")
}

// Flush writes the finished PDF. Any error recorded by gofpdf while drawing
// surfaces here.
func (s *PDFSurface) Flush(w io.Writer) error {
	if s.pdf.Err() {
		return s.pdf.Error()
	}
	return s.pdf.Output(w)
}

func imageType(mime string) string {
	switch strings.ToLower(mime) {
	case "image/png":
		return "PNG"
	case "image/jpeg", "image/jpg":
		return "JPG"
	case "image/gif":
		return "GIF"
	default:
		return ""
	}
}
