package render

import (
	"strings"
	"sync"

	"eticket/internal/ticket"

	"github.com/phpdave11/gofpdf"
)

// measurer holds a page-less gofpdf document used only for font metrics.
var measurer struct {
	once sync.Once
	mu   sync.Mutex
	pdf  *gofpdf.Fpdf
	tr   func(string) string
}

// MeasureText returns the width gofpdf gives txt in the core Helvetica font.
// It backs ticket.Formatter.Measure so table cells wrap against real glyph
// widths.
func MeasureText(txt string, st ticket.TextStyle) float64 {
	measurer.once.Do(func() {
		measurer.pdf = gofpdf.New("P", "mm", "A4", "")
		measurer.tr = measurer.pdf.UnicodeTranslatorFromDescriptor("")
	})
	measurer.mu.Lock()
	defer measurer.mu.Unlock()
	setFont(measurer.pdf, st)
	return textWidth(measurer.pdf, measurer.tr, txt, st)
}

func setFont(pdf *gofpdf.Fpdf, st ticket.TextStyle) {
	style := ""
	if st.Bold {
		style = "B"
	}
	pdf.SetFont(fontFamily, style, st.Size)
}

// textWidth measures txt with the font already set on pdf, counting each
// route arrow as drawn vector art.
func textWidth(pdf *gofpdf.Fpdf, tr func(string) string, txt string, st ticket.TextStyle) float64 {
	pieces := strings.Split(txt, arrowGlyph)
	width := arrowWidth(st) * float64(len(pieces)-1)
	for _, p := range pieces {
		width += pdf.GetStringWidth(tr(p))
	}
	return width
}

func arrowWidth(st ticket.TextStyle) float64 { return st.Size * ptToMM * 1.1 }
