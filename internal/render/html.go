package render

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"html"
	"io"
	"strings"

	"eticket/internal/ticket"
)

// HTMLSurface paints absolutely positioned elements onto A4 sheets, for the
// browser print path. Units stay in millimetres so both surfaces share one
// layout.
type HTMLSurface struct {
	title string
	pages []*strings.Builder
	cur   int
}

// NewHTMLSurface returns an empty HTML canvas.
func NewHTMLSurface(title string) *HTMLSurface {
	return &HTMLSurface{title: title, cur: -1}
}

func (s *HTMLSurface) AddPage() {
	s.pages = append(s.pages, &strings.Builder{})
	s.cur = len(s.pages) - 1
}

func (s *HTMLSurface) SetPage(n int) {
	if n >= 1 && n <= len(s.pages) {
		s.cur = n - 1
	}
}

func (s *HTMLSurface) page() *strings.Builder {
	if s.cur < 0 {
		s.AddPage()
	}
	return s.pages[s.cur]
}

func (s *HTMLSurface) Text(x, y float64, txt string, st ticket.TextStyle) {
	// position the box so its baseline sits at y
	top := y - st.Size*ptToMM*0.8
	shift := ""
	switch st.Align {
	case ticket.AlignCenter:
		shift = "transform:translateX(-50%);"
	case ticket.AlignRight:
		shift = "transform:translateX(-100%);"
	}
	weight := "normal"
	if st.Bold {
		weight = "bold"
	}
	fmt.Fprintf(s.page(),
		`<div class="t" style="left:%.2fmm;top:%.2fmm;font-size:%.1fpt;font-weight:%s;color:%s;%s">%s</div>`+"\n",
		x, top, st.Size, weight, cssColor(st.Color), shift, html.EscapeString(txt))
}

func (s *HTMLSurface) FillRect(x, y, w, h float64, c ticket.Color) {
	fmt.Fprintf(s.page(), `<div class="r" style="left:%.2fmm;top:%.2fmm;width:%.2fmm;height:%.2fmm;background:%s"></div>`+"\n",
		x, y, w, h, cssColor(c))
}

func (s *HTMLSurface) StrokeRect(x, y, w, h float64, c ticket.Color) {
	fmt.Fprintf(s.page(), `<div class="r" style="left:%.2fmm;top:%.2fmm;width:%.2fmm;height:%.2fmm;border:0.2mm solid %s"></div>`+"\n",
		x, y, w, h, cssColor(c))
}

// Line only supports horizontal and vertical runs, which is all the layout
// emits.
func (s *HTMLSurface) Line(x1, y1, x2, y2 float64, c ticket.Color) {
	left, top := min(x1, x2), min(y1, y2)
	w, h := abs(x2-x1), abs(y2-y1)
	fmt.Fprintf(s.page(), `<div class="r" style="left:%.2fmm;top:%.2fmm;width:%.2fmm;height:%.2fmm;background:%s"></div>`+"\n",
		left, top, max(w, 0.2), max(h, 0.2), cssColor(c))
}

func (s *HTMLSurface) Image(logo *ticket.Logo, x, y, w, h float64) {
	if logo == nil {
		return
	}
	src := logo.DataURI
	if src == "" {
		if len(logo.Data) == 0 {
			return
		}
		src = "data:" + logo.MIME + ";base64," + base64.StdEncoding.EncodeToString(logo.Data)
	}
	fmt.Fprintf(s.page(), `<img class="r" alt="logo" src="%s" style="left:%.2fmm;top:%.2fmm;max-width:%.2fmm;max-height:%.2fmm">`+"\n",
		html.EscapeString(src), x, y, w, h)
}

const htmlHead = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
@page { size: A4; margin: 0; }
body { margin: 0; background: #f0f0f0; font-family: Helvetica, Arial, sans-serif; }
.sheet { position: relative; width: 210mm; height: 297mm; margin: 0 auto 8mm; background: #fff; overflow: hidden; page-break-after: always; }
.sheet:last-child { page-break-after: auto; }
.t { position: absolute; white-space: pre; line-height: 1; }
.r { position: absolute; box-sizing: border-box; }
@media print { body { background: #fff; } .sheet { margin: 0; } }
</style>
</head>
<body>
`

func (s *HTMLSurface) Flush(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, htmlHead, html.EscapeString(s.title))
	for i, p := range s.pages {
		fmt.Fprintf(bw, "<div class=\"sheet\" data-page=\"%d\">\n", i+1)
		bw.WriteString(p.String())
		bw.WriteString("</div>\n")
	}
	bw.WriteString("</body>\n</html>\n")
	return bw.Flush()
}

func cssColor(c ticket.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
