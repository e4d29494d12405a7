package ticket

import (
	"strconv"
	"strings"
	"time"
)

// OpKind is a drawing primitive understood by every Surface.
type OpKind int

const (
	OpText OpKind = iota
	OpFill
	OpStroke
	OpLine
	OpImage
)

// Align is horizontal text alignment relative to Op.X.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Color is an RGB triple.
type Color struct {
	R, G, B uint8
}

var (
	Black     = Color{0, 0, 0}
	Grey      = Color{102, 102, 102}
	LightGrey = Color{221, 221, 221}
	HeaderBg  = Color{232, 232, 232}
	LabelBg   = Color{245, 245, 245}
	NoticeBg  = Color{255, 255, 200}
)

// TextStyle is font size in points plus weight, colour and alignment.
type TextStyle struct {
	Size  float64
	Bold  bool
	Color Color
	Align Align
}

// Op is one placed primitive. Coordinates are millimetres from the page's top
// left corner; text Y is the baseline. Line ops run from (X,Y) to (X+W,Y+H).
type Op struct {
	Kind  OpKind
	X, Y  float64
	W, H  float64
	Text  string
	Style TextStyle
	Color Color
	// Timestamp marks text that changes between otherwise identical renders.
	Timestamp bool
}

// Page is one sheet of the document. Footer is filled in a second pass, once
// the total page count is known.
type Page struct {
	Number int
	Ops    []Op
	Footer []Op
}

// Document is the laid out ticket, independent of any output format.
type Document struct {
	Title       string
	PNR         string
	GeneratedAt time.Time
	HasLogo     bool
	Pages       []Page
}

// PageCount returns the number of pages.
func (d Document) PageCount() int { return len(d.Pages) }

// Text returns every text op in paint order, one per line, with a page marker
// before each page.
func (d Document) Text() string {
	return d.text(true)
}

// StableText is Text without generation timestamps.
func (d Document) StableText() string {
	return d.text(false)
}

func (d Document) text(withTimestamps bool) string {
	var sb strings.Builder
	for _, p := range d.Pages {
		sb.WriteString("--- page " + strconv.Itoa(p.Number) + " ---\n")
		for _, ops := range [][]Op{p.Ops, p.Footer} {
			for _, op := range ops {
				if op.Kind != OpText || (op.Timestamp && !withTimestamps) {
					continue
				}
				sb.WriteString(op.Text)
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}

// PageOf returns the number of the first page containing text equal to s, or 0.
func (d Document) PageOf(s string) int {
	for _, p := range d.Pages {
		for _, op := range p.Ops {
			if op.Kind == OpText && op.Text == s {
				return p.Number
			}
		}
	}
	return 0
}
