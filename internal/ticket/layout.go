package ticket

import (
	"fmt"
	"strings"
	"time"
)

// Notice is the fixed legal block, pre-wrapped for the A4 content width.
var Notice = []string{
	"IMPORTANT: PLEASE ENSURE YOU CHECK YOUR EMAILS RECEIVED FROM THE AIRLINE OR FROM",
	"THE TRAVEL AGENCY REGARDING ANY CHANGES, CANCELLATIONS AND STAY AWARE OF ANY CHANGES",
	"IN THE SCHEDULE MADE BY THE AIRLINE. YOU CAN ALWAYS VERIFY YOUR TRAVEL DETAILS FROM",
	"THE AIRLINE WEBSITE.",
}

// Disclaimer is printed in every page footer.
var Disclaimer = []string{
	"This is a computer-generated e-ticket. Please keep this document for your records.",
	"For any inquiries, please contact customer service with your booking reference number.",
}

// LayoutConfig holds page geometry in millimetres.
type LayoutConfig struct {
	PageWidth    float64
	PageHeight   float64
	Margin       float64
	FooterHeight float64
	LineHeight   float64
	RowHeight    float64
	BlockGap     float64
	LogoWidth    float64
	LogoHeight   float64
}

// DefaultLayout is A4 portrait.
func DefaultLayout() LayoutConfig {
	return LayoutConfig{
		PageWidth:    210,
		PageHeight:   297,
		Margin:       15,
		FooterHeight: 16,
		LineHeight:   4.5,
		RowHeight:    7,
		BlockGap:     5,
		LogoWidth:    50,
		LogoHeight:   22,
	}
}

// ContentWidth is the printable width between the side margins.
func (c LayoutConfig) ContentWidth() float64 { return c.PageWidth - 2*c.Margin }

// ContentBottom is the lowest Y a block may reach before the footer band.
func (c LayoutConfig) ContentBottom() float64 { return c.PageHeight - c.Margin - c.FooterHeight }

// Formatter lays a Booking out into pages. Measure sizes table cell text;
// nil falls back to EstimateWidth.
type Formatter struct {
	Config  LayoutConfig
	Measure MeasureFunc
}

func (f Formatter) measure() MeasureFunc {
	if f.Measure == nil {
		return EstimateWidth
	}
	return f.Measure
}

// NewFormatter returns a formatter for the default A4 layout.
func NewFormatter() Formatter {
	return Formatter{Config: DefaultLayout()}
}

// block is a unit that is never split across pages. Op coordinates are
// relative to the block's top edge.
type block struct {
	name   string
	height float64
	ops    []Op
}

type layout struct {
	cfg   LayoutConfig
	pages []Page
	y     float64
}

func (l *layout) newPage() {
	l.pages = append(l.pages, Page{Number: len(l.pages) + 1})
	l.y = l.cfg.Margin
}

func (l *layout) remaining() float64 {
	return l.cfg.ContentBottom() - l.y
}

func (l *layout) atTop() bool {
	return l.y <= l.cfg.Margin
}

// fits reports whether h more millimetres fit on the current page.
func (l *layout) fits(h float64) bool {
	return len(l.pages) > 0 && (l.remaining() >= h || l.atTop())
}

func (l *layout) place(b block) {
	if !l.fits(b.height) {
		l.newPage()
	}
	l.emit(b)
}

func (l *layout) emit(b block) {
	page := &l.pages[len(l.pages)-1]
	for _, op := range b.ops {
		op.Y += l.y
		page.Ops = append(page.Ops, op)
	}
	l.y += b.height
}

func (l *layout) gap(h float64) {
	if l.remaining() > h {
		l.y += h
	}
}

// Render lays out header, segment cards, passenger table and notice, then
// stamps every page footer once the page count is known. now is printed as
// the generation time.
func (f Formatter) Render(b Booking, now time.Time) Document {
	cfg := f.Config
	if cfg.PageWidth == 0 {
		cfg = DefaultLayout()
	}
	l := &layout{cfg: cfg}
	l.newPage()

	hasLogo := b.LogoURL != ""
	l.place(headerBlock(cfg, b.PNR, now, hasLogo))
	l.gap(cfg.BlockGap)

	for _, s := range b.Segments {
		l.place(segmentBlock(cfg, s))
		l.gap(cfg.BlockGap)
	}

	head := tableHeaderBlock(cfg)
	for i, p := range b.Passengers {
		row := passengerRowBlock(cfg, p, f.measure())
		switch {
		case i == 0 || !l.fits(row.height):
			// the header row always travels with the row under it
			if !l.fits(head.height + row.height) {
				l.newPage()
			}
			l.emit(head)
			l.emit(row)
		default:
			l.emit(row)
		}
	}
	l.gap(cfg.BlockGap)

	l.place(noticeBlock(cfg))

	total := len(l.pages)
	for i := range l.pages {
		l.pages[i].Footer = footerOps(cfg, l.pages[i].Number, total)
	}

	return Document{
		Title:       "E-Ticket " + b.PNR,
		PNR:         b.PNR,
		GeneratedAt: now,
		HasLogo:     hasLogo,
		Pages:       l.pages,
	}
}

func text(x, y float64, s string, st TextStyle) Op {
	return Op{Kind: OpText, X: x, Y: y, Text: s, Style: st}
}

func rect(kind OpKind, x, y, w, h float64, c Color) Op {
	return Op{Kind: kind, X: x, Y: y, W: w, H: h, Color: c}
}

func headerBlock(cfg LayoutConfig, pnr string, now time.Time, hasLogo bool) block {
	x := cfg.Margin
	w := cfg.ContentWidth()
	var ops []Op
	y := 0.0
	if hasLogo {
		ops = append(ops, Op{Kind: OpImage, X: x, Y: 0, W: cfg.LogoWidth, H: cfg.LogoHeight})
		y += cfg.LogoHeight + 4
	}
	ops = append(ops,
		rect(OpFill, x, y, w, 12, HeaderBg),
		text(cfg.PageWidth/2, y+8, "ELECTRONIC TICKET", TextStyle{Size: 16, Bold: true, Color: Black, Align: AlignCenter}),
	)
	y += 12 + 7
	issued := text(x+w, y, "Issued on: "+now.UTC().Format("02/01/2006 15:04")+" UTC", TextStyle{Size: 9, Color: Grey, Align: AlignRight})
	issued.Timestamp = true
	ops = append(ops,
		text(x, y, "Booking Reference (PNR): "+pnr, TextStyle{Size: 11, Bold: true, Color: Black}),
		issued,
	)
	return block{name: "header", height: y + 3, ops: ops}
}

// dayTimePlace renders "{WEEKDAY}, {DD} {MON}   {time}   {place}", skipping
// blank parts.
func dayTimePlace(date, clock, place string) string {
	parts := []string{}
	for _, p := range []string{FormatDay(date).String(), strings.TrimSpace(clock), strings.TrimSpace(place)} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "   ")
}

func segmentBlock(cfg LayoutConfig, s FlightSegment) block {
	x := cfg.Margin
	w := cfg.ContentWidth()
	const headH, labelW = 8.0, 35.0
	rows := [][2]string{
		{"Flight", s.FlightNumber},
		{"Operated By", s.Airline},
		{"Ticket Class", s.FareClass.Display()},
		{"Departure", dayTimePlace(s.DepartureDate, s.DepartureTime, s.Departure)},
		{"Arrival", dayTimePlace(s.ArrivalDate, s.ArrivalTime, s.Arrival)},
	}
	cardH := headH + float64(len(rows))*cfg.RowHeight

	ops := []Op{
		rect(OpFill, x, 0, w, headH, HeaderBg),
		text(x+3, 5.5, s.Route(), TextStyle{Size: 11, Bold: true, Color: Black}),
	}
	for i, r := range rows {
		top := headH + float64(i)*cfg.RowHeight
		base := top + cfg.RowHeight - 2.2
		ops = append(ops,
			rect(OpFill, x, top, labelW, cfg.RowHeight, LabelBg),
			text(x+3, base, r[0], TextStyle{Size: 9, Bold: true, Color: Black}),
			text(x+labelW+3, base, r[1], TextStyle{Size: 9, Color: Black}),
		)
		if i > 0 {
			ops = append(ops, Op{Kind: OpLine, X: x, Y: top, W: w, H: 0, Color: LightGrey})
		}
	}
	ops = append(ops,
		Op{Kind: OpLine, X: x, Y: headH, W: w, H: 0, Color: Black},
		rect(OpStroke, x, 0, w, cardH, Black),
	)
	return block{name: "segment", height: cardH, ops: ops}
}

// passenger table columns, as offsets from the left margin
const (
	colName    = 0.0
	colBaggage = 72.0
	colTicket  = 135.0
)

func tableHeaderBlock(cfg LayoutConfig) block {
	x := cfg.Margin
	w := cfg.ContentWidth()
	const h = 8.0
	st := TextStyle{Size: 9, Bold: true, Color: Black}
	return block{name: "passenger-header", height: h, ops: []Op{
		rect(OpFill, x, 0, w, h, HeaderBg),
		rect(OpStroke, x, 0, w, h, Black),
		text(x+colName+2, 5.5, "Passenger(s) Name", st),
		text(x+colBaggage+2, 5.5, "Baggage Limit", st),
		text(x+colTicket+2, 5.5, "E-Ticket Number", st),
	}}
}

// cellPad is the horizontal padding on each side of a table cell.
const cellPad = 2.0

// passengerRowBlock wraps every cell to its column and grows the row to the
// tallest cell.
func passengerRowBlock(cfg LayoutConfig, p Passenger, measure MeasureFunc) block {
	x := cfg.Margin
	w := cfg.ContentWidth()
	nameSt := TextStyle{Size: 9, Bold: true, Color: Black}
	bagSt := TextStyle{Size: 8.5, Color: Black}
	ticketSt := TextStyle{Size: 9, Color: Black}

	name := wrapText(FormatName(p), colBaggage-colName-2*cellPad, nameSt, measure)
	var baggage []string
	for _, line := range p.Baggage() {
		baggage = append(baggage, wrapText(line, colTicket-colBaggage-2*cellPad, bagSt, measure)...)
	}
	eticket := wrapText(p.ETicketNumber, w-colTicket-2*cellPad, ticketSt, measure)

	n := max(len(name), len(baggage), len(eticket))
	h := float64(n)*cfg.LineHeight + 4
	if h < cfg.RowHeight {
		h = cfg.RowHeight
	}
	first := 2 + cfg.LineHeight - 1
	ops := []Op{
		rect(OpStroke, x, 0, w, h, Black),
		{Kind: OpLine, X: x + colBaggage, Y: 0, W: 0, H: h, Color: Black},
		{Kind: OpLine, X: x + colTicket, Y: 0, W: 0, H: h, Color: Black},
	}
	cell := func(col float64, lines []string, st TextStyle) {
		for i, line := range lines {
			ops = append(ops, text(x+col+cellPad, first+float64(i)*cfg.LineHeight, line, st))
		}
	}
	cell(colName, name, nameSt)
	cell(colTicket, eticket, ticketSt)
	cell(colBaggage, baggage, bagSt)
	return block{name: "passenger-row", height: h, ops: ops}
}

func noticeBlock(cfg LayoutConfig) block {
	x := cfg.Margin
	w := cfg.ContentWidth()
	h := float64(len(Notice))*cfg.LineHeight + 6
	ops := []Op{
		rect(OpFill, x, 0, w, h, NoticeBg),
		rect(OpStroke, x, 0, w, h, Black),
	}
	for i, line := range Notice {
		ops = append(ops, text(x+3, 3+cfg.LineHeight*float64(i+1)-1, line, TextStyle{Size: 8, Bold: true, Color: Black}))
	}
	return block{name: "notice", height: h, ops: ops}
}

func footerOps(cfg LayoutConfig, page, total int) []Op {
	x := cfg.Margin
	w := cfg.ContentWidth()
	top := cfg.PageHeight - cfg.Margin - cfg.FooterHeight + 3
	st := TextStyle{Size: 7.5, Color: Grey}
	ops := []Op{{Kind: OpLine, X: x, Y: top, W: w, H: 0, Color: LightGrey}}
	for i, line := range Disclaimer {
		ops = append(ops, text(x, top+4+float64(i)*3.8, line, st))
	}
	marker := st
	marker.Align = AlignRight
	ops = append(ops, text(x+w, top+4+float64(len(Disclaimer))*3.8, fmt.Sprintf("Page %d of %d", page, total), marker))
	return ops
}
