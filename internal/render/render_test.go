package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"eticket/internal/ticket"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1x1 red RGB PNG
const pixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAIAAACQd1PeAAAADElEQVR4nGP4z8AAAAMBAQDJ/pLvAAAAAElFTkSuQmCC"

type staticLogos struct{ logo *ticket.Logo }

func (s staticLogos) Load(context.Context, string) (*ticket.Logo, error) { return s.logo, nil }

func sampleInput(segments, passengers int) ticket.Input {
	in := ticket.Input{PNR: "XY7890"}
	for i := 0; i < segments; i++ {
		in.Segments = append(in.Segments, ticket.Record{
			"from":         "Lahore (LHE)",
			"to":           "Dubai (DXB)",
			"date":         "2025-07-05",
			"flightNumber": "EK623",
			"airline":      "Emirates",
		})
	}
	for i := 0; i < passengers; i++ {
		in.Passengers = append(in.Passengers, ticket.Record{
			"title":           "Mrs",
			"firstName":       "Ayesha",
			"lastName":        "Khan",
			"eTicketNumber":   "176-2400000001",
			"baggageQuantity": 1,
			"baggageWeight":   "30kg",
		})
	}
	return in
}

func newBuilder(logo *ticket.Logo) *ticket.Builder {
	b := ticket.NewBuilder(NewSurface, staticLogos{logo: logo})
	b.Now = func() time.Time { return time.Date(2025, 6, 30, 8, 0, 0, 0, time.UTC) }
	return b
}

func TestNewSurface_Formats(t *testing.T) {
	s, err := NewSurface(ticket.FormatPDF, "t")
	require.NoError(t, err)
	assert.IsType(t, &PDFSurface{}, s)

	s, err = NewSurface(ticket.FormatHTML, "t")
	require.NoError(t, err)
	assert.IsType(t, &HTMLSurface{}, s)

	_, err = NewSurface(ticket.Format("docx"), "t")
	assert.Error(t, err)
}

func TestPDF_BuildsValidDocument(t *testing.T) {
	art, err := newBuilder(nil).Build(context.Background(), sampleInput(6, 6), ticket.Options{})
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(art.Body, []byte("%PDF-")))
	assert.Equal(t, "e-ticket-XY7890.pdf", art.FileName)
	assert.Greater(t, art.Pages, 1)
	assert.True(t, bytes.Contains(art.Body, []byte("%%EOF")))
}

func TestPDF_WithLogo(t *testing.T) {
	data, err := base64.StdEncoding.DecodeString(pixelPNG)
	require.NoError(t, err)
	logo := &ticket.Logo{MIME: "image/png", Data: data}

	art, err := newBuilder(logo).Build(context.Background(), sampleInput(1, 1), ticket.Options{LogoURL: "https://example.com/l.png"})
	require.NoError(t, err)
	assert.Contains(t, string(art.Body), "/Subtype /Image")
}

func TestPDF_UnsupportedLogoFails(t *testing.T) {
	logo := &ticket.Logo{MIME: "image/svg+xml", Data: []byte("<svg/>")}
	_, err := newBuilder(logo).Build(context.Background(), sampleInput(1, 1), ticket.Options{LogoURL: "x"})
	var rerr *ticket.RenderError
	require.ErrorAs(t, err, &rerr)
}

func TestHTML_Sheets(t *testing.T) {
	art, err := newBuilder(nil).Build(context.Background(), sampleInput(6, 6), ticket.Options{Format: ticket.FormatHTML})
	require.NoError(t, err)

	body := string(art.Body)
	assert.Equal(t, art.Pages, strings.Count(body, `class="sheet"`))
	assert.Contains(t, body, "<title>E-Ticket XY7890</title>")
	assert.Contains(t, body, "Lahore (LHE) → Dubai (DXB)")
	assert.Contains(t, body, "KHAN / AYESHA Mrs.")
	assert.Contains(t, body, "1 x 30kg Checked Baggage")
}

func TestHTML_EscapesText(t *testing.T) {
	s := NewHTMLSurface("a<b")
	s.AddPage()
	s.Text(10, 10, `<script>"x"</script>`, ticket.TextStyle{Size: 9})
	var buf bytes.Buffer
	require.NoError(t, s.Flush(&buf))

	assert.NotContains(t, buf.String(), "<script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
	assert.Contains(t, buf.String(), "<title>a&lt;b</title>")
}

func TestHTML_LogoAsDataURI(t *testing.T) {
	s := NewHTMLSurface("logo")
	s.AddPage()
	s.Image(&ticket.Logo{MIME: "image/png", Data: []byte{1, 2, 3}}, 0, 0, 10, 10)
	var buf bytes.Buffer
	require.NoError(t, s.Flush(&buf))
	assert.Contains(t, buf.String(), `src="data:image/png;base64,AQID"`)
}

func TestMeasureText(t *testing.T) {
	regular := ticket.TextStyle{Size: 9}
	bold := ticket.TextStyle{Size: 9, Bold: true}

	assert.Zero(t, MeasureText("", regular))
	assert.Greater(t, MeasureText("WWW", regular), MeasureText("iii", regular))
	assert.Greater(t, MeasureText("HASSAN", bold), MeasureText("HASSAN", regular))
	assert.Greater(t, MeasureText("LHE → DXB", regular), MeasureText("LHE DXB", regular))

	for _, s := range []string{
		"ABDULLAH / MUHAMMAD AHMED HASSAN Mr.",
		"1 x 23kg + 1 golf bag (sports) Checked Baggage",
		"176-1234567890123456789012",
	} {
		assert.GreaterOrEqual(t, ticket.EstimateWidth(s, bold), MeasureText(s, bold), s)
		assert.GreaterOrEqual(t, ticket.EstimateWidth(s, regular), MeasureText(s, regular), s)
	}
}

func TestPDF_LongPassengerCellsWrap(t *testing.T) {
	in := sampleInput(1, 1)
	in.Passengers[0]["firstName"] = "Muhammad Ahmed Hassan"
	in.Passengers[0]["lastName"] = "Abdullah"

	b := newBuilder(nil)
	b.Formatter.Measure = MeasureText
	art, err := b.Build(context.Background(), in, ticket.Options{})
	require.NoError(t, err)

	var lines int
	for _, op := range art.Document.Pages[0].Ops {
		if op.Kind == ticket.OpText && strings.Contains(op.Text, "ABDULLAH") {
			lines++
			assert.LessOrEqual(t, op.X+MeasureText(op.Text, op.Style), 15+72-2+1e-9)
		}
	}
	assert.Equal(t, 1, lines)
	assert.NotContains(t, art.Document.Text(), "ABDULLAH / MUHAMMAD AHMED HASSAN Mrs.")
}
