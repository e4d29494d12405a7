package ticket

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
)

var (
	// ErrEmptyBooking is returned when a booking has no segment or no passenger.
	ErrEmptyBooking = errors.New("booking needs at least one segment and one passenger")
	// ErrSurfaceUnavailable means the rendering surface or one of its
	// resources could not be obtained.
	ErrSurfaceUnavailable = errors.New("rendering surface unavailable")
)

// RenderError is the single failure surfaced by Build for anything that goes
// wrong after input checks. No partial artifact accompanies it.
type RenderError struct {
	Stage string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("ticket %s failed: %v", e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrSurfaceUnavailable) match every RenderError.
func (e *RenderError) Is(target error) bool { return target == ErrSurfaceUnavailable }

// Options are per-render settings.
type Options struct {
	LogoURL string
	Format  Format
}

// Artifact is a finished ticket file.
type Artifact struct {
	FileName    string
	ContentType string
	Body        []byte
	Pages       int
	Document    Document
}

// Builder drives resolution, layout and painting. All fields are read-only
// after construction, so one Builder may serve concurrent renders.
type Builder struct {
	Aliases    Aliases
	Formatter  Formatter
	NewSurface SurfaceFactory
	Logos      LogoLoader
	Now        func() time.Time
}

// NewBuilder wires a builder with default aliases and layout.
func NewBuilder(newSurface SurfaceFactory, logos LogoLoader) *Builder {
	return &Builder{
		Aliases:    DefaultAliases(),
		Formatter:  NewFormatter(),
		NewSurface: newSurface,
		Logos:      logos,
		Now:        time.Now,
	}
}

// Layout resolves and lays out in without painting it.
func (b *Builder) Layout(in Input, opts Options) (Document, error) {
	if len(in.Segments) == 0 || len(in.Passengers) == 0 {
		return Document{}, ErrEmptyBooking
	}
	if opts.LogoURL != "" {
		in.LogoURL = opts.LogoURL
	}
	booking := Normalize(in, b.aliases())
	return b.Formatter.Render(booking, b.now()), nil
}

// Build renders in into a downloadable artifact.
func (b *Builder) Build(ctx context.Context, in Input, opts Options) (Artifact, error) {
	doc, err := b.Layout(in, opts)
	if err != nil {
		return Artifact{}, err
	}

	var logo *Logo
	if doc.HasLogo {
		if b.Logos == nil {
			return Artifact{}, &RenderError{Stage: "logo", Err: errors.New("no logo loader configured")}
		}
		ref := opts.LogoURL
		if ref == "" {
			ref = in.LogoURL
		}
		logo, err = b.Logos.Load(ctx, ref)
		if err != nil {
			return Artifact{}, &RenderError{Stage: "logo", Err: err}
		}
	}

	format := opts.Format
	if format == "" {
		format = FormatPDF
	}
	if b.NewSurface == nil {
		return Artifact{}, &RenderError{Stage: "surface", Err: errors.New("no surface configured")}
	}
	surface, err := b.NewSurface(format, doc.Title)
	if err != nil {
		return Artifact{}, &RenderError{Stage: "surface", Err: err}
	}

	var buf bytes.Buffer
	if err := paintAndFlush(surface, doc, logo, &buf); err != nil {
		return Artifact{}, &RenderError{Stage: "render", Err: err}
	}

	return Artifact{
		FileName:    FileName(doc.PNR, format),
		ContentType: format.ContentType(),
		Body:        buf.Bytes(),
		Pages:       doc.PageCount(),
		Document:    doc,
	}, nil
}

// paintAndFlush turns a surface panic into an error so a broken surface
// cannot take the caller down.
func paintAndFlush(s Surface, doc Document, logo *Logo, buf *bytes.Buffer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("surface panic: %v", r)
		}
	}()
	paint(s, doc, logo)
	return s.Flush(buf)
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// FileName derives "e-ticket-{PNR}.{ext}".
func FileName(pnr string, f Format) string {
	part := unsafeFileChars.ReplaceAllString(NormalizePNR(pnr), "_")
	if len(part) > 40 {
		part = part[:40]
	}
	return "e-ticket-" + part + "." + f.Extension()
}

func (b *Builder) aliases() Aliases {
	if b.Aliases.Segment == nil && b.Aliases.Passenger == nil {
		return DefaultAliases()
	}
	return b.Aliases
}

func (b *Builder) now() time.Time {
	if b.Now == nil {
		return time.Now()
	}
	return b.Now()
}
