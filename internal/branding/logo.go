// Package branding turns uploaded or referenced logos into image bytes the
// ticket surfaces can embed.
package branding

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"syscall"
	"time"

	"eticket/internal/ticket"

	"github.com/gabriel-vasile/mimetype"
)

const (
	DefaultTimeout  = 10 * time.Second
	DefaultMaxBytes = 2 << 20
)

var (
	ErrUnsupportedImage  = errors.New("logo must be a PNG, JPEG or GIF image")
	ErrUnsupportedScheme = errors.New("logo reference must be a data URI or an http(s) URL")
	ErrTooLarge          = errors.New("logo exceeds size limit")
	ErrEmpty             = errors.New("logo is empty")
	ErrHostNotAllowed    = errors.New("logo host is not on the allow-list")
	ErrForbiddenAddress  = errors.New("logo host resolves to a non-public address")
)

var allowedTypes = []string{"image/png", "image/jpeg", "image/gif"}

// Detect sniffs data and returns its MIME type when it is an allowed image.
func Detect(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmpty
	}
	mt := mimetype.Detect(data)
	for _, allowed := range allowedTypes {
		if mt.Is(allowed) {
			return allowed, nil
		}
	}
	return "", fmt.Errorf("%w: got %s", ErrUnsupportedImage, mt.String())
}

// EncodeDataURI returns data as "data:{mime};base64,...".
func EncodeDataURI(data []byte) (string, error) {
	mime, err := Detect(data)
	if err != nil {
		return "", err
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// DecodeDataURI parses a base64 data URI. The declared media type is ignored;
// the payload is sniffed instead.
func DecodeDataURI(uri string) (*ticket.Logo, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, ErrUnsupportedScheme
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(strings.ToLower(meta), ";base64") {
		return nil, fmt.Errorf("logo data uri must be base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, fmt.Errorf("decode logo data uri: %w", err)
	}
	return newLogo(data)
}

func newLogo(data []byte) (*ticket.Logo, error) {
	mime, err := Detect(data)
	if err != nil {
		return nil, err
	}
	return &ticket.Logo{
		MIME:    mime,
		Data:    data,
		DataURI: "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data),
	}, nil
}

// Loader resolves logo references for the ticket builder. Data URIs are
// always accepted; http(s) URLs only for hosts in AllowedHosts (a subdomain
// of an entry matches too), and never to loopback, private or link-local
// addresses.
type Loader struct {
	Client       *http.Client
	Timeout      time.Duration
	MaxBytes     int64
	AllowedHosts []string
}

// NewLoader returns a loader with the given fetch timeout and size limit;
// zero values fall back to the defaults. With no allowed hosts remote logos
// are refused.
func NewLoader(timeout time.Duration, maxBytes int64, allowedHosts ...string) *Loader {
	l := &Loader{Timeout: timeout, MaxBytes: maxBytes}
	for _, h := range allowedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			l.AllowedHosts = append(l.AllowedHosts, h)
		}
	}
	l.Client = l.newClient(refuseNonPublic)
	return l
}

func (l *Loader) newClient(control func(network, address string, c syscall.RawConn) error) *http.Client {
	dialer := &net.Dialer{Timeout: 5 * time.Second, Control: control}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	// a proxy would be dialed instead of the target and skip the address check
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext
	return &http.Client{Transport: transport, CheckRedirect: l.checkRedirect}
}

// Load implements ticket.LogoLoader.
func (l *Loader) Load(ctx context.Context, ref string) (*ticket.Logo, error) {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "data:") {
		logo, err := DecodeDataURI(ref)
		if err != nil {
			return nil, err
		}
		if int64(len(logo.Data)) > l.maxBytes() {
			return nil, ErrTooLarge
		}
		return logo, nil
	}

	u, err := url.Parse(ref)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrUnsupportedScheme
	}
	if !l.allowed(u.Hostname()) {
		return nil, fmt.Errorf("%w: %s", ErrHostNotAllowed, u.Hostname())
	}
	return l.fetch(ctx, u.String())
}

func (l *Loader) allowed(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	for _, h := range l.AllowedHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

func (l *Loader) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= 3 {
		return errors.New("fetch logo: too many redirects")
	}
	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return ErrUnsupportedScheme
	}
	if !l.allowed(req.URL.Hostname()) {
		return fmt.Errorf("%w: %s", ErrHostNotAllowed, req.URL.Hostname())
	}
	return nil
}

// cgnat is the shared address space of RFC 6598.
var cgnat = netip.MustParsePrefix("100.64.0.0/10")

// publicAddr reports whether ip is a routable public unicast address.
func publicAddr(ip netip.Addr) bool {
	ip = ip.Unmap()
	return ip.IsGlobalUnicast() && !ip.IsPrivate() && !cgnat.Contains(ip)
}

// refuseNonPublic is a net.Dialer Control hook; it runs on the resolved
// address, so DNS names pointing inside the network are caught too.
func refuseNonPublic(network, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip, err := netip.ParseAddr(host)
	if err != nil {
		return err
	}
	if !publicAddr(ip) {
		return fmt.Errorf("%w: %s", ErrForbiddenAddress, ip)
	}
	return nil
}

func (l *Loader) fetch(ctx context.Context, target string) (*ticket.Logo, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build logo request: %w", err)
	}
	req.Header.Set("Accept", strings.Join(allowedTypes, ", "))

	resp, err := l.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch logo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch logo: unexpected status %d", resp.StatusCode)
	}

	limit := l.maxBytes()
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read logo: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, ErrTooLarge
	}
	return newLogo(data)
}

func (l *Loader) client() *http.Client {
	if l.Client != nil {
		return l.Client
	}
	return l.newClient(refuseNonPublic)
}

func (l *Loader) timeout() time.Duration {
	if l.Timeout > 0 {
		return l.Timeout
	}
	return DefaultTimeout
}

func (l *Loader) maxBytes() int64 {
	if l.MaxBytes > 0 {
		return l.MaxBytes
	}
	return DefaultMaxBytes
}

var _ ticket.LogoLoader = (*Loader)(nil)
