// Package browser opens validated web pages in the system browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"slices"
	"strings"
	"unicode"
)

// Opener launches the platform browser for URLs that pass validation.
type Opener struct {
	goos         string
	allowedHosts []string
	start        func(name string, args ...string) error
}

// Option configures an Opener.
type Option func(*Opener)

// WithAllowedHosts restricts Open to the given hosts. Any host is accepted
// when none are set.
func WithAllowedHosts(hosts ...string) Option {
	return func(o *Opener) { o.allowedHosts = hosts }
}

// New creates an Opener for the current platform.
func New(opts ...Option) *Opener {
	o := &Opener{
		goos:  runtime.GOOS,
		start: startDetached,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Open opens urlString with the default Opener.
func Open(urlString string) error {
	return New().Open(urlString)
}

// Open validates urlString and hands it to the system browser. The URL is
// passed as a single argument, never through a shell.
func (o *Opener) Open(urlString string) error {
	if err := o.Validate(urlString); err != nil {
		return err
	}

	name, args, err := command(o.goos, urlString)
	if err != nil {
		return err
	}
	return o.start(name, args...)
}

// Validate reports why urlString would be refused, or nil.
func (o *Opener) Validate(urlString string) error {
	if strings.IndexFunc(urlString, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) }) >= 0 {
		return fmt.Errorf("invalid URL: contains whitespace or control characters")
	}

	parsedURL, err := url.Parse(urlString)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %s (only http and https allowed)", parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("invalid URL: missing host")
	}
	if len(o.allowedHosts) > 0 && !slices.Contains(o.allowedHosts, parsedURL.Hostname()) {
		return fmt.Errorf("refusing to open URL on host %s", parsedURL.Hostname())
	}
	return nil
}

func command(goos, urlString string) (string, []string, error) {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{urlString}, nil
	case "darwin":
		return "open", []string{urlString}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", urlString}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

func startDetached(name string, args ...string) error {
	return exec.Command(name, args...).Start() // #nosec G204 -- URL validated by Open
}
