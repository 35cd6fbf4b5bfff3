// Package navigation decides whether a URL requested by the embedded page
// stays inside the window or is handed to the system browser.
package navigation

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrMalformedURL is returned by Parse when a candidate URL cannot be parsed
// as an absolute URL.
var ErrMalformedURL = errors.New("malformed url")

// Kind is the outcome of classifying a URL.
type Kind int

const (
	// Internal navigation proceeds inside the embedded view.
	Internal Kind = iota
	// External navigation goes to the system's default handler.
	External
)

func (k Kind) String() string {
	switch k {
	case Internal:
		return "internal"
	case External:
		return "external"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Result is a classification. Target is set only for External results.
type Result struct {
	Kind   Kind
	Target string
}

// InternalResult is the classification for URLs that stay in the app.
var InternalResult = Result{Kind: Internal}

// ExternalResult returns an External classification for target.
func ExternalResult(target string) Result {
	return Result{Kind: External, Target: target}
}

func (r Result) String() string {
	if r.Kind == External {
		return fmt.Sprintf("external(%s)", r.Target)
	}
	return r.Kind.String()
}

// Parse parses raw as an absolute URL.
func Parse(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedURL, err)
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("%w: %q is not absolute", ErrMalformedURL, raw)
	}
	return u, nil
}

// Unwrap returns the destination wrapped by an indirection link. ok is false
// when u is not on an indirection host or carries no "u" parameter.
func Unwrap(u *url.URL) (target string, ok bool) {
	if !IsIndirectionHost(u.Hostname()) {
		return "", false
	}
	target = u.Query().Get(IndirectionParam)
	return target, target != ""
}

// Classify classifies raw.
//
// Unparseable URLs are Internal: navigation fails open rather than being
// blocked.
func Classify(raw string) Result {
	u, err := Parse(raw)
	if err != nil {
		return InternalResult
	}
	if target, ok := Unwrap(u); ok {
		return ExternalResult(target)
	}

	host := strings.ToLower(u.Hostname())
	if IsIndirectionHost(host) {
		return ExternalResult(raw)
	}
	if strings.Contains(host, DomainToken) || strings.Contains(u.Path, DomainToken) {
		return InternalResult
	}
	return ExternalResult(raw)
}
