// Package cookies keeps the embedded application's login alive across
// restarts by rewriting its session cookies as durable ones.
package cookies

import (
	"strings"
	"time"
)

// SameSite is a cookie's same-site policy.
type SameSite string

const (
	SameSiteNoRestriction SameSite = "no_restriction"
	SameSiteLax           SameSite = "lax"
	SameSiteStrict        SameSite = "strict"
)

// Normalize maps unknown or empty policies to no_restriction.
func (s SameSite) Normalize() SameSite {
	switch SameSite(strings.ToLower(string(s))) {
	case SameSiteLax:
		return SameSiteLax
	case SameSiteStrict:
		return SameSiteStrict
	default:
		return SameSiteNoRestriction
	}
}

// Cause explains why the host store reported a change.
type Cause string

const (
	CauseExplicit         Cause = "explicit"
	CauseOverwrite        Cause = "overwrite"
	CauseExpired          Cause = "expired"
	CauseEvicted          Cause = "evicted"
	CauseExpiredOverwrite Cause = "expired-overwrite"
)

// Cookie is the host store's view of a cookie. Session cookies have no
// expiry and are discarded when the process exits.
type Cookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Domain   string    `json:"domain"`
	Path     string    `json:"path"`
	Secure   bool      `json:"secure"`
	HTTPOnly bool      `json:"httpOnly"`
	SameSite SameSite  `json:"sameSite,omitempty"`
	Session  bool      `json:"session"`
	Expires  time.Time `json:"expires,omitempty"`
}

// Key identifies a cookie within a store.
type Key struct {
	Name   string
	Domain string
	Path   string
}

// Key returns the identity fields of c.
func (c Cookie) Key() Key {
	return Key{Name: c.Name, Domain: strings.ToLower(c.Domain), Path: c.Path}
}

// ChangeEvent is delivered by the host store once per add, update or
// removal.
type ChangeEvent struct {
	Cookie  Cookie
	Cause   Cause
	Removed bool
}

// WriteRequest asks the host store to set a cookie. ExpirationDate is in
// epoch seconds.
type WriteRequest struct {
	URL            string   `json:"url"`
	Name           string   `json:"name"`
	Value          string   `json:"value"`
	Domain         string   `json:"domain"`
	Path           string   `json:"path"`
	Secure         bool     `json:"secure"`
	HTTPOnly       bool     `json:"httpOnly"`
	SameSite       SameSite `json:"sameSite"`
	ExpirationDate int64    `json:"expirationDate"`
}

// Cookie returns the durable cookie described by w.
func (w WriteRequest) Cookie() Cookie {
	return Cookie{
		Name:     w.Name,
		Value:    w.Value,
		Domain:   w.Domain,
		Path:     w.Path,
		Secure:   w.Secure,
		HTTPOnly: w.HTTPOnly,
		SameSite: w.SameSite.Normalize(),
		Session:  false,
		Expires:  time.Unix(w.ExpirationDate, 0),
	}
}

// Store is the host's cookie store. Notifications are delivered one at a
// time. Set completes asynchronously and reports through done exactly once.
type Store interface {
	Subscribe(fn func(ChangeEvent)) (unsubscribe func())
	Set(req WriteRequest, done func(error))
}
