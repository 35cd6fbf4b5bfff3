package cookies

import (
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// PromotedDomains are the registrable domains whose session cookies are
// made durable. A cookie matches when its domain is one of these or a
// subdomain of one.
var PromotedDomains = []string{
	"messenger.com",
	"facebook.com",
}

// PromotionLifetime is how long a promoted cookie lives.
const PromotionLifetime = 365 * 24 * time.Hour

// State is the point a change event reached in the promotion state machine.
type State int

const (
	Observed State = iota
	Ineligible
	Eligible
	PromotionRequested
	PromotionAcked
	PromotionFailed
)

func (s State) String() string {
	switch s {
	case Observed:
		return "observed"
	case Ineligible:
		return "ineligible"
	case Eligible:
		return "eligible"
	case PromotionRequested:
		return "promotion-requested"
	case PromotionAcked:
		return "promotion-acked"
	case PromotionFailed:
		return "promotion-failed"
	default:
		return "unknown"
	}
}

// MatchesDomain reports whether a cookie domain belongs to PromotedDomains.
func MatchesDomain(domain string) bool {
	host := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(domain), "."))
	if host == "" {
		return false
	}
	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return false
	}
	for _, d := range PromotedDomains {
		if registrable == d {
			return true
		}
	}
	return false
}

// Evaluate moves an observed event to Eligible or Ineligible.
func Evaluate(ev ChangeEvent) State {
	if ev.Removed || !ev.Cookie.Session || !MatchesDomain(ev.Cookie.Domain) {
		return Ineligible
	}
	return Eligible
}

// PromotionURL is the https URL the store write is addressed to.
func PromotionURL(domain, path string) string {
	if path == "" {
		path = "/"
	}
	return "https://" + strings.TrimPrefix(domain, ".") + path
}

// Promote builds the write request that turns c into a durable cookie
// expiring PromotionLifetime after now.
func Promote(c Cookie, now time.Time) WriteRequest {
	return WriteRequest{
		URL:            PromotionURL(c.Domain, c.Path),
		Name:           c.Name,
		Value:          c.Value,
		Domain:         c.Domain,
		Path:           c.Path,
		Secure:         c.Secure,
		HTTPOnly:       c.HTTPOnly,
		SameSite:       c.SameSite.Normalize(),
		ExpirationDate: now.Add(PromotionLifetime).Unix(),
	}
}
