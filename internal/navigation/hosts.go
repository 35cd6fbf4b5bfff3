package navigation

import "strings"

// DomainToken marks a URL as belonging to the embedded application when it
// appears in the host or the path.
const DomainToken = "messenger.com"

// HomeURL is the page the shell loads on startup.
const HomeURL = "https://www.messenger.com"

// Link indirection hosts wrap the real destination in the "u" query parameter.
const (
	MessengerIndirectionHost = "l.messenger.com"
	FacebookIndirectionHost  = "l.facebook.com"

	// IndirectionParam carries the wrapped destination on indirection hosts.
	IndirectionParam = "u"
)

// IndirectionHosts lists every host treated as a link indirection.
var IndirectionHosts = []string{
	MessengerIndirectionHost,
	FacebookIndirectionHost,
}

// IsIndirectionHost reports whether host is a link indirection host.
func IsIndirectionHost(host string) bool {
	host = strings.ToLower(host)
	for _, h := range IndirectionHosts {
		if host == h {
			return true
		}
	}
	return false
}
