// Package webhost is the embedding side of the shell: the cookie store the
// embedded page's requests go through, the proxy serving the page inside
// the window, and the script bridge between page and Go.
package webhost

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"

	"github.com/Ahsanlashari87/messenger-mac/internal/cookies"
	"github.com/Ahsanlashari87/messenger-mac/internal/logging"
)

var (
	// ErrInvalidCookie is returned for writes the jar refuses to store.
	ErrInvalidCookie = errors.New("invalid cookie")
	// ErrJarClosed is returned for writes after Close.
	ErrJarClosed = errors.New("cookie jar closed")
)

// Jar is the cookie store behind the embedded page. It implements
// http.CookieJar for the proxy and cookies.Store for the persistence
// manager. Change notifications are delivered one at a time, in order, on
// the jar's own goroutine.
//
// Durable cookies are written to disk by Save; session cookies never are.
type Jar struct {
	mu        sync.Mutex
	entries   map[cookies.Key]cookies.Cookie
	listeners map[int]func(cookies.ChangeEvent)
	nextID    int

	loop   *eventLoop
	path   string
	now    func() time.Time
	logger *zap.Logger
}

// NewJar creates an empty jar persisted at path. An empty path disables
// persistence.
func NewJar(path string, logger *zap.Logger) *Jar {
	return &Jar{
		entries:   make(map[cookies.Key]cookies.Cookie),
		listeners: make(map[int]func(cookies.ChangeEvent)),
		loop:      newEventLoop(),
		path:      path,
		now:       time.Now,
		logger:    logging.OrNop(logger),
	}
}

// Subscribe registers fn for change notifications.
func (j *Jar) Subscribe(fn func(cookies.ChangeEvent)) func() {
	j.mu.Lock()
	id := j.nextID
	j.nextID++
	j.listeners[id] = fn
	j.mu.Unlock()

	return func() {
		j.mu.Lock()
		delete(j.listeners, id)
		j.mu.Unlock()
	}
}

// Set stores the cookie described by req. done runs on the jar's goroutine
// after the resulting change notifications. A closed jar stores nothing and
// reports ErrJarClosed.
func (j *Jar) Set(req cookies.WriteRequest, done func(error)) {
	if j.loop.isClosed() {
		if done != nil {
			done(ErrJarClosed)
		}
		return
	}
	err := j.set(req)
	if done == nil {
		return
	}
	if !j.loop.post(func() { done(err) }) {
		// Closed after the write: report what happened to it.
		done(err)
	}
}

func (j *Jar) set(req cookies.WriteRequest) error {
	if req.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidCookie)
	}
	u, err := url.Parse(req.URL)
	if err != nil || u.Hostname() == "" {
		return fmt.Errorf("%w: bad url %q", ErrInvalidCookie, req.URL)
	}
	host := strings.ToLower(u.Hostname())
	domain := req.Domain
	if domain == "" {
		domain = host
	}
	if !domainMatch(host, domain) {
		return fmt.Errorf("%w: domain %q does not match %q", ErrInvalidCookie, domain, host)
	}

	c := req.Cookie()
	c.Domain = domain
	if c.Path == "" {
		c.Path = "/"
	}
	j.store(c)
	return nil
}

// SetCookies stores cookies received in a response from u.
func (j *Jar) SetCookies(u *url.URL, received []*http.Cookie) {
	host := strings.ToLower(u.Hostname())
	for _, hc := range received {
		c, ok := j.fromHTTP(u, host, hc)
		if !ok {
			continue
		}
		if hc.MaxAge < 0 || (!c.Session && !c.Expires.After(j.now())) {
			j.remove(c.Key(), cookies.CauseExpiredOverwrite)
			continue
		}
		j.store(c)
	}
}

// Cookies returns the cookies to send with a request to u.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	host := strings.ToLower(u.Hostname())
	path := u.Path
	if path == "" {
		path = "/"
	}
	secure := u.Scheme == "https" || u.Scheme == "wss"
	now := j.now()

	var matched []cookies.Cookie
	var expired []cookies.Cookie
	j.mu.Lock()
	for k, c := range j.entries {
		if !c.Session && !c.Expires.After(now) {
			delete(j.entries, k)
			expired = append(expired, c)
			continue
		}
		if !domainMatch(host, c.Domain) || !pathMatch(path, c.Path) {
			continue
		}
		if c.Secure && !secure {
			continue
		}
		matched = append(matched, c)
	}
	j.mu.Unlock()

	for _, c := range expired {
		j.notify(cookies.ChangeEvent{Cookie: c, Cause: cookies.CauseExpired, Removed: true})
	}

	// Longer paths first, as browsers do.
	sort.SliceStable(matched, func(a, b int) bool {
		return len(matched[a].Path) > len(matched[b].Path)
	})
	out := make([]*http.Cookie, 0, len(matched))
	for _, c := range matched {
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return out
}

// All returns a snapshot of every stored cookie.
func (j *Jar) All() []cookies.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]cookies.Cookie, 0, len(j.entries))
	for _, c := range j.entries {
		out = append(out, c)
	}
	sort.Slice(out, func(a, b int) bool {
		ka, kb := out[a].Key(), out[b].Key()
		if ka.Domain != kb.Domain {
			return ka.Domain < kb.Domain
		}
		if ka.Path != kb.Path {
			return ka.Path < kb.Path
		}
		return ka.Name < kb.Name
	})
	return out
}

// Flush waits until every pending notification has been delivered.
func (j *Jar) Flush() {
	j.loop.flush()
}

// Drain waits until every notification has been delivered, including the
// ones caused by writes that listeners made in response. Listeners attached
// while draining see everything; detach them only afterwards.
func (j *Jar) Drain() {
	j.loop.drain()
}

// Load reads durable cookies saved by a previous run. A missing file is not
// an error; expired entries are dropped.
func (j *Jar) Load() error {
	if j.path == "" {
		return nil
	}
	data, err := os.ReadFile(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read cookie jar: %w", err)
	}

	var saved []cookies.Cookie
	if err := json.Unmarshal(data, &saved); err != nil {
		// Corrupt file: start with an empty jar
		j.logger.Warn("[jar] ignoring corrupt cookie file", zap.String("path", j.path), zap.Error(err))
		return nil
	}

	now := j.now()
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, c := range saved {
		if c.Session || !c.Expires.After(now) {
			continue
		}
		j.entries[c.Key()] = c
	}
	return nil
}

// Save writes every durable, unexpired cookie to disk.
func (j *Jar) Save() error {
	if j.path == "" {
		return nil
	}
	now := j.now()
	var durable []cookies.Cookie
	for _, c := range j.All() {
		if c.Session || !c.Expires.After(now) {
			continue
		}
		durable = append(durable, c)
	}

	data, err := json.MarshalIndent(durable, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(j.path), 0700); err != nil {
		return fmt.Errorf("failed to create cookie directory: %w", err)
	}
	tmp := j.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write cookie jar: %w", err)
	}
	return os.Rename(tmp, j.path)
}

// Close delivers pending notifications, stops the jar's goroutine and saves
// durable cookies.
func (j *Jar) Close() error {
	j.loop.close()
	return j.Save()
}

func (j *Jar) store(c cookies.Cookie) {
	k := c.Key()
	j.mu.Lock()
	old, existed := j.entries[k]
	j.entries[k] = c
	j.mu.Unlock()

	if existed {
		j.notify(cookies.ChangeEvent{Cookie: old, Cause: cookies.CauseOverwrite, Removed: true})
	}
	j.notify(cookies.ChangeEvent{Cookie: c, Cause: cookies.CauseExplicit})
}

func (j *Jar) remove(k cookies.Key, cause cookies.Cause) {
	j.mu.Lock()
	old, existed := j.entries[k]
	delete(j.entries, k)
	j.mu.Unlock()

	if existed {
		j.notify(cookies.ChangeEvent{Cookie: old, Cause: cause, Removed: true})
	}
}

func (j *Jar) notify(ev cookies.ChangeEvent) {
	j.loop.post(func() {
		j.mu.Lock()
		fns := make([]func(cookies.ChangeEvent), 0, len(j.listeners))
		for _, fn := range j.listeners {
			fns = append(fns, fn)
		}
		j.mu.Unlock()

		for _, fn := range fns {
			fn(ev)
		}
	})
}

func (j *Jar) fromHTTP(u *url.URL, host string, hc *http.Cookie) (cookies.Cookie, bool) {
	if hc.Name == "" {
		return cookies.Cookie{}, false
	}

	domain := host
	if hc.Domain != "" {
		d := strings.ToLower(strings.TrimPrefix(hc.Domain, "."))
		// Refuse cookies scoped to a public suffix such as ".com".
		if ps, _ := publicsuffix.PublicSuffix(d); ps == d {
			j.logger.Debug("[jar] rejecting public suffix cookie", zap.String("name", hc.Name), zap.String("domain", hc.Domain))
			return cookies.Cookie{}, false
		}
		domain = "." + d
		if !domainMatch(host, domain) {
			return cookies.Cookie{}, false
		}
	}

	path := hc.Path
	if path == "" || !strings.HasPrefix(path, "/") {
		path = defaultPath(u.Path)
	}

	c := cookies.Cookie{
		Name:     hc.Name,
		Value:    hc.Value,
		Domain:   domain,
		Path:     path,
		Secure:   hc.Secure,
		HTTPOnly: hc.HttpOnly,
		SameSite: sameSiteFromHTTP(hc.SameSite),
		Session:  true,
	}
	switch {
	case hc.MaxAge > 0:
		c.Session = false
		c.Expires = j.now().Add(time.Duration(hc.MaxAge) * time.Second)
	case !hc.Expires.IsZero():
		c.Session = false
		c.Expires = hc.Expires
	}
	return c, true
}

// domainMatch reports whether a cookie with the given domain applies to
// host. A leading dot allows subdomains.
func domainMatch(host, domain string) bool {
	domain = strings.ToLower(domain)
	if !strings.HasPrefix(domain, ".") {
		return host == domain
	}
	d := domain[1:]
	return host == d || strings.HasSuffix(host, domain)
}

func pathMatch(reqPath, cookiePath string) bool {
	if cookiePath == "" || cookiePath == "/" || reqPath == cookiePath {
		return true
	}
	if !strings.HasPrefix(reqPath, cookiePath) {
		return false
	}
	return strings.HasSuffix(cookiePath, "/") || reqPath[len(cookiePath)] == '/'
}

func defaultPath(reqPath string) string {
	i := strings.LastIndex(reqPath, "/")
	if i <= 0 {
		return "/"
	}
	return reqPath[:i]
}

func sameSiteFromHTTP(s http.SameSite) cookies.SameSite {
	switch s {
	case http.SameSiteLaxMode:
		return cookies.SameSiteLax
	case http.SameSiteStrictMode:
		return cookies.SameSiteStrict
	default:
		return cookies.SameSiteNoRestriction
	}
}
