package webhost

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Ahsanlashari87/messenger-mac/internal/logging"
)

// Paths served by the host rather than the upstream site.
const (
	BridgeScriptPath = "/__shell/bridge.js"
	wailsIPCPath     = "/wails/ipc.js"
	wailsRuntimePath = "/wails/runtime.js"
)

// Proxy serves the upstream web application to the window. Requests carry
// the jar's cookies and responses feed Set-Cookie headers back into the
// jar, so the jar is the only cookie store the page ever uses.
type Proxy struct {
	upstream *url.URL
	jar      *Jar
	bridge   *Bridge
	rp       *httputil.ReverseProxy
	logger   *zap.Logger
}

// NewProxy creates a proxy for upstream (e.g. "https://www.messenger.com").
func NewProxy(upstream string, jar *Jar, bridge *Bridge, logger *zap.Logger) (*Proxy, error) {
	u, err := url.Parse(upstream)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream %q: %w", upstream, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid upstream %q: must be absolute", upstream)
	}

	p := &Proxy{
		upstream: u,
		jar:      jar,
		bridge:   bridge,
		logger:   logging.OrNop(logger),
	}
	p.rp = &httputil.ReverseProxy{
		Rewrite:        p.rewrite,
		ModifyResponse: p.modifyResponse,
		ErrorHandler:   p.errorHandler,
	}
	return p, nil
}

// Upstream returns the upstream origin.
func (p *Proxy) Upstream() *url.URL {
	return p.upstream
}

// ServeHTTP implements http.Handler.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == BridgeScriptPath {
		p.bridge.ServeScript(w, r)
		return
	}
	p.rp.ServeHTTP(w, r)
}

func (p *Proxy) rewrite(pr *httputil.ProxyRequest) {
	pr.SetURL(p.upstream)
	pr.Out.Host = p.upstream.Host

	pr.Out.Header.Del("Cookie")
	for _, c := range p.jar.Cookies(pr.Out.URL) {
		pr.Out.AddCookie(c)
	}
	// HTML is rewritten on the way back, so ask for it uncompressed.
	pr.Out.Header.Set("Accept-Encoding", "identity")
	if pr.Out.Header.Get("Origin") != "" {
		pr.Out.Header.Set("Origin", p.upstream.Scheme+"://"+p.upstream.Host)
	}
	if ref := pr.Out.Header.Get("Referer"); ref != "" {
		pr.Out.Header.Set("Referer", p.toUpstream(ref))
	}
}

func (p *Proxy) modifyResponse(resp *http.Response) error {
	if received := resp.Cookies(); len(received) > 0 {
		p.jar.SetCookies(resp.Request.URL, received)
	}
	resp.Header.Del("Set-Cookie")

	if loc := resp.Header.Get("Location"); loc != "" {
		resp.Header.Set("Location", p.toLocal(loc))
	}

	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		return nil
	}
	// The bridge script is not part of the upstream's policy.
	resp.Header.Del("Content-Security-Policy")
	resp.Header.Del("Content-Security-Policy-Report-Only")

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read upstream html: %w", err)
	}
	body = InjectScripts(body, p.scriptsFor(resp.Request.URL.Path))
	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))
	resp.Header.Set("Content-Length", strconv.Itoa(len(body)))
	return nil
}

func (p *Proxy) errorHandler(w http.ResponseWriter, r *http.Request, err error) {
	p.logger.Warn("[proxy] upstream request failed", zap.String("path", r.URL.Path), zap.Error(err))
	w.WriteHeader(http.StatusBadGateway)
}

// scriptsFor lists the scripts to inject into an HTML page. The asset
// server already adds the Wails runtime to the index page.
func (p *Proxy) scriptsFor(path string) []string {
	switch path {
	case "", "/", "/index.html":
		return []string{BridgeScriptPath}
	default:
		return []string{wailsIPCPath, wailsRuntimePath, BridgeScriptPath}
	}
}

// toLocal turns an upstream URL into a window-relative one so redirects
// stay inside the proxy. Other URLs are returned unchanged.
func (p *Proxy) toLocal(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || !strings.EqualFold(u.Host, p.upstream.Host) {
		return raw
	}
	local := u.EscapedPath()
	if local == "" {
		local = "/"
	}
	if u.RawQuery != "" {
		local += "?" + u.RawQuery
	}
	if u.Fragment != "" {
		local += "#" + u.EscapedFragment()
	}
	return local
}

// toUpstream rewrites a window URL to the upstream origin.
func (p *Proxy) toUpstream(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Scheme = p.upstream.Scheme
	u.Host = p.upstream.Host
	return u.String()
}

// InjectScripts adds a script tag for each src before </head>, or at the
// start of the document when there is no head.
func InjectScripts(html []byte, srcs []string) []byte {
	var tags bytes.Buffer
	for _, src := range srcs {
		fmt.Fprintf(&tags, `<script src="%s"></script>`, src)
	}
	lower := bytes.ToLower(html)
	if i := bytes.Index(lower, []byte("</head>")); i >= 0 {
		out := make([]byte, 0, len(html)+tags.Len())
		out = append(out, html[:i]...)
		out = append(out, tags.Bytes()...)
		return append(out, html[i:]...)
	}
	return append(tags.Bytes(), html...)
}
