package webhost

import (
	_ "embed"
	"encoding/json"
	"net/http"

	"github.com/Ahsanlashari87/messenger-mac/internal/ui"
)

//go:embed bridge.js
var bridgeScript []byte

// CommandEvent is the runtime event carrying ui.Envelope values to the page.
const CommandEvent = "shell:command"

// PageLoadedEvent is emitted by the bridge once the page has loaded.
const PageLoadedEvent = "shell:page-loaded"

// LandmarkSelectors maps each landmark to the page selectors tried in order.
// Only the bridge knows about selectors.
var LandmarkSelectors = map[ui.Landmark][]string{
	ui.InboxSwitcher: {`[aria-label="Inbox switcher"]`},
	ui.NewMessage: {
		`[aria-label="New message"]`,
		`[aria-label="Start a new message"]`,
		`[aria-label="Compose"]`,
	},
}

// BridgeConfig is handed to the page script.
type BridgeConfig struct {
	Upstream         string                   `json:"upstream"`
	CommandEvent     string                   `json:"commandEvent"`
	PageLoadedEvent  string                   `json:"pageLoadedEvent"`
	Landmarks        map[ui.Landmark][]string `json:"landmarks"`
	ConversationRow  string                   `json:"conversationRow"`
	ConversationLink string                   `json:"conversationLink"`
}

// Bridge serves the script that connects the page to the Go side: it routes
// window.open and link navigation through the bound App methods and carries
// out ui commands.
type Bridge struct {
	config BridgeConfig
}

// NewBridge creates a bridge for the given upstream origin.
func NewBridge(upstream string) *Bridge {
	return &Bridge{config: BridgeConfig{
		Upstream:         upstream,
		CommandEvent:     CommandEvent,
		PageLoadedEvent:  PageLoadedEvent,
		Landmarks:        LandmarkSelectors,
		ConversationRow:  `[role="row"]`,
		ConversationLink: `a[role="link"][href*="/t/"]`,
	}}
}

// Config returns the configuration embedded in the script.
func (b *Bridge) Config() BridgeConfig {
	return b.config
}

// Script returns the bridge script with its configuration prepended.
func (b *Bridge) Script() ([]byte, error) {
	cfg, err := json.Marshal(b.config)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(cfg)+len(bridgeScript)+32)
	out = append(out, "window.__shellConfig = "...)
	out = append(out, cfg...)
	out = append(out, ";\n"...)
	return append(out, bridgeScript...), nil
}

// ServeScript writes the bridge script.
func (b *Bridge) ServeScript(w http.ResponseWriter, r *http.Request) {
	script, err := b.Script()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(script)
}
