// Package ui defines the typed commands the shell sends to the embedded
// page. How a command is carried out on the page is up to the host; a
// landmark that cannot be found turns the command into a no-op.
package ui

// Landmark names a region or control of the embedded page.
type Landmark string

const (
	// InboxSwitcher is the left-hand inbox/sidebar column.
	InboxSwitcher Landmark = "inbox-switcher"
	// NewMessage is the compose button.
	NewMessage Landmark = "new-message"
)

// Command is a request for a page-side effect.
type Command interface {
	Type() string
}

// SetLandmarkVisibility shows or hides a landmark.
type SetLandmarkVisibility struct {
	Landmark Landmark `json:"landmark"`
	Visible  bool     `json:"visible"`
}

func (SetLandmarkVisibility) Type() string { return "setLandmarkVisibility" }

// ActivateLandmark clicks a landmark.
type ActivateLandmark struct {
	Landmark Landmark `json:"landmark"`
}

func (ActivateLandmark) Type() string { return "activateLandmark" }

// OpenConversation opens the conversation at Index (0-based) in the list.
type OpenConversation struct {
	Index int `json:"index"`
}

func (OpenConversation) Type() string { return "openConversation" }

// MaxConversationShortcut is the highest conversation reachable by shortcut.
const MaxConversationShortcut = 9

// Sidebar returns the command applying the sidebar visibility flag.
func Sidebar(visible bool) Command {
	return SetLandmarkVisibility{Landmark: InboxSwitcher, Visible: visible}
}

// Envelope is the wire form of a Command.
type Envelope struct {
	Type    string  `json:"type"`
	Command Command `json:"command"`
}

// Wrap puts cmd in an Envelope.
func Wrap(cmd Command) Envelope {
	return Envelope{Type: cmd.Type(), Command: cmd}
}

// Sink delivers commands to the page. Send never blocks on the page.
type Sink interface {
	Send(cmd Command)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(cmd Command)

// Send calls f(cmd).
func (f SinkFunc) Send(cmd Command) { f(cmd) }
