package navigation

import (
	"go.uber.org/zap"

	"github.com/Ahsanlashari87/messenger-mac/internal/logging"
)

// Action tells the host whether to let a request through.
type Action string

const (
	Allow Action = "allow"
	Deny  Action = "deny"
)

// Decision is the answer to an intercepted request. External holds the URL
// handed to the system browser, if any.
type Decision struct {
	Action   Action `json:"action"`
	External string `json:"external,omitempty"`
}

// Opener opens a URL in the system's default handler.
type Opener interface {
	OpenExternal(url string)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(url string)

// OpenExternal calls f(url).
func (f OpenerFunc) OpenExternal(url string) { f(url) }

// Enforcer applies the classifier at the two interception points of the
// embedded view.
type Enforcer struct {
	opener   Opener
	classify func(string) Result
	logger   *zap.Logger
}

// NewEnforcer creates an Enforcer dispatching external URLs to opener.
func NewEnforcer(opener Opener, logger *zap.Logger) *Enforcer {
	return &Enforcer{
		opener:   opener,
		classify: Classify,
		logger:   logging.OrNop(logger),
	}
}

// HandleNewWindow handles a window.open request. A native second window is
// never created: the result is always Deny, with external targets sent to
// the opener.
func (e *Enforcer) HandleNewWindow(rawURL string) Decision {
	res := e.classify(rawURL)
	e.logger.Debug("[nav] new-window request", zap.String("url", rawURL), zap.Stringer("result", res))
	if res.Kind == External {
		return e.dispatch(res.Target)
	}
	return Decision{Action: Deny}
}

// HandleNavigation handles an in-page navigation before the view changes
// location.
func (e *Enforcer) HandleNavigation(rawURL string) Decision {
	res := e.classify(rawURL)
	e.logger.Debug("[nav] navigation request", zap.String("url", rawURL), zap.Stringer("result", res))
	if res.Kind == External {
		return e.dispatch(res.Target)
	}
	return Decision{Action: Allow}
}

func (e *Enforcer) dispatch(target string) Decision {
	if e.opener != nil {
		e.opener.OpenExternal(target)
	}
	return Decision{Action: Deny, External: target}
}
