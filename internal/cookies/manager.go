package cookies

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Ahsanlashari87/messenger-mac/internal/logging"
)

// ErrWriteRejected wraps failures reported by the host store for a
// promotion write.
var ErrWriteRejected = errors.New("cookie write rejected")

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	Store  Store
	Audit  AuditLog
	Logger *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Stats counts what the manager has seen since it was created.
type Stats struct {
	Observed  int64 `json:"observed"`
	Requested int64 `json:"requested"`
	Acked     int64 `json:"acked"`
	Failed    int64 `json:"failed"`
}

// Manager promotes eligible session cookies to durable cookies. It keeps no
// cookie state of its own; the host store is the source of truth.
type Manager struct {
	store  Store
	audit  AuditLog
	logger *zap.Logger
	now    func() time.Time

	observed  atomic.Int64
	requested atomic.Int64
	acked     atomic.Int64
	failed    atomic.Int64
}

// NewManager creates a Manager.
func NewManager(cfg ManagerConfig) *Manager {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{
		store:  cfg.Store,
		audit:  cfg.Audit,
		logger: logging.OrNop(cfg.Logger),
		now:    now,
	}
}

// Attach subscribes the manager to the store's change notifications.
func (m *Manager) Attach() *Subscription {
	return NewSubscription(m.store.Subscribe(func(ev ChangeEvent) {
		m.HandleChange(ev)
	}))
}

// HandleChange runs one change event through the promotion state machine
// and returns the state reached synchronously: Ineligible or
// PromotionRequested. The write's outcome is only logged.
func (m *Manager) HandleChange(ev ChangeEvent) State {
	m.observed.Add(1)
	m.record(ev)

	if Evaluate(ev) == Ineligible {
		return Ineligible
	}

	req := Promote(ev.Cookie, m.now())
	m.requested.Add(1)
	m.logger.Debug("[cookies] converting to persistent",
		zap.String("name", req.Name),
		zap.String("url", req.URL),
		zap.Int64("expirationDate", req.ExpirationDate),
	)
	m.store.Set(req, func(err error) {
		m.settle(req, err)
	})
	return PromotionRequested
}

// Stats returns a snapshot of the counters.
func (m *Manager) Stats() Stats {
	return Stats{
		Observed:  m.observed.Load(),
		Requested: m.requested.Load(),
		Acked:     m.acked.Load(),
		Failed:    m.failed.Load(),
	}
}

func (m *Manager) settle(req WriteRequest, err error) State {
	if err != nil {
		m.failed.Add(1)
		m.logger.Warn("[cookies] promotion failed",
			zap.String("name", req.Name),
			zap.String("domain", req.Domain),
			zap.Error(fmt.Errorf("%w: %v", ErrWriteRejected, err)),
		)
		return PromotionFailed
	}
	m.acked.Add(1)
	return PromotionAcked
}

func (m *Manager) record(ev ChangeEvent) {
	if m.audit == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			m.logger.Warn("[cookies] audit log failed", zap.Any("panic", r))
		}
	}()
	m.audit.Record(ev)
}

// Subscription detaches a listener from its source when closed.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// NewSubscription wraps an unsubscribe function.
func NewSubscription(cancel func()) *Subscription {
	return &Subscription{cancel: cancel}
}

// Close detaches the listener. It is safe to call more than once.
func (s *Subscription) Close() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}
