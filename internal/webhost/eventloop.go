package webhost

import "sync"

// eventLoop runs posted callbacks one at a time, in order, on a single
// goroutine. Callbacks may post further callbacks without deadlocking.
type eventLoop struct {
	mu      sync.Mutex
	idle    *sync.Cond
	queue   []func()
	pending int // posted but not yet finished
	wake    chan struct{}
	done    chan struct{}
	closed  bool
}

func newEventLoop() *eventLoop {
	l := &eventLoop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	l.idle = sync.NewCond(&l.mu)
	go l.run()
	return l
}

// post enqueues fn. It returns false once the loop is closed.
func (l *eventLoop) post(fn func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.pending++
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

func (l *eventLoop) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// flush waits until everything posted before the call has run.
func (l *eventLoop) flush() {
	ch := make(chan struct{})
	if !l.post(func() { close(ch) }) {
		return
	}
	<-ch
}

// drain waits until the loop has nothing left to run, including callbacks
// posted by other callbacks while draining. It must not be called from a
// callback.
func (l *eventLoop) drain() {
	l.mu.Lock()
	for l.pending > 0 {
		l.idle.Wait()
	}
	l.mu.Unlock()
}

// close drains the queue and stops the loop.
func (l *eventLoop) close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		<-l.done
		return
	}
	l.closed = true
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	<-l.done
}

func (l *eventLoop) run() {
	defer close(l.done)
	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		closed := l.closed
		l.mu.Unlock()

		for _, fn := range batch {
			fn()
			l.finished()
		}
		if len(batch) > 0 {
			continue
		}
		if closed {
			return
		}
		<-l.wake
	}
}

func (l *eventLoop) finished() {
	l.mu.Lock()
	l.pending--
	if l.pending == 0 {
		l.idle.Broadcast()
	}
	l.mu.Unlock()
}
