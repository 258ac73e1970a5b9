// Package hooks provides the host-integration surface: a bus that a
// kernel or REPL layer uses to run registered cell handlers before
// execution. The formatting pipeline subscribes here; the host owns
// the bus's lifecycle and tears it down on unload.
package hooks

import (
	"log/slog"
	"sync"
)

// Handler rewrites one unit of source text before it executes. It
// returns the replacement text and whether anything changed.
type Handler func(cell string) (string, bool)

// Token identifies a subscription for later removal.
type Token int

// Bus dispatches cells through subscribed handlers in subscription
// order. Dispatch from one invocation completes before the next
// begins; the mutex only guards subscription bookkeeping.
type Bus struct {
	mu       sync.RWMutex
	next     Token
	order    []Token
	handlers map[Token]Handler
	logger   *slog.Logger
}

// NewBus creates a Bus. A nil logger disables logging output.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bus{
		handlers: make(map[Token]Handler),
		logger:   logger,
	}
}

// Subscribe registers a handler and returns its token.
func (b *Bus) Subscribe(h Handler) Token {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := b.next
	b.next++
	b.order = append(b.order, t)
	b.handlers[t] = h
	return t
}

// Unsubscribe removes a handler. Unknown tokens are ignored.
func (b *Bus) Unsubscribe(t Token) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.handlers[t]; !ok {
		return
	}
	delete(b.handlers, t)
	for i, o := range b.order {
		if o == t {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of subscribed handlers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}

// Dispatch chains the cell through every handler. A handler that
// panics is skipped with its input passed through untouched, so a
// broken formatter never blocks the host's execution.
func (b *Bus) Dispatch(cell string) (string, bool) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.order))
	for _, t := range b.order {
		handlers = append(handlers, b.handlers[t])
	}
	b.mu.RUnlock()

	out := cell
	changed := false
	for _, h := range handlers {
		if next, ok := b.run(h, out); ok {
			out = next
			changed = true
		}
	}
	return out, changed
}

// run invokes one handler behind a recover boundary.
func (b *Bus) run(h Handler, cell string) (out string, changed bool) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("cell handler panicked", "panic", r)
			out, changed = cell, false
		}
	}()
	return h(cell)
}
