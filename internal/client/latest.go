package client

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned by Run when a newer request started before this one finished
var ErrSuperseded = errors.New("request superseded by a newer one")

// Token identifies one request started through a Latest guard
type Token uint64

// Latest is a latest-wins request guard. Begin cancels the request started before it, and
// Current tells whether a token still belongs to the newest request, so responses arriving out
// of order can be dropped.
type Latest struct {
	mu     sync.Mutex
	seq    Token
	cancel context.CancelFunc
}

// Begin starts a new request, cancelling the previous one
func (l *Latest) Begin(parent context.Context) (context.Context, Token) {
	ctx, cancel := context.WithCancel(parent)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
	l.seq++
	l.cancel = cancel
	return ctx, l.seq
}

// Current reports whether tok is the newest request
func (l *Latest) Current(tok Token) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return tok == l.seq
}

// Done releases the context of tok if it is still the newest request
func (l *Latest) Done(tok Token) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if tok == l.seq && l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

// Stop cancels whatever request is in flight
func (l *Latest) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.seq++
}

// Run calls fn under a new request of l. A result that was overtaken by a newer request is
// discarded and ErrSuperseded is returned instead.
func Run[T any](ctx context.Context, l *Latest, fn func(context.Context) (T, error)) (T, error) {
	reqCtx, tok := l.Begin(ctx)
	defer l.Done(tok)

	v, err := fn(reqCtx)
	if !l.Current(tok) {
		var zero T
		return zero, ErrSuperseded
	}
	return v, err
}
