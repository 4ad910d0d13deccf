// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package syncx contains useful synchronization primitives.
package syncx

import "sync"

// Lazy is a value computed on first use. The zero value is ready to use.
type Lazy[T any] struct {
	once sync.Once
	val  T
	err  error
}

// Get returns the value, calling f to compute it on the first call.
func (l *Lazy[T]) Get(f func() T) T {
	l.once.Do(func() { l.val = f() })
	return l.val
}

// GetErr is like Get for computations that can fail. The error is
// remembered as well: f is never called again.
func (l *Lazy[T]) GetErr(f func() (T, error)) (T, error) {
	l.once.Do(func() { l.val, l.err = f() })
	return l.val, l.err
}

// LimitedWaitGroup is a [sync.WaitGroup] that runs at most a fixed number of
// goroutines at once.
type LimitedWaitGroup struct {
	wg  sync.WaitGroup
	sem chan struct{}
}

// NewLimitedWaitGroup returns a LimitedWaitGroup running up to limit
// goroutines at once. A limit below one is treated as one.
func NewLimitedWaitGroup(limit int) *LimitedWaitGroup {
	return &LimitedWaitGroup{sem: make(chan struct{}, max(1, limit))}
}

// Go runs f in a new goroutine. If the limit is reached, Go blocks until
// one of the running goroutines returns, so goroutines start in the order
// of the calls to Go.
func (lwg *LimitedWaitGroup) Go(f func()) {
	lwg.sem <- struct{}{}
	lwg.wg.Go(func() {
		defer func() { <-lwg.sem }()
		f()
	})
}

// Wait blocks until all goroutines started with Go have returned.
func (lwg *LimitedWaitGroup) Wait() { lwg.wg.Wait() }
