// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package locking serializes read-modify-write cycles on the same container location.
package locking

import (
	"context"
	"fmt"
	"sync"
)

// LockError is returned when a lock could not be acquired before the context ended
type LockError struct {
	Key string
	Err error
}

func (e *LockError) Error() string {
	return fmt.Sprintf("failed to lock %s: %v", e.Key, e.Err)
}

func (e *LockError) Unwrap() error {
	return e.Err
}

type entry struct {
	sem  chan struct{}
	refs int
}

// Locker hands out one exclusive lock per key. Keys nobody holds or waits for are forgotten.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

// NewLocker creates a new locker instance
func NewLocker() *Locker {
	return &Locker{locks: make(map[string]*entry)}
}

// Acquire blocks until key is free or ctx is done. The returned release func is idempotent.
func (l *Locker) Acquire(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		l.drop(key, e)
		return nil, &LockError{Key: key, Err: ctx.Err()}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			l.drop(key, e)
		})
	}, nil
}

func (l *Locker) drop(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}

// WithLock executes fn while holding the lock for key
func (l *Locker) WithLock(ctx context.Context, key string, fn func() error) error {
	release, err := l.Acquire(ctx, key)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}

// Len returns the number of keys currently held or waited on
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
