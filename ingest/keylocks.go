// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ingest

import (
	"sync"

	"github.com/danielhkuo/live-results/models"
)

// keyLocks hands out one mutex per unit key. Entries are reference counted
// and removed once no goroutine holds or waits on them.
type keyLocks struct {
	mu    sync.Mutex
	locks map[models.UnitKey]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyLocks() *keyLocks {
	return &keyLocks{locks: make(map[models.UnitKey]*keyLock)}
}

// lock blocks until the caller owns key and returns the matching unlock.
func (k *keyLocks) lock(key models.UnitKey) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func (k *keyLocks) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
