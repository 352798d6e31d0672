package common

import (
	"sync"

	"github.com/google/uuid"
)

// KeyMutex serializes read-modify-write sequences per material id. Concurrent
// stock mutations against different materials proceed in parallel; mutations
// against the same material are exclusive. Entries are reference counted and
// removed once the last holder unlocks, so the map does not grow with every
// material id ever seen.
type KeyMutex struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*keyLock
}

type keyLock struct {
	sync.Mutex
	refs int
}

// NewKeyMutex creates an empty keyed mutex.
func NewKeyMutex() *KeyMutex {
	return &KeyMutex{locks: make(map[uuid.UUID]*keyLock)}
}

// Lock acquires the mutex for key, creating it on first use.
func (k *KeyMutex) Lock(key uuid.UUID) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()
	l.Lock()
}

// Unlock releases the mutex for key and drops the entry when no other
// goroutine holds or waits on it.
func (k *KeyMutex) Unlock(key uuid.UUID) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if ok {
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
	}
	k.mu.Unlock()
	if ok {
		l.Unlock()
	}
}

// Len reports the number of live entries.
func (k *KeyMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
