package xsync

import "sync"

// KeyMutex hands out a distinct *sync.Mutex per string key, created lazily
// and kept only while at least one caller references it. It serializes
// concurrent operations that share a key (e.g. two inbound messages for the
// same instance_uid racing on the same agent record) without forcing a
// single global lock across unrelated keys.
type KeyMutex struct {
	mu    sync.Mutex
	locks map[string]*refcountedMutex
}

type refcountedMutex struct {
	mu  sync.Mutex
	refs int
}

// NewKeyMutex creates an empty KeyMutex.
func NewKeyMutex() *KeyMutex {
	return &KeyMutex{locks: make(map[string]*refcountedMutex)}
}

// Lock blocks until key's mutex is held by the caller. It must be paired
// with a call to Unlock with the same key.
func (k *KeyMutex) Lock(key string) {
	k.mu.Lock()
	entry, ok := k.locks[key]

	if !ok {
		entry = &refcountedMutex{}
		k.locks[key] = entry
	}

	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()
}

// Unlock releases key's mutex, discarding its entry once no caller is
// waiting on it so the map does not grow without bound across the agent
// population's lifetime.
func (k *KeyMutex) Unlock(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()

	entry, ok := k.locks[key]
	if !ok {
		return
	}

	entry.mu.Unlock()
	entry.refs--

	if entry.refs == 0 {
		delete(k.locks, key)
	}
}
