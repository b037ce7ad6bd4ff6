// Package locks serializes cart and checkout mutations per owner. The store
// gives per-document atomicity only; the read-modify-write sequences around
// it need this to avoid lost updates between two requests of the same user.
package locks

import "sync"

// Keyed is a set of mutexes addressed by string key. The zero value is not
// usable; call NewKeyed.
type Keyed struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyed() *Keyed {
	return &Keyed{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key, creating it on first use. Mutexes are
// kept for the life of the process; the key space is bounded by the set of
// active users.
func (k *Keyed) Lock(key string) {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()
	m.Lock()
}

// Unlock releases the mutex for key. Panics if the key was never locked.
func (k *Keyed) Unlock(key string) {
	k.mu.Lock()
	m := k.locks[key]
	k.mu.Unlock()
	m.Unlock()
}
