package keylock

import "sync"

// KeyLock provides an exclusive lock per string key. Locks for distinct keys
// are independent. Entries are dropped once no goroutine holds or waits on
// them, so the map does not grow with the number of keys ever seen.
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*lock
}

type lock struct {
	mu   sync.Mutex
	refs int
}

func New() *KeyLock {
	return &KeyLock{locks: make(map[string]*lock)}
}

// Lock blocks until the lock for key is acquired and returns the function
// releasing it.
func (kl *KeyLock) Lock(key string) (unlock func()) {
	kl.mu.Lock()
	l, ok := kl.locks[key]
	if !ok {
		l = &lock{}
		kl.locks[key] = l
	}
	l.refs++
	kl.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		kl.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(kl.locks, key)
		}
		kl.mu.Unlock()
	}
}
