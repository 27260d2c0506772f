package room

import "sync"

// roomLocks provides per-room mutual exclusion so that every
// find-then-mutate sequence on a room runs as a critical section.
// Handlers lock at most one room at a time, so there is no ordering
// to get wrong.
type roomLocks struct {
	mu    sync.Mutex
	locks map[string]*roomLock
}

type roomLock struct {
	mu   sync.Mutex
	refs int
}

func newRoomLocks() *roomLocks {
	return &roomLocks{
		locks: make(map[string]*roomLock),
	}
}

// lock acquires the mutex for the given key and returns the unlock
// function. Lock entries are refcounted and removed on release so the
// map doesn't grow with every room code ever seen.
func (l *roomLocks) lock(key string) func() {
	l.mu.Lock()
	entry, ok := l.locks[key]
	if !ok {
		entry = &roomLock{}
		l.locks[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}
