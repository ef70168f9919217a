package pirep

import (
	"sync"
)

// lockArena hands out one mutex per PIREP id so operations on the same
// flight serialize while different flights proceed in parallel. Never a
// single global lock.
type lockArena struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newLockArena() *lockArena {
	return &lockArena{locks: make(map[uint]*sync.Mutex)}
}

// For returns the mutex owning the given PIREP id
func (a *lockArena) For(id uint) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()
	l, ok := a.locks[id]
	if !ok {
		l = &sync.Mutex{}
		a.locks[id] = l
	}
	return l
}
