package service

import "sync"

// RoomLocker serializes fetch-mutate-store cycles per room code. Operations
// on distinct codes proceed independently; two operations on the same code
// never interleave.
type RoomLocker struct {
	mu    sync.Mutex
	locks map[string]*roomLock
}

type roomLock struct {
	mu   sync.Mutex
	refs int
}

func NewRoomLocker() *RoomLocker {
	return &RoomLocker{
		locks: make(map[string]*roomLock),
	}
}

func (that *RoomLocker) Lock(code string) {
	that.mu.Lock()

	lock, ok := that.locks[code]
	if !ok {
		lock = &roomLock{}
		that.locks[code] = lock
	}
	lock.refs++

	that.mu.Unlock()

	lock.mu.Lock()
}

func (that *RoomLocker) Unlock(code string) {
	that.mu.Lock()

	lock, ok := that.locks[code]
	if ok {
		lock.refs--
		if lock.refs == 0 {
			delete(that.locks, code)
		}
	}

	that.mu.Unlock()

	if ok {
		lock.mu.Unlock()
	}
}
