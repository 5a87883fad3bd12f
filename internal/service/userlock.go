package service

import "sync"

// userLocks keys an RWMutex by user id. Mutations take the write lock so
// all writes for one user serialize; reads share the read lock so a
// snapshot is never taken mid-mutation. Different users map to different
// mutexes and never contend.
//
// Entries are never evicted: the map holds one mutex per user id seen
// during the process lifetime, so memory grows with the total user
// population served since startup, not with the set of active carts.
// Safe eviction requires a refcount per entry so a mutex is never freed
// while another goroutine is about to lock it.
type userLocks struct {
	m sync.Map // userID -> *sync.RWMutex
}

func (l *userLocks) get(userID string) *sync.RWMutex {
	if v, ok := l.m.Load(userID); ok {
		return v.(*sync.RWMutex)
	}
	v, _ := l.m.LoadOrStore(userID, &sync.RWMutex{})
	return v.(*sync.RWMutex)
}
