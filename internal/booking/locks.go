package booking

import "sync"

// sessionLocks hands out one mutex per session so the read-check-write on a
// session's seat counter is exclusive, while unrelated sessions proceed in
// parallel. Entries live for the life of the process; the working set is the
// set of sessions touched since startup, which stays small.
type sessionLocks struct {
	locks sync.Map
}

func (l *sessionLocks) forSession(sessionID string) *sync.Mutex {
	mu, _ := l.locks.LoadOrStore(sessionID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
