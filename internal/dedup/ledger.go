// Package dedup tracks which call identifiers have already entered the
// pipeline during this process lifetime.
//
// The ledger is not persisted: after a restart every call on the provider's
// recent page is admitted again and may be notified twice.
package dedup

import "sync"

type Ledger struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewLedger() *Ledger {
	return &Ledger{seen: make(map[string]struct{})}
}

// Admit records id and returns true the first time it is seen. Empty ids are
// never admitted.
func (l *Ledger) Admit(id string) bool {
	if id == "" {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.seen[id]; ok {
		return false
	}
	l.seen[id] = struct{}{}
	return true
}

func (l *Ledger) Contains(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.seen[id]
	return ok
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.seen)
}
