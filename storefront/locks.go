package storefront

import "sync"

// profileLocks serialises the requests of one profile. Entries are dropped
// once nobody holds or waits for them.
type profileLocks struct {
	mu    sync.Mutex
	locks map[string]*profileLock
}

type profileLock struct {
	mu   sync.Mutex
	refs int
}

func newProfileLocks() *profileLocks {
	return &profileLocks{locks: make(map[string]*profileLock)}
}

// acquire blocks until profileID is free and returns its release func.
func (p *profileLocks) acquire(profileID string) func() {
	p.mu.Lock()
	l, ok := p.locks[profileID]
	if !ok {
		l = &profileLock{}
		p.locks[profileID] = l
	}
	l.refs++
	p.mu.Unlock()

	l.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Unlock()
			p.mu.Lock()
			l.refs--
			if l.refs == 0 {
				delete(p.locks, profileID)
			}
			p.mu.Unlock()
		})
	}
}

func (p *profileLocks) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.locks)
}
