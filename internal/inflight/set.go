package inflight

import "sync"

// Set tracks which action kinds are currently running. One action per kind may
// run at a time; different kinds do not block each other.
type Set struct {
	mu      sync.Mutex
	running map[string]struct{}
}

// New creates an empty Set.
func New() *Set {
	return &Set{running: make(map[string]struct{})}
}

// TryAcquire marks key as running. It reports false when key is already
// running. The returned release is safe to call more than once.
func (s *Set) TryAcquire(key string) (release func(), ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.running[key]; busy {
		return func() {}, false
	}
	s.running[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.running, key)
			s.mu.Unlock()
		})
	}, true
}

// Busy reports whether key is running.
func (s *Set) Busy(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.running[key]
	return ok
}
