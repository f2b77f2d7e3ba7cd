package certstore

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store with an in-memory map. It is intended
// for tests, where it stands in for the shared filesystem volume
// without touching disk.
type MemoryStore struct {
	mu      sync.RWMutex
	bundles map[string]*memBundle
	subs    map[string][]chan ChangeEvent

	// now is swappable so tests can control modification times.
	now func() time.Time
}

type memBundle struct {
	chainPEM []byte
	keyPEM   []byte
	modTime  time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bundles: make(map[string]*memBundle),
		subs:    make(map[string][]chan ChangeEvent),
		now:     time.Now,
	}
}

// SetClock replaces the store's clock. Test hook.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Exists reports whether a bundle has been written for the domain.
func (s *MemoryStore) Exists(domain string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.bundles[domain]
	return ok
}

// ModTime returns the write time of the stored bundle.
func (s *MemoryStore) ModTime(domain string) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bundles[domain]
	if !ok {
		return time.Time{}, ErrNotFound
	}
	return b.modTime, nil
}

// Load returns the bundle for a domain, parsing the leaf certificate
// the same way the filesystem store does.
func (s *MemoryStore) Load(domain string) (*Bundle, error) {
	s.mu.RLock()
	b, ok := s.bundles[domain]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}

	leaf, err := ParseLeaf(b.chainPEM)
	if err != nil {
		return nil, err
	}

	return &Bundle{
		Domain:    domain,
		NotBefore: leaf.NotBefore,
		NotAfter:  leaf.NotAfter,
		ModTime:   b.modTime,
	}, nil
}

// Chain returns the raw stored chain PEM. Test hook.
func (s *MemoryStore) Chain(domain string) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if b, ok := s.bundles[domain]; ok {
		return b.chainPEM
	}
	return nil
}

// Write stores new bundle material and notifies watchers.
func (s *MemoryStore) Write(domain string, chainPEM, keyPEM []byte) error {
	s.mu.Lock()
	s.bundles[domain] = &memBundle{
		chainPEM: append([]byte(nil), chainPEM...),
		keyPEM:   append([]byte(nil), keyPEM...),
		modTime:  s.now(),
	}
	subs := append([]chan ChangeEvent(nil), s.subs[domain]...)
	at := s.now()
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- ChangeEvent{Domain: domain, At: at}:
		default:
			// Slow subscriber; drop rather than block the writer.
		}
	}

	return nil
}

// Watch subscribes to writes for the domain. The subscription is
// removed and the channel closed when ctx is cancelled.
func (s *MemoryStore) Watch(ctx context.Context, domain string) (<-chan ChangeEvent, error) {
	ch := make(chan ChangeEvent, 4)

	s.mu.Lock()
	s.subs[domain] = append(s.subs[domain], ch)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()

		s.mu.Lock()
		subs := s.subs[domain]
		for i, sub := range subs {
			if sub == ch {
				s.subs[domain] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		s.mu.Unlock()

		close(ch)
	}()

	return ch, nil
}
