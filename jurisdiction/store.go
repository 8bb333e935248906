package jurisdiction

import (
	"sync"

	"github.com/google/uuid"

	"github.com/linchenxuan/voxnet/log"
)

// Store holds the latest jurisdiction map per voxel server. The network side
// replaces whole maps as broadcasts arrive; readers classify against whichever
// snapshot is current. Because maps are immutable, a reader holding a *Map is
// never affected by a concurrent swap.
type Store struct {
	mu   sync.RWMutex
	maps map[uuid.UUID]*Map
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{maps: make(map[uuid.UUID]*Map)}
}

// Set publishes m as the jurisdiction of server id, replacing any previous
// map.
func (s *Store) Set(id uuid.UUID, m *Map) {
	if m == nil {
		return
	}
	s.mu.Lock()
	s.maps[id] = m
	s.mu.Unlock()
}

// SetFromWire decodes a jurisdiction broadcast payload and publishes it. A
// malformed payload is rejected and logged; the previous map, if any, stays in
// place.
func (s *Store) SetFromWire(id uuid.UUID, payload []byte) error {
	m, err := Decode(payload)
	if err != nil {
		log.Warn().Str("node", id.String()).Err(err).Msg("rejected malformed jurisdiction broadcast")
		return err
	}
	s.Set(id, m)
	log.Debug().Str("node", id.String()).Str("map", m.String()).Msg("jurisdiction updated")
	return nil
}

// Remove forgets the jurisdiction of server id, typically on node departure.
func (s *Store) Remove(id uuid.UUID) {
	s.mu.Lock()
	delete(s.maps, id)
	s.mu.Unlock()
}

// Get returns the current map for server id, or nil when none is known.
func (s *Store) Get(id uuid.UUID) *Map {
	s.mu.RLock()
	m := s.maps[id]
	s.mu.RUnlock()
	return m
}

// Len returns the number of servers with a known jurisdiction.
func (s *Store) Len() int {
	s.mu.RLock()
	n := len(s.maps)
	s.mu.RUnlock()
	return n
}
