package game

// StateKey addresses one value in the StateStore. Two effects observe each
// other's writes exactly when they share source incarnation and tag.
type StateKey struct {
	Source ObjectRef
	Tag    string
}

// StateStore is the per-match key/value state effects use to hand values to
// each other across time. Set overwrites; there is no implicit expiry, the
// match drops a source's entries once its abilities have expired.
type StateStore interface {
	Set(key StateKey, value string)
	Get(key StateKey) (string, bool)
	Delete(key StateKey)
	// DropSource removes every entry whose key belongs to src.
	DropSource(src ObjectRef)
}

// StateReader is the read-only half of StateStore, handed to predicates.
type StateReader interface {
	Get(key StateKey) (string, bool)
}

// MemoryStore is the default in-process StateStore.
type MemoryStore struct {
	values map[StateKey]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[StateKey]string)}
}

func (s *MemoryStore) Set(key StateKey, value string) {
	s.values[key] = value
}

func (s *MemoryStore) Get(key StateKey) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Delete(key StateKey) {
	delete(s.values, key)
}

func (s *MemoryStore) DropSource(src ObjectRef) {
	for k := range s.values {
		if k.Source == src {
			delete(s.values, k)
		}
	}
}

// Len returns the number of live entries.
func (s *MemoryStore) Len() int {
	return len(s.values)
}
