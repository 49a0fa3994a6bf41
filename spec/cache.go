package spec

// CombineCache memoizes composition results.
//
// The cache is injected into a Combiner explicitly (WithCache); there is no
// hidden package-level cache. Keys are derived from the operation and the
// operands' expression fingerprints, so structurally equal inputs hit the
// same entry regardless of parameter identity. Cached specifications are
// immutable and safe to return to multiple callers.
type CombineCache interface {
	Get(key string) (*Specification, bool)
	Put(key string, s *Specification)
}

// MemoCache is a map-backed CombineCache.
//
// Not goroutine-safe: it is meant for single-threaded catalog loading.
// Callers sharing a cache across goroutines wrap it in their own lock or
// supply a different CombineCache implementation.
type MemoCache struct {
	entries map[string]*Specification
}

// NewMemoCache creates an empty MemoCache.
func NewMemoCache() *MemoCache {
	return &MemoCache{entries: make(map[string]*Specification)}
}

// Get implements CombineCache.
func (m *MemoCache) Get(key string) (*Specification, bool) {
	s, ok := m.entries[key]
	return s, ok
}

// Put implements CombineCache.
func (m *MemoCache) Put(key string, s *Specification) {
	m.entries[key] = s
}

// Len returns the number of memoized combinations.
func (m *MemoCache) Len() int {
	return len(m.entries)
}
