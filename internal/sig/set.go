package sig

// Set maps symbol keys to symbols for one file revision. Iteration order is
// insertion order so diffs over the same inputs stay deterministic.
// Re-declaring a key overwrites the symbol in place (last write wins).
type Set struct {
	order []string
	items map[string]*Symbol
}

func NewSet() *Set {
	return &Set{items: make(map[string]*Symbol)}
}

func (s *Set) Put(sym *Symbol) {
	if sym == nil || sym.Key == "" {
		return
	}
	if _, exists := s.items[sym.Key]; !exists {
		s.order = append(s.order, sym.Key)
	}
	s.items[sym.Key] = sym
}

func (s *Set) Get(key string) (*Symbol, bool) {
	sym, ok := s.items[key]
	return sym, ok
}

func (s *Set) Keys() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Set) Len() int {
	return len(s.items)
}
