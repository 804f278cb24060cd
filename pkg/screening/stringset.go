package screening

import "github.com/emirpasic/gods/sets/hashset"

// StringSet is an insertion-unordered deduplicated set of strings, used for
// PreparedFields.NormalizedAltNames (spec §3: "a set of strings"). It wraps
// gods/sets/hashset rather than a bare map. The hashset is map-backed, so
// the order of Values() is not defined.
type StringSet struct {
	inner *hashset.Set
}

// NewStringSet builds a StringSet from zero or more initial members.
func NewStringSet(items ...string) *StringSet {
	s := &StringSet{inner: hashset.New()}
	for _, it := range items {
		s.Add(it)
	}
	return s
}

// Add inserts v into the set. Adding an existing member is a no-op.
func (s *StringSet) Add(v string) {
	if s == nil {
		return
	}
	s.inner.Add(v)
}

// Contains reports whether v is a member of the set.
func (s *StringSet) Contains(v string) bool {
	if s == nil {
		return false
	}
	return s.inner.Contains(v)
}

// Len returns the number of members.
func (s *StringSet) Len() int {
	if s == nil {
		return 0
	}
	return s.inner.Size()
}

// Values returns the members as a []string. Order is not defined and may
// differ between calls, even on the same set.
func (s *StringSet) Values() []string {
	if s == nil {
		return nil
	}
	raw := s.inner.Values()
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		out = append(out, v.(string))
	}
	return out
}

// Clone returns an independent copy of the set.
func (s *StringSet) Clone() *StringSet {
	if s == nil {
		return nil
	}
	c := NewStringSet()
	for _, v := range s.Values() {
		c.Add(v)
	}
	return c
}
