package strips

import (
	"maps"
	"slices"
	"strings"
)

// Binding maps parameter names to object names.
type Binding map[string]string

// Merge returns a new binding holding b's entries overlaid with other's.
func (b Binding) Merge(other Binding) Binding {
	out := make(Binding, len(b)+len(other))
	maps.Copy(out, b)
	maps.Copy(out, other)
	return out
}

// ConsistentWith reports whether every key shared by b and other maps to the
// same value in both.
func (b Binding) ConsistentWith(other Binding) bool {
	for k, v := range other {
		if w, ok := b[k]; ok && w != v {
			return false
		}
	}
	return true
}

// String renders b as "{?x=a ?y=b}" with keys sorted.
func (b Binding) String() string {
	keys := slices.Sorted(maps.Keys(b))
	var s strings.Builder
	s.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			s.WriteByte(' ')
		}
		s.WriteString(k)
		s.WriteByte('=')
		s.WriteString(b[k])
	}
	s.WriteByte('}')
	return s.String()
}
