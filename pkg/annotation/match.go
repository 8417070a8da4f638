package annotation

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Matcher selects annotations by kind and owning module.
type Matcher struct {
	kinds    map[Kind]bool
	included []glob.Glob
	excluded []glob.Glob
}

// NewMatcher compiles module include/exclude glob patterns. An empty include
// list matches every module; exclusions take precedence.
func NewMatcher(include, exclude []string) (*Matcher, error) {
	m := &Matcher{}

	for _, pattern := range include {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid module pattern '%s': %w", pattern, err)
		}
		m.included = append(m.included, g)
	}

	for _, pattern := range exclude {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid excluded module pattern '%s': %w", pattern, err)
		}
		m.excluded = append(m.excluded, g)
	}

	return m, nil
}

// WithKinds restricts the matcher to the given kinds. No kinds means all.
func (m *Matcher) WithKinds(kinds ...Kind) *Matcher {
	if len(kinds) == 0 {
		m.kinds = nil
		return m
	}
	m.kinds = make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		m.kinds[k] = true
	}
	return m
}

// MatchModule reports whether a module name passes the patterns.
func (m *Matcher) MatchModule(module string) bool {
	for _, g := range m.excluded {
		if g.Match(module) {
			return false
		}
	}

	if len(m.included) == 0 {
		return true
	}

	for _, g := range m.included {
		if g.Match(module) {
			return true
		}
	}
	return false
}

// Match reports whether a passes the kind and module filters.
func (m *Matcher) Match(a *Annotation) bool {
	if m.kinds != nil && !m.kinds[a.Kind()] {
		return false
	}
	return m.MatchModule(a.Module())
}

// Filter returns the annotations accepted by m, preserving order.
func (m *Matcher) Filter(items []*Annotation) []*Annotation {
	var out []*Annotation
	for _, a := range items {
		if m.Match(a) {
			out = append(out, a)
		}
	}
	return out
}
