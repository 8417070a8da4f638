// Package region describes where the debuggee's modules are mapped and how to
// find them. The debugger engine owns the real memory map; this package only
// defines the query contract the session layer consumes, plus a small
// in-memory Table used by tools and tests.
package region

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNotFound is returned when no loaded module matches a query.
var ErrNotFound = errors.New("region: module not found")

// Region is one loaded module image.
type Region struct {
	// Name identifies the module (usually the file path of the image).
	Name string
	// Start is the address the module is currently loaded at.
	Start uint64
	// End is one past the last mapped byte.
	End uint64
	// Base is the module's on-disk reference base (its preferred image base).
	Base uint64
}

// Size returns the number of mapped bytes.
func (r Region) Size() uint64 {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

// Contains reports whether addr falls inside the region.
func (r Region) Contains(addr uint64) bool {
	return addr >= r.Start && addr < r.End
}

// Relative converts an absolute address inside the region to a
// module-relative offset that survives the module loading elsewhere.
func (r Region) Relative(addr uint64) uint64 {
	return addr - r.Start + r.Base
}

func (r Region) String() string {
	return fmt.Sprintf("%s [%s-%s) base=%s", r.Name, FormatAddress(r.Start), FormatAddress(r.End), FormatAddress(r.Base))
}

// Resolver answers where a module currently lives. Implementations must be
// side-effect free from the caller's point of view.
type Resolver interface {
	FindByName(name string) (Region, bool)
	FindByAddress(addr uint64) (Region, bool)
}

// Table is an in-memory Resolver keyed by module name.
// It is not safe for concurrent mutation.
type Table struct {
	regions map[string]Region
}

// NewTable creates a table holding the given regions.
func NewTable(regions ...Region) *Table {
	t := &Table{regions: make(map[string]Region, len(regions))}
	for _, r := range regions {
		t.Load(r)
	}
	return t
}

// Load records a module as loaded, replacing any previous mapping with the
// same name.
func (t *Table) Load(r Region) {
	t.regions[r.Name] = r
}

// Unload forgets a module. It returns ErrNotFound if the module was not loaded.
func (t *Table) Unload(name string) error {
	if _, ok := t.regions[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	delete(t.regions, name)
	return nil
}

// FindByName returns the region loaded under name.
func (t *Table) FindByName(name string) (Region, bool) {
	r, ok := t.regions[name]
	return r, ok
}

// FindByAddress returns the region containing addr.
func (t *Table) FindByAddress(addr uint64) (Region, bool) {
	for _, r := range t.regions {
		if r.Contains(addr) {
			return r, true
		}
	}
	return Region{}, false
}

// Regions returns all loaded regions ordered by start address.
func (t *Table) Regions() []Region {
	out := make([]Region, 0, len(t.regions))
	for _, r := range t.regions {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Start < out[j].Start
	})
	return out
}

// Len returns the number of loaded modules.
func (t *Table) Len() int {
	return len(t.regions)
}
