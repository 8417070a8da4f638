package annotation

import (
	"github.com/entrhq/dbgsession/pkg/region"
)

// Record is a loosely typed key/value payload as it appears in a session file.
type Record map[string]any

const (
	// KeyType holds the kind tag inside a persisted record.
	KeyType = "type"
	// KeyModule holds the owning module inside a persisted record.
	KeyModule = "module"
	// KeyAddress holds the rendered address inside a restore view.
	KeyAddress = "address"
)

// Locator is the part of region.Resolver needed to rebase an annotation.
type Locator interface {
	FindByName(name string) (region.Region, bool)
}

// Annotation is a comment or label attached to an address.
//
// While pending, Address is a module-relative offset. Once restored it is an
// absolute address in the current process. Restored never goes back to false.
type Annotation struct {
	kind     Kind
	address  uint64
	module   string
	restored bool
	text     string
}

// NewComment creates a comment at a live absolute address.
func NewComment(addr uint64, text string) *Annotation {
	return New(KindComment, addr, text)
}

// NewLabel creates a label at a live absolute address.
func NewLabel(addr uint64, text string) *Annotation {
	return New(KindLabel, addr, text)
}

// New creates an annotation of the given kind at a live absolute address.
// It starts out restored since there is nothing to rebase.
func New(kind Kind, addr uint64, text string) *Annotation {
	return &Annotation{kind: kind, address: addr, text: text, restored: true}
}

// NewPending creates an annotation read back from a session file. offset is
// relative to module and is fixed up by Rebase once the module is loaded.
func NewPending(kind Kind, offset uint64, module, text string) *Annotation {
	return &Annotation{kind: kind, address: offset, module: module, text: text}
}

// Kind returns the annotation kind.
func (a *Annotation) Kind() Kind { return a.kind }

// Address returns the current address; see Restored for its meaning.
func (a *Annotation) Address() uint64 { return a.address }

// Module returns the owning module name recorded in the session file.
func (a *Annotation) Module() string { return a.module }

// SetModule sets the owning module name.
func (a *Annotation) SetModule(module string) { a.module = module }

// Restored reports whether Address is absolute.
func (a *Annotation) Restored() bool { return a.restored }

// Text returns the comment body or label name.
func (a *Annotation) Text() string { return a.text }

// SetText replaces the comment body or label name.
func (a *Annotation) SetText(text string) { a.text = text }

// Persist returns the kind-specific payload. The session store adds the type,
// module and address-derived key itself.
func (a *Annotation) Persist() Record {
	return Record{a.kind.Key(): a.text}
}

// RestoreView returns the payload handed to readers, including the current
// address as fixed-width hex.
func (a *Annotation) RestoreView() Record {
	return Record{
		a.kind.Key(): a.text,
		KeyAddress:   region.FormatAddress(a.address),
	}
}

// Rebase anchors a pending annotation to its module's current load base.
// It returns true once the annotation is restored. If the module is not
// loaded the annotation stays pending and a later call may succeed.
func (a *Annotation) Rebase(loc Locator) bool {
	if a.restored {
		return true
	}
	r, ok := loc.FindByName(a.module)
	if !ok {
		return false
	}
	a.address += r.Start
	a.restored = true
	return true
}
