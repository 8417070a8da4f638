package session

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/entrhq/dbgsession/pkg/annotation"
	"github.com/entrhq/dbgsession/pkg/logging"
	"github.com/entrhq/dbgsession/pkg/plugin"
	"github.com/entrhq/dbgsession/pkg/region"
)

// Logger is the logging surface the store needs. *logging.Logger satisfies it.
type Logger interface {
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPlugins sets the live plugins whose state is saved and restored.
func WithPlugins(r *plugin.Registry) Option {
	return func(s *Store) {
		if r != nil {
			s.plugins = r
		}
	}
}

// WithClock overrides the time source used for document timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store holds the annotations of one debugging session and moves them to and
// from a session file. Create one per debugging session with New and Close it
// when the session ends.
//
// A Store is not safe for concurrent use; it is driven from the debugger's
// control loop.
type Store struct {
	resolver region.Resolver
	plugins  *plugin.Registry
	logger   Logger
	now      func() time.Time

	objects []*annotation.Annotation

	// plugin-data entries no live plugin took: data for plugins not registered
	// in this run, or values a registered plugin cannot receive. They are
	// written back unchanged by the next successful save.
	passThrough map[string]any
}

// New creates a store that rebases annotations with resolver.
func New(resolver region.Resolver, opts ...Option) *Store {
	if resolver == nil {
		resolver = region.NewTable()
	}
	s := &Store{
		resolver:    resolver,
		plugins:     plugin.NewRegistry(),
		logger:      logging.Discard(),
		now:         time.Now,
		passThrough: make(map[string]any),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads a session file. A missing file is the normal state before the
// first save and is not an error. On failure nothing is changed.
//
// Plugin data is handed to matching plugins first. Annotations are then
// appended as pending; they are rebased lazily by Comments and Labels.
func (s *Store) Load(path string) error {
	doc, err := ReadDocument(path)
	if err != nil {
		if errors.Is(err, ErrNoSessionFile) {
			s.logger.Debugf("no session file at %s", path)
			return nil
		}
		s.logger.Errorf("failed to load session file %s: %v", path, err)
		return err
	}

	s.logger.Infof("loading session file %s (version %d, saved %s)", path, doc.Version, doc.Timestamp)
	s.restorePluginData(doc.PluginData)

	keys := make([]string, 0, len(doc.Objects))
	for key := range doc.Objects {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	loaded := 0
	for _, key := range keys {
		if a := s.decodeObject(key, doc.Objects[key]); a != nil {
			s.Add(a)
			loaded++
		}
	}
	s.logger.Debugf("loaded %d of %d session objects", loaded, len(keys))
	return nil
}

func (s *Store) restorePluginData(data map[string]any) {
	s.logger.Debugf("loading plugin-data")

	for id, value := range data {
		p, ok := s.plugins.Lookup(id)
		if !ok {
			s.passThrough[id] = value
			continue
		}
		state, ok := value.(map[string]any)
		if !ok {
			s.logger.Warnf("plugin-data for %s is not an object, keeping it unchanged", id)
			s.passThrough[id] = value
			continue
		}
		p.RestoreState(plugin.State(state))
	}
}

// decodeObject builds a pending annotation from one "objects" entry, or
// returns nil if the entry cannot be used.
func (s *Store) decodeObject(key string, rec annotation.Record) *annotation.Annotation {
	if rec == nil {
		s.logger.Warnf("session object %s is not an object, skipping", key)
		return nil
	}

	offset, err := region.ParseAddress(key)
	if err != nil {
		s.logger.Warnf("session object key %q is not an address, skipping", key)
		return nil
	}

	tag, _ := rec[annotation.KeyType].(string)
	kind, ok := annotation.ParseKind(tag)
	if !ok {
		s.logger.Warnf("unknown session object type %q at %s", tag, key)
		return nil
	}

	text, _ := rec[kind.Key()].(string)
	module, _ := rec[annotation.KeyModule].(string)
	return annotation.NewPending(kind, offset, module, text)
}

// Save writes the session to path and then clears the annotation collection;
// a reload is needed to see them again. The collection is cleared even if
// the write fails, in which case the error is logged and returned.
//
// Objects are keyed by module-relative offset alone, so a comment and a label
// at the same address cannot both be stored: the one added last replaces the
// other and a warning is logged.
//
// Plugin data carried over from Load is written once; after a successful
// save it is dropped so it cannot leak into a different session file.
func (s *Store) Save(path string) error {
	s.logger.Debugf("saving session file %s", path)

	doc := newDocument(s.now())
	s.collectPluginData(doc)
	s.collectObjects(doc)

	data, err := doc.Encode()
	if err == nil {
		err = writeFileAtomic(path, data)
	}

	s.objects = nil

	if err != nil {
		s.logger.Errorf("failed to save session file %s: %v", path, err)
		return fmt.Errorf("session: save %s: %w", path, err)
	}
	s.passThrough = make(map[string]any)
	s.logger.Infof("saved %d session objects to %s", len(doc.Objects), path)
	return nil
}

func (s *Store) collectPluginData(doc *Document) {
	for id, value := range s.passThrough {
		doc.PluginData[id] = value
	}

	for _, p := range s.plugins.Plugins() {
		// empty state is not persisted; a value kept from Load stays
		state := p.SaveState()
		if len(state) == 0 {
			continue
		}
		doc.PluginData[p.Identifier()] = state
	}
}

func (s *Store) collectObjects(doc *Document) {
	for _, a := range s.objects {
		offset, module, ok := s.relativeAddress(a)
		if !ok {
			s.logger.Warnf("dropping %s %q at %s: no loaded module contains it",
				a.Kind(), a.Text(), region.FormatAddress(a.Address()))
			continue
		}

		rec := a.Persist()
		rec[annotation.KeyType] = a.Kind().Key()
		rec[annotation.KeyModule] = module

		key := region.FormatAddress(offset)
		if _, exists := doc.Objects[key]; exists {
			s.logger.Warnf("session object at %s replaced by %s %q", key, a.Kind(), a.Text())
		}
		doc.Objects[key] = rec
	}
}

// relativeAddress returns the module-relative offset an annotation is saved
// under. Pending annotations already hold one and are written back as is.
func (s *Store) relativeAddress(a *annotation.Annotation) (uint64, string, bool) {
	if !a.Restored() {
		return a.Address(), a.Module(), true
	}

	if r, ok := s.resolver.FindByAddress(a.Address()); ok {
		return r.Relative(a.Address()), r.Name, true
	}

	if a.Module() != "" {
		if r, ok := s.resolver.FindByName(a.Module()); ok {
			return r.Relative(a.Address()), r.Name, true
		}
	}
	return 0, "", false
}

// Comments returns the restore view of every comment, rebasing each one
// first.
func (s *Store) Comments() []annotation.Record {
	return s.views(annotation.KindComment)
}

// Labels returns the restore view of every label, rebasing each one first.
func (s *Store) Labels() []annotation.Record {
	return s.views(annotation.KindLabel)
}

func (s *Store) views(kind annotation.Kind) []annotation.Record {
	out := make([]annotation.Record, 0, len(s.objects))
	for _, a := range s.objects {
		if a.Kind() != kind {
			continue
		}
		if !a.Rebase(s.resolver) {
			s.logger.Debugf("module %q not loaded, %s at offset %s stays pending",
				a.Module(), kind, region.FormatAddress(a.Address()))
		}
		out = append(out, a.RestoreView())
	}
	return out
}

// Add puts an annotation in the collection and returns it. Nil is ignored.
func (s *Store) Add(a *annotation.Annotation) *annotation.Annotation {
	if a == nil {
		return nil
	}
	s.objects = append(s.objects, a)
	return a
}

// Remove takes an annotation out of the collection. It reports whether a
// was present.
func (s *Store) Remove(a *annotation.Annotation) bool {
	for i, obj := range s.objects {
		if obj == a {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			return true
		}
	}
	return false
}

// Annotations returns a snapshot of the collection in insertion order.
func (s *Store) Annotations() []*annotation.Annotation {
	out := make([]*annotation.Annotation, len(s.objects))
	copy(out, s.objects)
	return out
}

// Len returns the number of annotations held.
func (s *Store) Len() int {
	return len(s.objects)
}

// Close drops everything the store holds. The store must not be used after.
func (s *Store) Close() {
	s.objects = nil
	s.passThrough = make(map[string]any)
}
