package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/entrhq/dbgsession/pkg/annotation"
)

const (
	// FormatID is the sentinel every session file carries in its "id" key.
	FormatID = "edb-session"

	// Version is the newest document version this package reads and the one
	// it writes.
	Version = 1

	// TimestampLayout is the UTC timestamp format written to "timestamp".
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Document is the on-disk representation of one debugging session.
type Document struct {
	ID         string                       `json:"id"`
	Version    int                          `json:"version"`
	Timestamp  string                       `json:"timestamp"`
	PluginData map[string]any               `json:"plugin-data"`
	Objects    map[string]annotation.Record `json:"objects"`
}

func newDocument(now time.Time) *Document {
	return &Document{
		ID:         FormatID,
		Version:    Version,
		Timestamp:  now.UTC().Format(TimestampLayout),
		PluginData: make(map[string]any),
		Objects:    make(map[string]annotation.Record),
	}
}

// Time parses the document timestamp.
func (d *Document) Time() (time.Time, error) {
	return time.Parse(TimestampLayout, d.Timestamp)
}

// ReadDocument reads and validates a session file without touching any store.
// A missing file yields ErrNoSessionFile; every other failure is an *Error.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoSessionFile, path)
		}
		return nil, newError(InvalidSessionFile, err, "failed to open session file")
	}
	return ParseDocument(data)
}

// ParseDocument decodes and validates session file contents. Numbers inside
// plugin data are kept as json.Number so they round-trip unchanged.
func ParseDocument(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, newError(UnknownError, err, "an error occurred while loading session JSON file")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, newError(UnknownError, err, "unexpected data after session JSON document")
	}

	obj, ok := root.(map[string]any)
	if !ok {
		return nil, newError(NotAnObject, nil, "session file is invalid, not an object")
	}

	version, supported := versionField(obj["version"])
	doc := &Document{
		ID:         stringField(obj["id"]),
		Version:    version,
		Timestamp:  stringField(obj["timestamp"]),
		PluginData: mapField(obj["plugin-data"]),
		Objects:    make(map[string]annotation.Record),
	}

	if doc.ID != FormatID || !supported {
		return nil, newError(InvalidSessionFile, nil, "session file is invalid (id %q, version %v)", doc.ID, obj["version"])
	}

	for key, value := range mapField(obj["objects"]) {
		// non-object entries are kept as nil records so the loader can report them
		rec, _ := value.(map[string]any)
		doc.Objects[key] = annotation.Record(rec)
	}

	return doc, nil
}

// Encode renders the document as indented JSON.
func (d *Document) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("session: failed to encode document: %w", err)
	}
	return append(data, '\n'), nil
}

func stringField(v any) string {
	s, _ := v.(string)
	return s
}

// versionField reads "version" and reports whether this package can load it.
// A missing or non-numeric version counts as 0. The comparison is done on the
// float value so fractional and out-of-range numbers above Version are
// rejected rather than truncated.
func versionField(v any) (int, bool) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, true
	}

	// range errors still yield ±Inf or 0, which compare correctly
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}

	version := int(math.Max(math.Min(f, math.MaxInt32), math.MinInt32))
	return version, f <= Version
}

func mapField(v any) map[string]any {
	m, ok := v.(map[string]any)
	if !ok {
		return make(map[string]any)
	}
	return m
}
