// Package extractor isolates candidate bookmark records inside decoded
// login-items property lists.
package extractor

import (
	"fmt"

	"github.com/forensickit/loginitems/observability"
	"github.com/forensickit/loginitems/plist"
)

// ObjectsKey is the keyed-archiver object-table key that holds bookmark
// candidates in background-items containers.
const ObjectsKey = "$objects"

// MinBookmarkSize is the smallest payload accepted from a nested
// dictionary entry. Bookmark records open with a fixed 48-byte header,
// so anything shorter cannot be one. Data sitting directly in the object
// table is taken regardless of size.
const MinBookmarkSize = 48

// UnexpectedTypeError reports an object table stored under the wrong
// variant.
type UnexpectedTypeError struct {
	Expected string
	Actual   string
}

func (e *UnexpectedTypeError) Error() string {
	return fmt.Sprintf("incorrect plist type: expected %s, got %s", e.Expected, e.Actual)
}

// Extractor walks login-items dictionaries and collects bookmark
// payloads.
type Extractor struct {
	log observability.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger routes anomaly diagnostics to log instead of discarding
// them.
func WithLogger(log observability.Logger) Option {
	return func(e *Extractor) {
		if log != nil {
			e.log = log
		}
	}
}

// New returns an extractor. Without options it stays silent.
func New(opts ...Option) *Extractor {
	e := &Extractor{log: observability.NopLogger{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractBookmarks collects candidate bookmark payloads from items in
// first-encountered order. Data elements of the object table are taken
// unconditionally; data nested one level down in a dictionary must reach
// MinBookmarkSize. A container without an object table yields an empty
// result. The input tree is never modified and the returned payloads are
// copies.
func (e *Extractor) ExtractBookmarks(items *plist.Dictionary) ([][]byte, error) {
	if items == nil {
		return nil, nil
	}
	objects, ok := items.Get(ObjectsKey)
	if !ok {
		return nil, nil
	}
	table, ok := objects.(*plist.Array)
	if !ok {
		return nil, &UnexpectedTypeError{Expected: "array", Actual: variantName(objects)}
	}

	var bookmarks [][]byte
	for i, item := range table.Items {
		switch v := item.(type) {
		case plist.Data:
			payload, ok := copyPayload(v)
			if !ok {
				e.log.Warn("data element without payload", observability.Int("index", i))
				continue
			}
			bookmarks = append(bookmarks, payload)
		case *plist.Dictionary:
			for _, entry := range v.Entries() {
				data, ok := entry.Value.(plist.Data)
				if !ok {
					continue
				}
				payload, ok := copyPayload(data)
				if !ok {
					e.log.Warn("data entry without payload in dictionary",
						observability.Int("index", i),
						observability.String("key", entry.Key))
					continue
				}
				if len(payload) < MinBookmarkSize {
					continue
				}
				bookmarks = append(bookmarks, payload)
			}
		default:
			// Strings, UIDs and other archiver bookkeeping are skipped.
		}
	}
	return bookmarks, nil
}

// ExtractBookmarksFile loads the container at path and extracts its
// bookmarks.
func (e *Extractor) ExtractBookmarksFile(path string) ([][]byte, error) {
	items, err := plist.LoadDictionary(path)
	if err != nil {
		return nil, fmt.Errorf("load login items: %w", err)
	}
	return e.ExtractBookmarks(items)
}

// variantName names a value's kind for diagnostics. Only hand-built
// trees can hold a nil value; decoded trees never produce one.
func variantName(v plist.Value) string {
	if v == nil {
		return "nil"
	}
	return v.Kind().String()
}

// copyPayload detaches a data payload from the tree. A nil payload
// reports false; decoded trees never produce one.
func copyPayload(d plist.Data) ([]byte, bool) {
	if d.Bytes == nil {
		return nil, false
	}
	out := make([]byte, len(d.Bytes))
	copy(out, d.Bytes)
	return out, true
}
