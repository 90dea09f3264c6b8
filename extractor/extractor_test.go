package extractor

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	hplist "howett.net/plist"

	"github.com/forensickit/loginitems/observability"
	"github.com/forensickit/loginitems/plist"
)

// testLogger records warnings so anomaly handling can be asserted.
type testLogger struct {
	warnings []string
	fields   [][]observability.Field
}

func (l *testLogger) Debug(string, ...observability.Field) {}
func (l *testLogger) Info(string, ...observability.Field)  {}
func (l *testLogger) Error(string, ...observability.Field) {}
func (l *testLogger) Warn(msg string, fields ...observability.Field) {
	l.warnings = append(l.warnings, msg)
	l.fields = append(l.fields, fields)
}
func (l *testLogger) With(...observability.Field) observability.Logger { return l }

func containerWithObjects(t *testing.T, values ...plist.Value) *plist.Dictionary {
	t.Helper()
	d := plist.NewDictionary()
	d.Set("$archiver", plist.Str("NSKeyedArchiver"))
	d.Set("$version", plist.Uint(100000))
	d.Set(ObjectsKey, plist.NewArray(values...))
	return d
}

func blob(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i % 251)
	}
	return b
}

func TestExtractBookmarksMissingObjects(t *testing.T) {
	d := plist.NewDictionary()
	d.Set("$archiver", plist.Str("NSKeyedArchiver"))

	got, err := New().ExtractBookmarks(d)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("unexpected bookmarks: %+v", got)
	}
}

func TestExtractBookmarksNilContainer(t *testing.T) {
	got, err := New().ExtractBookmarks(nil)
	if err != nil || got != nil {
		t.Fatalf("nil container = %+v, %v", got, err)
	}
}

func TestExtractBookmarksWrongObjectsType(t *testing.T) {
	cases := []struct {
		name   string
		value  plist.Value
		actual string
	}{
		{"string", plist.Str("not a table"), "string"},
		{"dictionary", plist.NewDictionary(), "dictionary"},
		{"data", plist.NewData([]byte{1}), "data"},
		{"nil value", nil, "nil"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := plist.NewDictionary()
			d.Set(ObjectsKey, tc.value)

			_, err := New().ExtractBookmarks(d)
			var typeErr *UnexpectedTypeError
			if !errors.As(err, &typeErr) {
				t.Fatalf("error = %v, want UnexpectedTypeError", err)
			}
			if typeErr.Expected != "array" || typeErr.Actual != tc.actual {
				t.Fatalf("unexpected error detail: %+v", typeErr)
			}
		})
	}
}

func TestUnexpectedTypeErrorMessage(t *testing.T) {
	err := &UnexpectedTypeError{Expected: "array", Actual: "string"}
	if got := err.Error(); got != "incorrect plist type: expected array, got string" {
		t.Fatalf("message = %q", got)
	}
}

func TestExtractBookmarksTopLevelUnfiltered(t *testing.T) {
	small := []byte{0x01, 0x02, 0x03}
	d := containerWithObjects(t, plist.NewData(small))

	got, err := New().ExtractBookmarks(d)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(got) != 1 || !bytes.Equal(got[0], small) {
		t.Fatalf("unexpected bookmarks: %+v", got)
	}
}

func TestExtractBookmarksNestedSizeBoundary(t *testing.T) {
	cases := []struct {
		name string
		size int
		want int
	}{
		{"below", MinBookmarkSize - 1, 0},
		{"exact", MinBookmarkSize, 1},
		{"above", MinBookmarkSize + 1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inner := plist.NewDictionary()
			inner.Set("NS.data", plist.NewData(blob(tc.size)))
			d := containerWithObjects(t, inner)

			got, err := New().ExtractBookmarks(d)
			if err != nil {
				t.Fatalf("extract: %v", err)
			}
			if len(got) != tc.want {
				t.Fatalf("size %d gave %d bookmarks, want %d", tc.size, len(got), tc.want)
			}
		})
	}
}

func TestExtractBookmarksOrder(t *testing.T) {
	first := []byte("first")
	second := blob(MinBookmarkSize)
	third := []byte("third")

	inner := plist.NewDictionary()
	inner.Set("NS.data", plist.NewData(second))
	d := containerWithObjects(t,
		plist.NewData(first),
		plist.Str("Safari"),
		inner,
		plist.NewData(third),
	)

	got, err := New().ExtractBookmarks(d)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d bookmarks, want 3", len(got))
	}
	if !bytes.Equal(got[0], first) || !bytes.Equal(got[1], second) || !bytes.Equal(got[2], third) {
		t.Fatalf("order not preserved: %q", got)
	}
}

func TestExtractBookmarksSkipsOtherVariants(t *testing.T) {
	inner := plist.NewDictionary()
	inner.Set("name", plist.Str("Dock"))
	inner.Set("index", plist.Uint(3))
	d := containerWithObjects(t,
		plist.Str("$null"),
		plist.UID{Val: 2},
		plist.Uint(7),
		plist.Bool(true),
		plist.NewArray(plist.NewData(blob(MinBookmarkSize))),
		inner,
	)

	got, err := New().ExtractBookmarks(d)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("unexpected bookmarks: %+v", got)
	}
}

func TestExtractBookmarksMissingPayloadWarns(t *testing.T) {
	log := &testLogger{}
	inner := plist.NewDictionary()
	inner.Set("NS.data", plist.Data{})
	tail := []byte("tail")
	d := containerWithObjects(t, plist.Data{}, inner, plist.NewData(tail))

	got, err := New(WithLogger(log)).ExtractBookmarks(d)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(got) != 1 || !bytes.Equal(got[0], tail) {
		t.Fatalf("unexpected bookmarks: %+v", got)
	}
	if len(log.warnings) != 2 {
		t.Fatalf("warnings = %v, want 2", log.warnings)
	}
	if log.warnings[0] != "data element without payload" ||
		log.warnings[1] != "data entry without payload in dictionary" {
		t.Fatalf("unexpected warning messages: %v", log.warnings)
	}
}

func TestExtractBookmarksCopiesPayloads(t *testing.T) {
	original := blob(MinBookmarkSize)
	inner := plist.NewDictionary()
	inner.Set("NS.data", plist.NewData(original))
	d := containerWithObjects(t, inner)

	got, err := New().ExtractBookmarks(d)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	got[0][0] ^= 0xff

	stored, _ := inner.Get("NS.data")
	if !bytes.Equal(stored.(plist.Data).Bytes, blob(MinBookmarkSize)) {
		t.Fatalf("input tree was mutated")
	}
}

func writeArchive(t *testing.T, objects []any) string {
	t.Helper()
	doc := map[string]any{
		"$archiver": "NSKeyedArchiver",
		"$version":  100000,
		"$top":      map[string]any{"root": hplist.UID(1)},
		"$objects":  objects,
	}
	data, err := hplist.Marshal(doc, hplist.BinaryFormat)
	if err != nil {
		t.Fatalf("marshal archive: %v", err)
	}
	path := filepath.Join(t.TempDir(), "backgrounditems.btm")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	return path
}

func TestExtractBookmarksFile(t *testing.T) {
	bookmark := blob(MinBookmarkSize + 196)
	path := writeArchive(t, []any{
		"$null",
		map[string]any{"NS.data": bookmark},
		"Safari",
		hplist.UID(2),
	})

	got, err := New().ExtractBookmarksFile(path)
	if err != nil {
		t.Fatalf("extract file: %v", err)
	}
	if len(got) != 1 || !bytes.Equal(got[0], bookmark) {
		t.Fatalf("got %d bookmarks, want the fixture payload", len(got))
	}
}

func TestExtractBookmarksFileMissing(t *testing.T) {
	_, err := New().ExtractBookmarksFile(filepath.Join(t.TempDir(), "absent.btm"))
	if err == nil {
		t.Fatal("missing file did not error")
	}
}
