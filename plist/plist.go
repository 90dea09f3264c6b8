// Package plist models decoded property lists as a closed value tree.
//
// Every node implements Value and is one of the variants defined here, so
// traversals can type-switch over the full set and treat anything else as
// a deliberate skip. Dictionaries keep their entries in insertion order,
// which keeps walks and JSON dumps deterministic.
package plist

import "time"

// Kind identifies the concrete variant behind a Value.
type Kind uint8

const (
	KindDictionary Kind = iota
	KindArray
	KindData
	KindString
	KindInteger
	KindReal
	KindBoolean
	KindDate
	KindUID
)

func (k Kind) String() string {
	switch k {
	case KindDictionary:
		return "dictionary"
	case KindArray:
		return "array"
	case KindData:
		return "data"
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindBoolean:
		return "boolean"
	case KindDate:
		return "date"
	case KindUID:
		return "uid"
	default:
		return "unknown"
	}
}

// Value is the interface satisfied by every property-list node.
type Value interface {
	Kind() Kind
}

// Entry is one key/value pair of a Dictionary.
type Entry struct {
	Key   string
	Value Value
}

// Dictionary is a string-keyed mapping that remembers the order its
// entries were set.
type Dictionary struct {
	entries []Entry
	index   map[string]int
}

func NewDictionary() *Dictionary {
	return &Dictionary{index: make(map[string]int)}
}

func (d *Dictionary) Kind() Kind { return KindDictionary }

// Get returns the value stored under key.
func (d *Dictionary) Get(key string) (Value, bool) {
	i, ok := d.index[key]
	if !ok {
		return nil, false
	}
	return d.entries[i].Value, true
}

// Set stores value under key. An existing entry is replaced in place so
// its position is retained.
func (d *Dictionary) Set(key string, value Value) {
	if d.index == nil {
		d.index = make(map[string]int)
	}
	if i, ok := d.index[key]; ok {
		d.entries[i].Value = value
		return
	}
	d.index[key] = len(d.entries)
	d.entries = append(d.entries, Entry{Key: key, Value: value})
}

// Keys returns the keys in entry order.
func (d *Dictionary) Keys() []string {
	keys := make([]string, len(d.entries))
	for i, e := range d.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns the entries in order. The slice is a copy; the values
// are shared.
func (d *Dictionary) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

func (d *Dictionary) Len() int { return len(d.entries) }

// Array is an ordered sequence of values.
type Array struct{ Items []Value }

func (a *Array) Kind() Kind     { return KindArray }
func (a *Array) Len() int       { return len(a.Items) }
func (a *Array) Append(v Value) { a.Items = append(a.Items, v) }

func NewArray(items ...Value) *Array { return &Array{Items: items} }

// Data is an opaque byte payload. A decoded plist always carries a
// non-nil Bytes slice; nil marks a value that lost its payload.
type Data struct{ Bytes []byte }

func (Data) Kind() Kind { return KindData }

// String holds a text node.
type String struct{ Val string }

func (String) Kind() Kind { return KindString }

// Integer holds a whole number. Signed marks negative values, which sit
// two's-complement in Val; the full unsigned range stays representable.
type Integer struct {
	Val    uint64
	Signed bool
}

func (Integer) Kind() Kind { return KindInteger }

// Int64 returns the value as a signed integer.
func (n Integer) Int64() int64 { return int64(n.Val) }

// Real holds a floating-point node.
type Real struct{ Val float64 }

func (Real) Kind() Kind { return KindReal }

// Boolean holds a true/false node.
type Boolean struct{ Val bool }

func (Boolean) Kind() Kind { return KindBoolean }

// Date holds a timestamp node.
type Date struct{ Val time.Time }

func (Date) Kind() Kind { return KindDate }

// UID holds a keyed-archiver object reference.
type UID struct{ Val uint64 }

func (UID) Kind() Kind { return KindUID }

// Constructors for hand-built trees.

func NewData(b []byte) Data { return Data{Bytes: b} }
func Str(v string) String   { return String{Val: v} }
func Bool(v bool) Boolean   { return Boolean{Val: v} }
func Float(v float64) Real  { return Real{Val: v} }

func Int(v int64) Integer {
	return Integer{Val: uint64(v), Signed: v < 0}
}

func Uint(v uint64) Integer { return Integer{Val: v} }
