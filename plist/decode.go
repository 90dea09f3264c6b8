package plist

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	hplist "howett.net/plist"
)

// Load reads the property list at path, in any format howett.net/plist
// understands, and converts it into a Value tree.
func Load(path string) (Value, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open plist: %w", err)
	}
	defer f.Close()
	v, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return v, nil
}

// LoadDictionary reads the plist at path and requires its root to be a
// dictionary, the only shape login-items containers use.
func LoadDictionary(path string) (*Dictionary, error) {
	v, err := Load(path)
	if err != nil {
		return nil, err
	}
	dict, ok := v.(*Dictionary)
	if !ok {
		return nil, fmt.Errorf("plist root is %s, want dictionary", v.Kind())
	}
	return dict, nil
}

// Decode reads a single property list document from r. The reader must
// seek because format detection rewinds the stream.
func Decode(r io.ReadSeeker) (Value, error) {
	var root any
	if err := hplist.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("parse plist: %w", err)
	}
	return convert(root)
}

// convert maps howett's dynamic output onto the closed tree. Dictionary
// keys are sorted: the decoder surfaces dictionaries as Go maps, so the
// producer's ordering is already gone and sorting is what keeps repeated
// loads identical.
func convert(v any) (Value, error) {
	switch v := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		dict := NewDictionary()
		for _, k := range keys {
			child, err := convert(v[k])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			dict.Set(k, child)
		}
		return dict, nil
	case []any:
		arr := &Array{Items: make([]Value, 0, len(v))}
		for i, item := range v {
			child, err := convert(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			arr.Append(child)
		}
		return arr, nil
	case []byte:
		if v == nil {
			v = []byte{}
		}
		return Data{Bytes: v}, nil
	case string:
		return String{Val: v}, nil
	case bool:
		return Boolean{Val: v}, nil
	case int64:
		return Int(v), nil
	case uint64:
		return Uint(v), nil
	case float32:
		return Real{Val: float64(v)}, nil
	case float64:
		return Real{Val: v}, nil
	case time.Time:
		return Date{Val: v}, nil
	case hplist.UID:
		return UID{Val: uint64(v)}, nil
	default:
		return nil, fmt.Errorf("unsupported plist node %T", v)
	}
}
