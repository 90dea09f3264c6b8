package plist

import (
	"bytes"
	"encoding/json"
)

// MarshalJSON renders the dictionary with its entries in stored order,
// which encoding/json's map handling would not preserve.
func (d *Dictionary) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range d.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (a *Array) MarshalJSON() ([]byte, error) {
	if len(a.Items) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(a.Items)
}

// MarshalJSON encodes the payload as base64, empty when the payload is
// missing.
func (d Data) MarshalJSON() ([]byte, error) {
	b := d.Bytes
	if b == nil {
		b = []byte{}
	}
	return json.Marshal(b)
}

func (s String) MarshalJSON() ([]byte, error)  { return json.Marshal(s.Val) }
func (b Boolean) MarshalJSON() ([]byte, error) { return json.Marshal(b.Val) }
func (r Real) MarshalJSON() ([]byte, error)    { return json.Marshal(r.Val) }

func (n Integer) MarshalJSON() ([]byte, error) {
	if n.Signed {
		return json.Marshal(int64(n.Val))
	}
	return json.Marshal(n.Val)
}

func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.Val) }

// MarshalJSON uses the CF$UID wrapper keyed archives use for object
// references.
func (u UID) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		UID uint64 `json:"CF$UID"`
	}{u.Val})
}
