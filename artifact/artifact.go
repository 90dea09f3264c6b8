// Package artifact describes extracted bookmark payloads as evidence
// records.
package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// Record describes one extracted payload. Data is carried for writers
// but kept out of JSON reports; the digest stands in for it.
type Record struct {
	Source string `json:"source"`
	Index  int    `json:"index"`
	Size   int    `json:"size"`
	SHA256 string `json:"sha256"`
	Data   []byte `json:"-"`
}

// Describe builds records for payloads extracted from source, keeping
// extraction order.
func Describe(source string, payloads [][]byte) []Record {
	records := make([]Record, 0, len(payloads))
	for i, payload := range payloads {
		records = append(records, Record{
			Source: source,
			Index:  i,
			Size:   len(payload),
			SHA256: Digest(payload),
			Data:   payload,
		})
	}
	return records
}

// Digest returns the hex-encoded SHA256 of data, the canonical form for
// evidence references.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Filename returns a stable artifact name derived from the record's
// index and a digest prefix.
func (r Record) Filename() string {
	digest := r.SHA256
	if len(digest) > 12 {
		digest = digest[:12]
	}
	return fmt.Sprintf("bookmark-%04d-%s.bin", r.Index, digest)
}

// WriteAll writes each record's payload under dir using its Filename.
// Nothing is created when records is empty.
func WriteAll(dir string, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	for _, rec := range records {
		path := filepath.Join(dir, rec.Filename())
		if err := os.WriteFile(path, rec.Data, 0o644); err != nil {
			return fmt.Errorf("write artifact %q: %w", path, err)
		}
	}
	return nil
}
