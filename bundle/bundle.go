// Package bundle packages evidence records into compressed archives.
package bundle

import (
	"archive/tar"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/forensickit/loginitems/artifact"
)

// ManifestName is the first member of every bundle.
const ManifestName = "manifest.json"

// Write emits records as a zstd-compressed tar stream: the manifest
// first, then one member per payload. Identical payload names collapse
// to one member; the manifest keeps every record. Member order and
// timestamps are fixed so identical inputs produce identical bundles.
func Write(w io.Writer, records []artifact.Record) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("zstd writer: %w", err)
	}
	tw := tar.NewWriter(enc)

	if err := writeMembers(tw, records); err != nil {
		tw.Close()
		enc.Close()
		return err
	}
	if err := tw.Close(); err != nil {
		enc.Close()
		return fmt.Errorf("close tar: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close zstd: %w", err)
	}
	return nil
}

// writeMembers writes the manifest followed by the deduplicated
// payload members.
func writeMembers(tw *tar.Writer, records []artifact.Record) error {
	manifest, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := writeMember(tw, ManifestName, manifest); err != nil {
		return err
	}

	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		name := rec.Filename()
		if seen[name] {
			continue
		}
		seen[name] = true
		if err := writeMember(tw, name, rec.Data); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile writes a bundle to path. Nothing is created when records is
// empty.
func WriteFile(path string, records []artifact.Record) error {
	if len(records) == 0 {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create bundle: %w", err)
	}
	if err := Write(f, records); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close bundle: %w", err)
	}
	return nil
}

func writeMember(tw *tar.Writer, name string, data []byte) error {
	hdr := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     name,
		Mode:     0o644,
		Size:     int64(len(data)),
		ModTime:  time.Unix(0, 0).UTC(),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("write header %q: %w", name, err)
	}
	if _, err := tw.Write(data); err != nil {
		return fmt.Errorf("write member %q: %w", name, err)
	}
	return nil
}
