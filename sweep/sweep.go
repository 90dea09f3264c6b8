package sweep

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/forensickit/loginitems/artifact"
	"github.com/forensickit/loginitems/bundle"
	"github.com/forensickit/loginitems/extractor"
	"github.com/forensickit/loginitems/observability"
	"github.com/forensickit/loginitems/plist"
)

// Container schemas recognized during a sweep.
const (
	// SchemaBookmarks marks keyed-archiver containers holding an object
	// table.
	SchemaBookmarks = "bookmarks"
	// SchemaDictionary marks plain login-items dictionaries, reported
	// verbatim.
	SchemaDictionary = "dictionary"
)

// Outcome reports what a single container produced. A per-file failure
// is recorded here instead of failing the run.
type Outcome struct {
	Path      string `json:"path"`
	Schema    string `json:"schema,omitempty"`
	Bookmarks int    `json:"bookmarks"`
	Entries   int    `json:"entries,omitempty"`
	Err       string `json:"error,omitempty"`
}

// Report aggregates a whole run.
type Report struct {
	Root     string            `json:"root"`
	Outcomes []Outcome         `json:"outcomes"`
	Records  []artifact.Record `json:"records"`
}

// Run sweeps every configured location under cfg.Root. Containers that
// cannot be read or do not hold the expected shape are reported and
// skipped; only configuration, cancellation, and output-writing
// failures abort the run. A nil log discards diagnostics.
func Run(ctx context.Context, cfg *Config, log observability.Logger) (*Report, error) {
	if log == nil {
		log = observability.NopLogger{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sweep config: %w", err)
	}

	ext := extractor.New(extractor.WithLogger(log))
	report := &Report{Root: cfg.Root}
	for _, loc := range cfg.Locations {
		matches, err := filepath.Glob(filepath.Join(cfg.Root, loc))
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", loc, err)
		}
		if len(matches) == 0 {
			log.Debug("no containers at location", observability.String("pattern", loc))
			continue
		}
		for _, path := range matches {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			outcome, records := sweepFile(ext, log, path)
			report.Outcomes = append(report.Outcomes, outcome)
			report.Records = append(report.Records, records...)
		}
	}

	if cfg.OutputDir != "" {
		if err := artifact.WriteAll(cfg.OutputDir, report.Records); err != nil {
			return nil, err
		}
	}
	if cfg.Bundle != "" {
		if err := bundle.WriteFile(cfg.Bundle, report.Records); err != nil {
			return nil, err
		}
	}
	return report, nil
}

func sweepFile(ext *extractor.Extractor, log observability.Logger, path string) (Outcome, []artifact.Record) {
	outcome := Outcome{Path: path}

	items, err := plist.LoadDictionary(path)
	if err != nil {
		outcome.Err = err.Error()
		log.Warn("container unreadable",
			observability.String("path", path),
			observability.Error("error", err))
		return outcome, nil
	}

	if _, ok := items.Get(extractor.ObjectsKey); ok {
		outcome.Schema = SchemaBookmarks
		payloads, err := ext.ExtractBookmarks(items)
		if err != nil {
			outcome.Err = err.Error()
			log.Warn("container not extractable",
				observability.String("path", path),
				observability.Error("error", err))
			return outcome, nil
		}
		outcome.Bookmarks = len(payloads)
		log.Info("container swept",
			observability.String("path", path),
			observability.Int("bookmarks", len(payloads)))
		return outcome, artifact.Describe(path, payloads)
	}

	outcome.Schema = SchemaDictionary
	outcome.Entries = items.Len()
	log.Info("login items read",
		observability.String("path", path),
		observability.Int("entries", items.Len()))
	return outcome, nil
}
