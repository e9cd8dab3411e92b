package ildoc

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/ildoc/diag"
	"github.com/tsawler/ildoc/model"
)

// Source is one document of a corpus
type Source struct {
	// Name identifies the document in reports, typically its file name
	Name string
	// Data is the document markup
	Data []byte
}

// FileSource reads a Source from disk
func FileSource(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Source{Name: path, Data: data}, nil
}

// Report is the outcome of checking one Source
type Report struct {
	Name string
	// Document is nil when the markup could not be read or the root
	// element was rejected
	Document    *model.Document
	Diagnostics diag.List
	// Err is set when the document is not valid or checking was canceled
	Err error
}

// OK reports whether the document parsed and validated without errors
func (r Report) OK() bool {
	return r.Err == nil
}

// ValidateCorpus parses and validates many documents concurrently, bounded
// by WithWorkers. Reports are returned in the order of sources. Documents
// not yet started when ctx is canceled get a report carrying the context
// error.
func ValidateCorpus(ctx context.Context, sources []Source, opts ...Option) []Report {
	o := applyOptions(opts)
	reports := make([]Report, len(sources))

	// Documents are the unit of parallelism; pages inside one document are
	// checked sequentially.
	docOpts := o
	if len(sources) > 1 {
		docOpts.workers = 1
	}

	var g errgroup.Group
	g.SetLimit(o.workers)

	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			reports[i] = checkSource(ctx, src, docOpts)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range reports {
		if !r.OK() {
			failed++
		}
	}
	o.logger.Info("validated corpus",
		slog.Int("documents", len(reports)),
		slog.Int("failed", failed))
	return reports
}

func checkSource(ctx context.Context, src Source, o options) Report {
	report := Report{Name: src.Name}
	if err := ctx.Err(); err != nil {
		report.Err = err
		return report
	}

	report.Document, report.Diagnostics, report.Err = parse(src.Data, o)
	o.logger.Debug("validated document",
		slog.String("name", src.Name),
		slog.Int("diagnostics", len(report.Diagnostics)),
		slog.Bool("ok", report.Err == nil))
	return report
}
