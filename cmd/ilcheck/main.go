// Command ilcheck validates IL documents.
//
// Usage:
//
//	ilcheck [-workers N] [-epsilon E] [-strict-text] [-normalize nfc|nfkc]
//	        [-roundtrip] [-json] [-v] file...
//
// Every diagnostic is printed, one per line, prefixed with the file name.
// The exit status is 1 when any file has an error-severity diagnostic or
// cannot be read, and 2 on bad usage.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/tsawler/ildoc"
	"github.com/tsawler/ildoc/compose"
	"github.com/tsawler/ildoc/diag"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// fileResult is the JSON form of one report
type fileResult struct {
	File        string    `json:"file"`
	OK          bool      `json:"ok"`
	Error       string    `json:"error,omitempty"`
	RoundTrip   string    `json:"roundTrip,omitempty"`
	Diagnostics diag.List `json:"diagnostics"`
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ilcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	workers := fs.Int("workers", runtime.GOMAXPROCS(0), "number of documents checked concurrently")
	epsilon := fs.Float64("epsilon", compose.DefaultConfig().Epsilon, "box containment tolerance")
	strictText := fs.Bool("strict-text", false, "report paragraph text mismatches as errors")
	normalize := fs.String("normalize", "none", "normalize text before comparing: none, nfc or nfkc")
	roundTrip := fs.Bool("roundtrip", false, "check that every valid document serializes back to itself")
	asJSON := fs.Bool("json", false, "print results as JSON")
	verbose := fs.Bool("v", false, "log progress")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "usage: ilcheck [flags] file...")
		fs.PrintDefaults()
		return 2
	}
	norm, err := compose.ParseNormalization(*normalize)
	if err != nil {
		fmt.Fprintln(stderr, "ilcheck:", err)
		return 2
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	status := 0
	results := make([]fileResult, fs.NArg())
	var sources []ildoc.Source
	var index []int
	for i, name := range fs.Args() {
		src, err := ildoc.FileSource(name)
		if err != nil {
			results[i] = fileResult{File: name, Error: err.Error(), Diagnostics: diag.List{}}
			status = 1
			continue
		}
		sources = append(sources, src)
		index = append(index, i)
	}

	opts := []ildoc.Option{
		ildoc.WithWorkers(*workers),
		ildoc.WithEpsilon(*epsilon),
		ildoc.WithNormalization(norm),
		ildoc.WithLogger(logger),
	}
	if *strictText {
		opts = append(opts, ildoc.WithStrictText())
	}

	for j, r := range ildoc.ValidateCorpus(ctx, sources, opts...) {
		res := fileResult{File: r.Name, OK: r.OK(), Diagnostics: r.Diagnostics}
		if res.Diagnostics == nil {
			res.Diagnostics = diag.List{}
		}
		if r.Err != nil {
			status = 1
			var list diag.List
			if !errors.As(r.Err, &list) {
				res.Error = r.Err.Error()
			}
		}
		if *roundTrip && r.OK() {
			if err := ildoc.RoundTrip(r.Document); err != nil {
				res.RoundTrip = err.Error()
				res.OK = false
				status = 1
			}
		}
		results[index[j]] = res
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			fmt.Fprintln(stderr, "ilcheck:", err)
			return 1
		}
		return status
	}

	for _, res := range results {
		printResult(stdout, res)
	}
	return status
}

func printResult(w io.Writer, res fileResult) {
	if res.Error != "" {
		fmt.Fprintf(w, "%s: %s\n", res.File, res.Error)
	}
	for _, d := range res.Diagnostics {
		fmt.Fprintf(w, "%s: %s\n", res.File, d)
	}
	if res.RoundTrip != "" {
		fmt.Fprintf(w, "%s: %s\n", res.File, res.RoundTrip)
	}
	if res.OK {
		fmt.Fprintf(w, "%s: ok\n", res.File)
	}
}
