// Package engine runs one snapshot: walk, classify, accumulate, render and
// serialize.
package engine

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/Sarakael78/DoctorCodebase/internal/classify"
	"github.com/Sarakael78/DoctorCodebase/internal/output"
	"github.com/Sarakael78/DoctorCodebase/internal/rules"
	"github.com/Sarakael78/DoctorCodebase/internal/stats"
	"github.com/Sarakael78/DoctorCodebase/internal/tokens"
	"github.com/Sarakael78/DoctorCodebase/internal/tree"
	"github.com/Sarakael78/DoctorCodebase/internal/types"
	"github.com/Sarakael78/DoctorCodebase/internal/walker"
)

// DefaultOutputDir is created under the root when no output directory is set.
const DefaultOutputDir = "output"

// Options configure a run. The zero value walks with the rule set alone,
// writes nothing and uses the default size limit.
type Options struct {
	// Formats to write. Nil skips serialization, leaving only the result.
	Formats      []output.Format
	OutputDir    string
	ProjectName  string
	MaxFileBytes int64
	MaxDepth     int
	SkipHidden   bool
	UseGitignore bool
	// Tokens, when set, counts tokens of every file that carries text.
	Tokens tokens.Counter
	Fs     afero.Fs
	Now    func() time.Time
	Logger *slog.Logger
}

// Report collects the non-fatal outcome of a run.
type Report struct {
	Written  []string
	Failed   []error
	Warnings []types.FileAccessWarning
}

// Run snapshots the tree at root. An invalid root or a bad option is
// returned as an error before any output is produced; problems with single
// files or single formats end up in the report.
func Run(root string, rs rules.RuleSet, opts Options) (*types.RunResult, Report, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	maxBytes := opts.MaxFileBytes
	if maxBytes == 0 {
		maxBytes = classify.DefaultMaxFileBytes
	}
	if maxBytes < 0 {
		maxBytes = 0
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, Report{}, &walker.InvalidRootError{Root: root, Err: err}
	}
	outDir := opts.OutputDir
	if outDir == "" {
		outDir = filepath.Join(absRoot, DefaultOutputDir)
	}
	outDir, err = filepath.Abs(outDir)
	if err != nil {
		return nil, Report{}, fmt.Errorf("output directory: %w", err)
	}

	w, err := walker.New(absRoot, rs, walker.Options{
		MaxDepth:     opts.MaxDepth,
		SkipHidden:   opts.SkipHidden,
		UseGitignore: opts.UseGitignore,
		Exclude:      []string{outDir},
		Logger:       log,
	})
	if err != nil {
		return nil, Report{}, err
	}

	name := ProjectName(opts.ProjectName, rs, w.Root())
	log.Info("snapshot started", "root", w.Root(), "project", name)

	var (
		cls     = classify.New(rs, maxBytes)
		acc     = stats.NewAccumulator(opts.Tokens != nil)
		builder = tree.NewBuilder(name)
		res     = &types.RunResult{Root: w.Root(), ProjectName: name}
	)
	for e := range w.Entries() {
		builder.Add(e)
		if e.IsDir {
			continue
		}
		rec, warn := cls.Classify(e)
		if warn != nil {
			log.Warn("file skipped", "path", warn.Path, "reason", warn.Reason, "error", warn.Err)
			res.Warnings = append(res.Warnings, *warn)
		}
		if opts.Tokens != nil && rec.TextContent != nil {
			n, err := opts.Tokens.Count(*rec.TextContent)
			if err != nil {
				log.Warn("token count failed", "path", rec.RelativePath, "error", err)
			}
			rec.Tokens = n
		}
		acc.Add(&rec)
		res.Files = append(res.Files, rec)
	}

	res.Tree = builder.Root()
	res.Statistics = acc.Finalize()
	res.Warnings = append(w.Warnings(), res.Warnings...)
	log.Info("snapshot collected", "files", res.Statistics.TotalFiles, "skipped", res.Statistics.SkippedFiles)

	report := Report{Warnings: res.Warnings}
	if len(opts.Formats) > 0 {
		out := &output.Writer{Fs: opts.Fs, Dir: outDir, Now: opts.Now, Logger: log}
		report.Written, report.Failed = out.Write(res, opts.Formats)
	}
	return res, report, nil
}

// ProjectName picks the explicit name, then the rule set's, then the base
// name of the root.
func ProjectName(explicit string, rs rules.RuleSet, root string) string {
	if explicit != "" {
		return explicit
	}
	if n := rs.ProjectName(); n != "" {
		return n
	}
	return filepath.Base(root)
}
