package output

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/Sarakael78/DoctorCodebase/internal/types"
)

// TimestampLayout is the timestamp embedded in artifact names.
const TimestampLayout = "20060102-150405"

// maxCollisions bounds the -N suffixes tried before giving up on a name.
const maxCollisions = 1000

// WriteError reports that one format could not be written. Other formats
// of the same run are unaffected.
type WriteError struct {
	Format Format
	Path   string
	Err    error
}

func (e *WriteError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s output: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("%s output %s: %v", e.Format, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Writer writes artifacts into Dir on Fs. Now stamps the file names.
type Writer struct {
	Fs     afero.Fs
	Dir    string
	Now    func() time.Time
	Logger *slog.Logger
}

// NewWriter returns a writer on the OS filesystem using the wall clock.
func NewWriter(dir string) *Writer {
	return &Writer{Fs: afero.NewOsFs(), Dir: dir, Now: time.Now}
}

type artifact struct {
	suffix string
	encode func(io.Writer, *types.RunResult) error
}

func artifacts(f Format) []artifact {
	switch f {
	case FormatText:
		return []artifact{{"", EncodeText}}
	case FormatJSON:
		return []artifact{{"", EncodeJSON}}
	case FormatCSV:
		return []artifact{
			{"files", EncodeFilesCSV},
			{"tree", EncodeTreeCSV},
			{"stats", EncodeStatsCSV},
			{"imports", EncodeImportsCSV},
			{"functions", EncodeFunctionsCSV},
		}
	case FormatPDF:
		return []artifact{{"", EncodePDF}}
	}
	return nil
}

// Filename builds "<project>_<ts>[_<suffix>].<ext>".
func Filename(project, ts, suffix, ext string) string {
	name := sanitize(project) + "_" + ts
	if suffix != "" {
		name += "_" + suffix
	}
	return name + "." + ext
}

// Write generates every requested format. It returns the paths written and
// one *WriteError per artifact that failed; a failure never stops the
// remaining formats. Existing files are never overwritten.
func (w *Writer) Write(res *types.RunResult, formats []Format) ([]string, []error) {
	fsys := w.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	ts := now().Format(TimestampLayout)

	if err := fsys.MkdirAll(w.Dir, 0o755); err != nil {
		errs := make([]error, 0, len(formats))
		for _, f := range formats {
			errs = append(errs, &WriteError{Format: f, Path: w.Dir, Err: fmt.Errorf("create output directory: %w", err)})
		}
		return nil, errs
	}

	var (
		written []string
		errs    []error
	)
	for _, f := range formats {
		list := artifacts(f)
		if list == nil {
			errs = append(errs, &WriteError{Format: f, Err: errors.New("unsupported format")})
			continue
		}
		for _, a := range list {
			name := Filename(res.ProjectName, ts, a.suffix, f.Ext())
			path, err := w.writeArtifact(fsys, name, res, a.encode)
			if err != nil {
				errs = append(errs, &WriteError{Format: f, Path: path, Err: err})
				w.logger().Warn("output failed", "format", f, "path", path, "error", err)
				continue
			}
			written = append(written, path)
		}
	}
	return written, errs
}

func (w *Writer) writeArtifact(fsys afero.Fs, name string, res *types.RunResult, encode func(io.Writer, *types.RunResult) error) (string, error) {
	var buf bytes.Buffer
	if err := encode(&buf, res); err != nil {
		return filepath.Join(w.Dir, name), fmt.Errorf("encode: %w", err)
	}

	f, path, err := createExclusive(fsys, w.Dir, name)
	if err != nil {
		return path, err
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		fsys.Remove(path)
		return path, fmt.Errorf("write: %w", err)
	}
	if err := f.Close(); err != nil {
		fsys.Remove(path)
		return path, fmt.Errorf("close: %w", err)
	}
	return path, nil
}

// createExclusive creates dir/name, or dir/<stem>-N<ext> for the first free
// N when the name is taken.
func createExclusive(fsys afero.Fs, dir, name string) (afero.File, string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 0; i < maxCollisions; i++ {
		candidate := name
		if i > 0 {
			candidate = stem + "-" + strconv.Itoa(i) + ext
		}
		path := filepath.Join(dir, candidate)
		f, err := fsys.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, path, fmt.Errorf("create: %w", err)
		}
	}
	return nil, filepath.Join(dir, name), fmt.Errorf("create: no free name after %d attempts", maxCollisions)
}

func (w *Writer) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// sanitize keeps project names usable as file name prefixes.
func sanitize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "project"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, name)
}
