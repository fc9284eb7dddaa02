// Package classify assigns a category to each surfaced file and loads the
// text of the files whose content is kept.
package classify

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/Sarakael78/DoctorCodebase/internal/rules"
	"github.com/Sarakael78/DoctorCodebase/internal/stats"
	"github.com/Sarakael78/DoctorCodebase/internal/types"
	"github.com/Sarakael78/DoctorCodebase/internal/walker"
)

// DefaultMaxFileBytes is the size above which a file is skipped unread.
const DefaultMaxFileBytes int64 = 10 * 1024 * 1024

var (
	errNotText  = errors.New("content is not valid text")
	errTooLarge = errors.New("file grew past the size limit while reading")
)

// Classifier turns walker entries into file records. The zero MaxFileBytes
// disables the size limit.
type Classifier struct {
	Rules        rules.RuleSet
	MaxFileBytes int64
}

// New returns a classifier for rs with the given size limit.
func New(rs rules.RuleSet, maxFileBytes int64) *Classifier {
	return &Classifier{Rules: rs, MaxFileBytes: maxFileBytes}
}

// Category decides the category of a file entry from its name and extension.
// Essential names win over source extensions, which win over structured ones.
// An essential file with a source extension, such as setup.py, keeps the
// source dialect so its definitions are still counted.
func (c *Classifier) Category(e walker.Entry) (types.Category, types.Dialect) {
	var dialect types.Dialect
	if c.Rules.IsSource(e.Ext) {
		dialect = stats.DialectForExtension(e.Ext)
	}
	switch {
	case c.Rules.IsEssential(e.Name):
		return types.CategoryEssential, dialect
	case c.Rules.IsSource(e.Ext):
		return types.CategorySource, dialect
	case c.Rules.IsStructured(e.Ext):
		return types.CategoryStructured, ""
	default:
		return types.CategoryOther, ""
	}
}

// Classify builds the record for a file entry. The file is opened, read and
// closed before Classify returns. A file that is too large, cannot be read or
// does not decode as text comes back as a skipped record together with the
// warning describing why.
func (c *Classifier) Classify(e walker.Entry) (types.FileRecord, *types.FileAccessWarning) {
	cat, dialect := c.Category(e)
	rec := types.FileRecord{
		RelativePath: e.RelPath,
		AbsolutePath: e.AbsPath,
		Category:     cat,
		Dialect:      dialect,
		Extension:    e.Ext,
		SizeBytes:    e.Size,
	}

	if c.MaxFileBytes > 0 && e.Size > c.MaxFileBytes {
		return skip(rec, types.ReasonTooLarge, fmt.Errorf("%d bytes exceeds limit of %d", e.Size, c.MaxFileBytes))
	}

	data, err := c.read(e.AbsPath)
	if err != nil {
		if errors.Is(err, errTooLarge) {
			return skip(rec, types.ReasonTooLarge, err)
		}
		return skip(rec, types.ReasonUnreadable, err)
	}
	rec.SizeBytes = int64(len(data))

	text, ok := Decode(data)
	if !ok {
		return skip(rec, types.ReasonUndecodable, errNotText)
	}
	rec.TextContent = &text
	rec.Embed = cat != types.CategoryOther
	stats.Measure(&rec)
	return rec, nil
}

func (c *Classifier) read(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if c.MaxFileBytes <= 0 {
		return io.ReadAll(f)
	}
	data, err := io.ReadAll(io.LimitReader(f, c.MaxFileBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > c.MaxFileBytes {
		return nil, errTooLarge
	}
	return data, nil
}

func skip(rec types.FileRecord, reason string, err error) (types.FileRecord, *types.FileAccessWarning) {
	rec.Category = types.CategorySkipped
	rec.Dialect = ""
	rec.SkipReason = reason
	return rec, &types.FileAccessWarning{Path: rec.RelativePath, Reason: reason, Err: err}
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
)

// Decode converts raw file bytes to text. Input with a byte order mark is
// decoded as UTF-8 or UTF-16 accordingly and the mark is dropped; anything
// else must already be valid UTF-8. Text containing NUL bytes is treated as
// binary.
func Decode(data []byte) (string, bool) {
	if bytes.HasPrefix(data, bomUTF8) || bytes.HasPrefix(data, bomUTF16BE) || bytes.HasPrefix(data, bomUTF16LE) {
		out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
		if err != nil {
			return "", false
		}
		data = out
	}
	if !utf8.Valid(data) || bytes.IndexByte(data, 0) >= 0 {
		return "", false
	}
	return string(data), true
}
