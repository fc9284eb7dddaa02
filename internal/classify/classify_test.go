package classify

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sarakael78/DoctorCodebase/internal/rules"
	"github.com/Sarakael78/DoctorCodebase/internal/stats"
	"github.com/Sarakael78/DoctorCodebase/internal/types"
	"github.com/Sarakael78/DoctorCodebase/internal/walker"
)

func entry(t *testing.T, root, rel string, content []byte) walker.Entry {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, content, 0o644))
	return walker.Entry{
		RelPath: rel,
		AbsPath: p,
		Name:    filepath.Base(p),
		Ext:     walker.Ext(filepath.Base(p)),
		Depth:   strings.Count(rel, "/") + 1,
		Size:    int64(len(content)),
	}
}

func testClassifier() *Classifier {
	return New(rules.MustNew(rules.Config{
		EssentialFilenames:   []string{"Dockerfile", "package.json"},
		SourceExtensions:     []string{".py", ".js"},
		StructuredExtensions: []string{".json", ".yaml"},
	}), 64)
}

func TestCategory_Precedence(t *testing.T) {
	c := testClassifier()
	cases := map[string]types.Category{
		"main.py":      types.CategorySource,
		"app.js":       types.CategorySource,
		"conf.yaml":    types.CategoryStructured,
		"data.json":    types.CategoryStructured,
		"package.json": types.CategoryEssential,
		"dockerfile":   types.CategoryEssential,
		"README.md":    types.CategoryOther,
		"LICENSE":      types.CategoryOther,
	}
	for name, want := range cases {
		got, _ := c.Category(walker.Entry{Name: name, Ext: walker.Ext(name)})
		assert.Equal(t, want, got, name)
	}
	_, d := c.Category(walker.Entry{Name: "main.py", Ext: ".py"})
	assert.Equal(t, stats.Python, d)
}

func TestClassify_Source(t *testing.T) {
	root := t.TempDir()
	e := entry(t, root, "src/main.py", []byte("def main():\n    # TODO: tidy\n    return 1\n"))

	rec, warn := testClassifier().Classify(e)
	require.Nil(t, warn)
	assert.Equal(t, types.CategorySource, rec.Category)
	assert.True(t, rec.Embed)
	require.NotNil(t, rec.TextContent)
	assert.Equal(t, 3, rec.LineCount)
	assert.Equal(t, 1, rec.Functions)
	assert.Equal(t, 1, rec.Todos)
	assert.Equal(t, "src/main.py", rec.RelativePath)
}

func TestClassify_EssentialSourceKeepsDialect(t *testing.T) {
	root := t.TempDir()
	c := New(rules.Default(), DefaultMaxFileBytes)

	rec, warn := c.Classify(entry(t, root, "setup.py", []byte("import setuptools\n\ndef build():\n    setuptools.setup()\n")))
	require.Nil(t, warn)
	assert.Equal(t, types.CategoryEssential, rec.Category)
	assert.Equal(t, stats.Python, rec.Dialect)
	assert.Equal(t, 1, rec.Functions)
	assert.Equal(t, []string{"import setuptools"}, rec.Imports)
	require.Len(t, rec.Definitions, 1)
	assert.Equal(t, "build", rec.Definitions[0].Name)

	_, d := c.Category(walker.Entry{Name: "build.gradle.kts", Ext: ".kts"})
	assert.Equal(t, stats.Kotlin, d)
	_, d = c.Category(walker.Entry{Name: "Dockerfile"})
	assert.Empty(t, d)
}

func TestClassify_OtherIsReadButNotEmbedded(t *testing.T) {
	root := t.TempDir()
	rec, warn := testClassifier().Classify(entry(t, root, "README.md", []byte("# title\nbody\n")))
	require.Nil(t, warn)
	assert.Equal(t, types.CategoryOther, rec.Category)
	assert.False(t, rec.Embed)
	assert.Equal(t, 2, rec.LineCount)
}

func TestClassify_Skipped(t *testing.T) {
	root := t.TempDir()
	c := testClassifier()

	big, warn := c.Classify(entry(t, root, "big.py", []byte(strings.Repeat("x", 65))))
	require.NotNil(t, warn)
	assert.Equal(t, types.CategorySkipped, big.Category)
	assert.Equal(t, types.ReasonTooLarge, big.SkipReason)
	assert.Nil(t, big.TextContent)
	assert.Zero(t, big.LineCount)

	bin, warn := c.Classify(entry(t, root, "blob.js", []byte{0x7f, 'E', 'L', 'F', 0, 0, 1}))
	require.NotNil(t, warn)
	assert.Equal(t, types.ReasonUndecodable, warn.Reason)
	assert.Equal(t, "blob.js", warn.Path)
	assert.Nil(t, bin.TextContent)
	assert.Empty(t, bin.Dialect)

	gone := entry(t, root, "gone.py", []byte("x = 1\n"))
	require.NoError(t, os.Remove(gone.AbsPath))
	rec, warn := c.Classify(gone)
	require.NotNil(t, warn)
	assert.Equal(t, types.ReasonUnreadable, warn.Reason)
	assert.ErrorIs(t, warn, os.ErrNotExist)
	assert.Equal(t, types.CategorySkipped, rec.Category)
}

func TestClassify_NoLimit(t *testing.T) {
	root := t.TempDir()
	c := testClassifier()
	c.MaxFileBytes = 0
	rec, warn := c.Classify(entry(t, root, "big.py", []byte(strings.Repeat("x", 1000))))
	require.Nil(t, warn)
	assert.Equal(t, 1, rec.LineCount)
}

func TestClassify_EmptyFile(t *testing.T) {
	root := t.TempDir()
	rec, warn := testClassifier().Classify(entry(t, root, "empty.py", nil))
	require.Nil(t, warn)
	require.NotNil(t, rec.TextContent)
	assert.Zero(t, rec.LineCount)
}

func TestDecode(t *testing.T) {
	s, ok := Decode([]byte("héllo\n"))
	assert.True(t, ok)
	assert.Equal(t, "héllo\n", s)

	s, ok = Decode([]byte("\xEF\xBB\xBFbom"))
	assert.True(t, ok)
	assert.Equal(t, "bom", s)

	s, ok = Decode([]byte{0xFF, 0xFE, 'h', 0, 'i', 0})
	assert.True(t, ok)
	assert.Equal(t, "hi", s)

	s, ok = Decode([]byte{0xFE, 0xFF, 0, 'o', 0, 'k'})
	assert.True(t, ok)
	assert.Equal(t, "ok", s)

	_, ok = Decode([]byte{0xC3, 0x28})
	assert.False(t, ok)

	_, ok = Decode([]byte("a\x00b"))
	assert.False(t, ok)
}
