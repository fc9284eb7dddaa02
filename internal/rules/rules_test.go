package rules

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_NormalisesExtensionsAndNames(t *testing.T) {
	rs, err := New(Config{
		IgnoredExtensions:    []string{"PNG", ".Jpg"},
		StructuredExtensions: []string{"yaml"},
		SourceExtensions:     []string{".GO"},
		EssentialFilenames:   []string{"Dockerfile"},
	})
	require.NoError(t, err)

	assert.True(t, rs.IgnoresExtension(".png"))
	assert.True(t, rs.IgnoresExtension(".JPG"))
	assert.True(t, rs.IsStructured(".yaml"))
	assert.True(t, rs.IsSource("go"))
	assert.True(t, rs.IsEssential("dockerfile"))
	assert.True(t, rs.IsEssential("DOCKERFILE"))
	assert.False(t, rs.IsSource(""))
}

func TestIgnoresDir(t *testing.T) {
	rs := MustNew(Config{IgnoredDirectories: []string{".git", "*.egg-info", "docs/generated", "/build/"}})

	cases := map[string]bool{
		".git":               true,
		"sub/.git":           true,
		"pkg.egg-info":       true,
		"a/b/pkg.egg-info":   true,
		"docs/generated":     true,
		"other/generated":    false,
		"build":              true,
		"src":                false,
		"gitlike":            false,
		"src/.github":        false,
		"docs/generated/sub": false,
	}
	for rel, want := range cases {
		assert.Equal(t, want, rs.IgnoresDir(rel), rel)
	}
}

func TestNew_RejectsBadPattern(t *testing.T) {
	_, err := New(Config{IgnoredDirectories: []string{"[abc"}})
	var ce *ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "directories.ignore", ce.Key)
}

func TestDefault(t *testing.T) {
	rs := Default()
	assert.True(t, rs.IgnoresDir("node_modules"))
	assert.True(t, rs.IgnoresDir(".git"))
	assert.True(t, rs.IgnoresExtension(".png"))
	assert.True(t, rs.IsEssential("Dockerfile"))
	assert.True(t, rs.IsEssential("requirements.txt"))
	assert.True(t, rs.IsSource(".py"))
	assert.True(t, rs.IsStructured(".yml"))
	assert.False(t, rs.IsStructured(".md"))
	assert.Empty(t, rs.ProjectName())
}

const validDoc = `
directories:
  ignore: [".git", "node_modules"]
extensions:
  code: [".py", ".go"]
  other: [".yaml", ".json"]
  ignore: [".png"]
files:
  necessary: ["requirements.txt", "Dockerfile"]
output:
  file_name: demo
`

func TestParse_Valid(t *testing.T) {
	rs, err := Parse([]byte(validDoc))
	require.NoError(t, err)
	assert.True(t, rs.IgnoresDir("node_modules"))
	assert.True(t, rs.IsSource(".py"))
	assert.True(t, rs.IsStructured(".json"))
	assert.True(t, rs.IgnoresExtension(".png"))
	assert.True(t, rs.IsEssential("dockerfile"))
	assert.Equal(t, "demo", rs.ProjectName())
}

func TestParse_MissingKeys(t *testing.T) {
	cases := map[string]string{
		"directories.ignore": "extensions: {code: [], other: []}\nfiles: {necessary: []}\n",
		"extensions.code":    "directories: {ignore: []}\nextensions: {other: []}\nfiles: {necessary: []}\n",
		"extensions.other":   "directories: {ignore: []}\nextensions: {code: []}\nfiles: {necessary: []}\n",
		"files.necessary":    "directories: {ignore: []}\nextensions: {code: [], other: []}\n",
	}
	for key, doc := range cases {
		_, err := Parse([]byte(doc))
		var ce *ConfigurationError
		require.ErrorAs(t, err, &ce, key)
		assert.Equal(t, key, ce.Key)
		assert.True(t, errors.Is(err, errMissingKey), key)
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, doc := range []string{"", "directories: [", "bogus: 1\n"} {
		_, err := Parse([]byte(doc))
		var ce *ConfigurationError
		assert.ErrorAs(t, err, &ce, "doc %q", doc)
	}
}

func TestLoadAndFind(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, Find(dir))

	p := filepath.Join(dir, "rules.yml")
	require.NoError(t, os.WriteFile(p, []byte(validDoc), 0o644))
	assert.Equal(t, p, Find(t.TempDir(), dir))

	rs, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "demo", rs.ProjectName())

	_, err = Load(filepath.Join(dir, "missing.yml"))
	var ce *ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Path, "missing.yml")
}

func TestResolve_ExplicitPathErrors(t *testing.T) {
	p := filepath.Join(t.TempDir(), "rules.yml")
	require.NoError(t, os.WriteFile(p, []byte("directories: {}\n"), 0o644))

	_, used, err := Resolve(p)
	assert.Equal(t, p, used)
	var ce *ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, p, ce.Path)
}

func TestWithStructured(t *testing.T) {
	base := MustNew(Config{StructuredExtensions: []string{".json"}})
	web := base.WithStructured("md")

	assert.True(t, web.IsStructured(".md"))
	assert.True(t, web.IsStructured(".json"))
	assert.False(t, base.IsStructured(".md"))
}
