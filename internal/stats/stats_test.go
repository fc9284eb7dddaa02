package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sarakael78/DoctorCodebase/internal/types"
)

func TestCountLines(t *testing.T) {
	cases := map[string]int{
		"":              0,
		"\n":            1,
		"a":             1,
		"a\n":           1,
		"a\nb":          2,
		"a\nb\n":        2,
		"a\r\nb\r\n":    2,
		"\n\n\n":        3,
		"one\ntwo\nend": 3,
	}
	for text, want := range cases {
		assert.Equal(t, want, CountLines(text), "%q", text)
	}
}

func TestIsTodoLine(t *testing.T) {
	assert.True(t, IsTodoLine("// TODO: fix"))
	assert.True(t, IsTodoLine("# fixme later"))
	assert.True(t, IsTodoLine("x = 1 # Hack"))
	assert.False(t, IsTodoLine("nothing to see"))
	assert.True(t, IsTodoLine("fix later (todo)"))
	assert.True(t, IsTodoLine("#FIXME"))
	assert.False(t, IsTodoLine("notes from the hackathon"))
	assert.False(t, IsTodoLine("a shack by the sea"))
	assert.False(t, IsTodoLine("todoList := nil"))

	_, _, todos := Scan("", "TODO and FIXME on one line\nplain\n")
	assert.Equal(t, 1, todos)
}

func TestScan_Dialects(t *testing.T) {
	cases := []struct {
		dialect            types.Dialect
		text               string
		functions, classes int
	}{
		{Python, "class A:\n    def m(self):\n        pass\n\nasync def run():\n    # def not_this\n    pass\n", 2, 1},
		{Go, "package x\n\ntype T struct{}\ntype I interface {\n}\ntype ID string\n\nfunc (t T) M() {}\nfunc F() {}\n", 2, 2},
		{JavaScript, "export default class App {}\nfunction a() {}\nexport async function b() {}\nconst c = (x) => x\nconst d = 5\n", 3, 1},
		{TypeScript, "export interface P {}\nexport const h = async (e: E): Promise<R> => {\n", 1, 1},
		{Java, "public class Main {\n  public static void main(String[] args) {\n    if (x) {\n    foo(1);\n  }\n  private int size() {\n}\n", 2, 1},
		{C, "#include <stdio.h>\nstruct point {\nint main(int argc, char **argv) {\n  return foo(1);\n}\nstatic void helper(void)\n", 2, 1},
		{Rust, "pub struct S;\nenum E {}\npub(crate) fn f() {}\nasync fn g() {}\n", 2, 2},
		{Ruby, "module M\n  class K\n    def go\n", 1, 2},
		{Kotlin, "data class P(val x: Int)\nsuspend fun load() {}\n", 1, 1},
		{Shell, "function build {\n}\ndeploy() {\n}\necho done\n", 2, 0},
		{"", "def f():\n  pass\n", 0, 0},
	}
	for _, tc := range cases {
		f, c, _ := Scan(tc.dialect, tc.text)
		assert.Equal(t, tc.functions, f, "%s functions", tc.dialect)
		assert.Equal(t, tc.classes, c, "%s classes", tc.dialect)
	}
}

func TestAnalyze_Imports(t *testing.T) {
	cases := []struct {
		dialect types.Dialect
		text    string
		want    []string
	}{
		{Go, "package x\n\nimport \"os\"\nimport (\n\t\"fmt\"\n\n\t// grouped\n\tstr \"strings\"\n)\n\nfunc F() {}\n",
			[]string{`import "os"`, `import "fmt"`, `import str "strings"`}},
		{Python, "import os\nfrom a.b import c as d\nx = 'import'\n", []string{"import os", "from a.b import c as d"}},
		{JavaScript, "import React from 'react'\nconst fs = require('fs')\nconst x = 1\n", []string{"import React from 'react'", "const fs = require('fs')"}},
		{C, "#include <stdio.h>\n# include \"x.h\"\n#define X 1\n", []string{"#include <stdio.h>", `# include "x.h"`}},
		{Rust, "use std::io;\npub use crate::a;\nextern crate serde;\nfn useful() {}\n", []string{"use std::io;", "pub use crate::a;", "extern crate serde;"}},
		{CSharp, "using System;\nusing IO = System.IO;\nusing (var s = Open()) {\n", []string{"using System;", "using IO = System.IO;"}},
		{Shell, "source ./env.sh\n. lib.sh\n./run.sh\n", []string{"source ./env.sh", ". lib.sh"}},
		{"", "import os\n", nil},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Analyze(tc.dialect, tc.text).Imports, "%s", tc.dialect)
	}
}

func TestAnalyze_DefinitionLines(t *testing.T) {
	st := Analyze(Python, "import os\n\ndef a():\n    pass\n    def inner(y): pass\ndef b(x):\n")
	require.Len(t, st.Definitions, 3)
	assert.Equal(t, 3, st.Definitions[0].Line)
	assert.Equal(t, "inner", st.Definitions[1].Name)
	assert.Equal(t, "def inner(y): pass", st.Definitions[1].Definition)
	assert.Equal(t, 6, st.Definitions[2].Line)
	assert.Equal(t, st.Functions, len(st.Definitions))
}

func TestDefinition(t *testing.T) {
	cases := []struct {
		line   string
		name   string
		params []string
	}{
		{"func (t *T) Handle(w http.ResponseWriter, r *http.Request) error {", "Handle", []string{"w http.ResponseWriter", "r *http.Request"}},
		{"func Map[K comparable, V any](m map[K]V) []V {", "Map", []string{"m map[K]V"}},
		{"def f(self, x: int = 1, *args) -> None:", "f", []string{"self", "x: int = 1", "*args"}},
		{"pub fn parse<T: Into<String>>(input: T, opts: Options) -> Result<T> {", "parse", []string{"input: T", "opts: Options"}},
		{"export const handler = async (event, ctx) => {", "handler", []string{"event", "ctx"}},
		{"public static Map<String, List<Integer>> group(List<Integer> xs, int n) {", "group", []string{"List<Integer> xs", "int n"}},
		{"def long_one(a,", "long_one", []string{"a"}},
		{"def greet", "greet", []string{}},
		{"function build {", "build", []string{}},
		{"deploy() {", "deploy", []string{}},
	}
	for _, tc := range cases {
		d := Definition(tc.line, 7)
		assert.Equal(t, tc.name, d.Name, tc.line)
		assert.Equal(t, tc.params, d.Parameters, tc.line)
		assert.Equal(t, tc.line, d.Definition)
		assert.Equal(t, 7, d.Line)
	}
}

func TestCountStructures(t *testing.T) {
	f, c := CountStructures(Ruby, "class A\n  def a\n  end\n  def b\n  end\nend\n")
	assert.Equal(t, 2, f)
	assert.Equal(t, 1, c)
}

func TestScan_OneDefinitionPerLine(t *testing.T) {
	f, c, _ := Scan(Python, "class A: pass; class B: pass\ndef a(): pass; def b(): pass\n")
	assert.Equal(t, 1, f)
	assert.Equal(t, 1, c)
}

func TestDialectForExtension(t *testing.T) {
	assert.Equal(t, Python, DialectForExtension(".py"))
	assert.Equal(t, Cpp, DialectForExtension(".hpp"))
	assert.Equal(t, types.Dialect(""), DialectForExtension(".md"))
	for ext, d := range extensionDialects {
		_, ok := Lookup(d)
		assert.True(t, ok, "no predicate table for %s (%s)", d, ext)
	}
}

func text(s string) *string { return &s }

func records() []types.FileRecord {
	return []types.FileRecord{
		{RelativePath: "src/main.py", Extension: ".py", Category: types.CategorySource, Dialect: Python, SizeBytes: 40,
			TextContent: text("def main():\n    # TODO: FIXME\n    pass\n")},
		{RelativePath: "config.yaml", Extension: ".yaml", Category: types.CategoryStructured, SizeBytes: 6,
			TextContent: text("a: 1\nb: 2\nc: 3\n")},
		{RelativePath: "big.bin", Extension: ".txt", Category: types.CategorySkipped, SizeBytes: 9000,
			SkipReason: types.ReasonTooLarge},
		{RelativePath: "Makefile", Category: types.CategoryEssential, SizeBytes: 10,
			TextContent: text("all:\n\tgo build\n\n")},
		{RelativePath: "empty.py", Extension: ".py", Category: types.CategorySource, Dialect: Python,
			TextContent: text("")},
	}
}

func run(recs []types.FileRecord) types.Statistics {
	acc := NewAccumulator(false)
	for i := range recs {
		Measure(&recs[i])
		acc.Add(&recs[i])
	}
	return acc.Finalize()
}

func TestAccumulator(t *testing.T) {
	recs := records()
	s := run(recs)

	assert.Equal(t, 5, s.TotalFiles)
	assert.Equal(t, 3+3+3+0, s.TotalLines)
	assert.Equal(t, 1, s.TotalFunctions)
	assert.Equal(t, 0, s.TotalClasses)
	assert.Equal(t, 1, s.TotalTodos)
	assert.Equal(t, int64(9056), s.TotalBytes)
	assert.Equal(t, 1, s.SkippedFiles)

	assert.Equal(t, map[string]int{".py": 2, ".yaml": 1, ".txt": 1, types.NoExtension: 1}, s.ExtensionHistogram)
	assert.Equal(t, 2, s.CategoryCounts[types.CategorySource])
	assert.Equal(t, 1, s.CategoryCounts[types.CategorySkipped])

	// ties keep the first file seen
	assert.Equal(t, types.FileLines{Path: "src/main.py", Lines: 3}, s.LargestFile)
	assert.Equal(t, types.FileLines{Path: "empty.py", Lines: 0}, s.SmallestFile)

	assert.Equal(t, 2.25, s.AverageFileLength)
	assert.Equal(t, 0.5, s.AverageFunctionsPerFile)

	assert.Equal(t, 3, recs[0].LineCount)
	assert.Equal(t, 1, recs[0].Todos)
	assert.Equal(t, 0, recs[2].LineCount)
}

func TestAccumulator_Idempotent(t *testing.T) {
	a := run(records())
	b := run(records())
	require.Equal(t, a, b)
	assert.Equal(t, a.Fields(), b.Fields())
}

func TestAccumulator_FinalizeCopiesMaps(t *testing.T) {
	acc := NewAccumulator(true)
	recs := records()
	Measure(&recs[0])
	acc.Add(&recs[0])
	s := acc.Finalize()
	acc.Add(&recs[1])
	assert.Equal(t, 1, s.TotalFiles)
	assert.Len(t, s.ExtensionHistogram, 1)
	assert.True(t, s.TokensCounted)
}
