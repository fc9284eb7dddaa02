package stats

import (
	"regexp"
	"strings"

	"github.com/Sarakael78/DoctorCodebase/internal/types"
)

// LinePredicate reports whether a single line, with leading whitespace
// already removed, starts a definition.
type LinePredicate func(line string) bool

// Dialect is the set of line predicates used to recognise function and
// class-like definitions and import statements in one source language.
//
// Recognition is a heuristic over single lines. A line holding two
// definitions counts once, and a signature split across lines only counts if
// its first line matches.
type Dialect struct {
	Name        types.Dialect
	Functions   []LinePredicate
	Classes     []LinePredicate
	Imports     []LinePredicate
	ImportBlock ImportBlock
}

// ImportBlock describes a parenthesised multi-line import group such as Go's
// "import (". Each line up to the closing parenthesis is one import and is
// reported prefixed with Keyword.
type ImportBlock struct {
	Open    string
	Keyword string
}

// Dialect names.
const (
	Go         types.Dialect = "go"
	Python     types.Dialect = "python"
	JavaScript types.Dialect = "javascript"
	TypeScript types.Dialect = "typescript"
	Java       types.Dialect = "java"
	Kotlin     types.Dialect = "kotlin"
	Scala      types.Dialect = "scala"
	CSharp     types.Dialect = "csharp"
	C          types.Dialect = "c"
	Cpp        types.Dialect = "cpp"
	Ruby       types.Dialect = "ruby"
	Rust       types.Dialect = "rust"
	PHP        types.Dialect = "php"
	Swift      types.Dialect = "swift"
	Lua        types.Dialect = "lua"
	Dart       types.Dialect = "dart"
	Shell      types.Dialect = "shell"
)

var extensionDialects = map[string]types.Dialect{
	".go":    Go,
	".py":    Python,
	".pyw":   Python,
	".js":    JavaScript,
	".jsx":   JavaScript,
	".mjs":   JavaScript,
	".cjs":   JavaScript,
	".ts":    TypeScript,
	".tsx":   TypeScript,
	".java":  Java,
	".kt":    Kotlin,
	".kts":   Kotlin,
	".scala": Scala,
	".cs":    CSharp,
	".c":     C,
	".h":     C,
	".cc":    Cpp,
	".cpp":   Cpp,
	".cxx":   Cpp,
	".hpp":   Cpp,
	".hh":    Cpp,
	".rb":    Ruby,
	".rs":    Rust,
	".php":   PHP,
	".swift": Swift,
	".lua":   Lua,
	".dart":  Dart,
	".sh":    Shell,
	".bash":  Shell,
	".zsh":   Shell,
}

// DialectForExtension maps a lower-cased extension to its dialect, or "".
func DialectForExtension(ext string) types.Dialect { return extensionDialects[ext] }

var (
	jvmModifiers = []string{"public", "private", "protected", "internal", "static", "final", "abstract",
		"sealed", "open", "data", "inline", "override", "suspend", "synchronized", "native", "default",
		"virtual", "async", "partial", "unsafe", "extern", "readonly", "new", "case", "implicit", "lazy"}
	jsModifiers    = []string{"export", "default", "declare", "abstract", "async"}
	rustModifiers  = []string{"pub(crate)", "pub(super)", "pub", "async", "const", "unsafe", "extern"}
	swiftModifiers = []string{"public", "private", "fileprivate", "internal", "open", "static", "final",
		"override", "mutating", "@objc", "@MainActor"}
	phpModifiers = []string{"public", "private", "protected", "static", "final", "abstract", "readonly"}

	// return type, name, parameter list opening; no trailing semicolon on the line
	reJVMMethod = regexp.MustCompile(`^(?:[A-Za-z_][\w<>\[\],.?]*\s+)+[A-Za-z_]\w*\s*\([^;]*$`)
	reCFunction = regexp.MustCompile(`^(?:[A-Za-z_][\w:<>,*&]*\s+[*&]*)+~?[A-Za-z_][\w:~]*\s*\([^;]*\)\s*(?:const\s*)?(?:noexcept\s*)?\{?\s*$`)
	reJSArrow   = regexp.MustCompile(`^(?:export\s+)?(?:const|let|var)\s+[A-Za-z_$][\w$]*\s*(?::[^=]+)?=\s*(?:async\s+)?(?:\([^)]*\)|[A-Za-z_$][\w$]*)\s*(?::[^=]+)?=>`)
	reShellFunc = regexp.MustCompile(`^(?:function\s+[A-Za-z_][\w-]*|[A-Za-z_][\w-]*\s*\(\s*\))\s*\{?`)
	reCStruct   = regexp.MustCompile(`^(?:typedef\s+)?(?:struct|union|enum)\s+[A-Za-z_]\w*\s*\{?\s*$`)
	reGoType    = regexp.MustCompile(`^type\s+[A-Za-z_]\w*(?:\[[^\]]*\])?\s+(?:struct|interface)\b`)

	reJSRequire  = regexp.MustCompile(`^(?:const|let|var)\s+.+=\s*require\s*\(`)
	reCSUsing    = regexp.MustCompile(`^(?:global\s+)?using\s+(?:static\s+)?[A-Za-z_][\w.]*(?:\s*=\s*[\w.<>]+)?\s*;`)
	reCInclude   = regexp.MustCompile(`^#\s*include\s*[<"]`)
	reLuaRequire = regexp.MustCompile(`^(?:local\s+[\w,\s]+=\s*)?require\s*[("']`)
	reShellSrc   = regexp.MustCompile(`^(?:source|\.)\s+\S`)
)

var controlKeywords = []string{"if", "else", "for", "while", "switch", "return", "catch", "do", "new", "throw", "case", "sizeof", "elif"}

var dialects = map[types.Dialect]Dialect{
	Go: {
		Name:        Go,
		Functions:   []LinePredicate{keyword("func")},
		Classes:     []LinePredicate{reGoType.MatchString},
		Imports:     []LinePredicate{keyword("import")},
		ImportBlock: ImportBlock{Open: "import (", Keyword: "import"},
	},
	Python: {
		Name:      Python,
		Functions: []LinePredicate{keyword("def"), keyword("async def")},
		Classes:   []LinePredicate{keyword("class")},
		Imports:   []LinePredicate{keyword("import", "from")},
	},
	JavaScript: {
		Name:      JavaScript,
		Functions: []LinePredicate{modified(jsModifiers, "function", "function*"), reJSArrow.MatchString},
		Classes:   []LinePredicate{modified(jsModifiers, "class")},
		Imports:   []LinePredicate{keyword("import"), reJSRequire.MatchString},
	},
	TypeScript: {
		Name:      TypeScript,
		Functions: []LinePredicate{modified(jsModifiers, "function", "function*"), reJSArrow.MatchString},
		Classes:   []LinePredicate{modified(jsModifiers, "class", "interface", "enum")},
		Imports:   []LinePredicate{keyword("import"), reJSRequire.MatchString},
	},
	Java: {
		Name:      Java,
		Functions: []LinePredicate{method(reJVMMethod)},
		Classes:   []LinePredicate{modified(jvmModifiers, "class", "interface", "enum", "record", "@interface")},
		Imports:   []LinePredicate{keyword("import")},
	},
	Kotlin: {
		Name:      Kotlin,
		Functions: []LinePredicate{modified(jvmModifiers, "fun")},
		Classes:   []LinePredicate{modified(jvmModifiers, "class", "interface", "object", "enum class")},
		Imports:   []LinePredicate{keyword("import")},
	},
	Scala: {
		Name:      Scala,
		Functions: []LinePredicate{modified(jvmModifiers, "def")},
		Classes:   []LinePredicate{modified(jvmModifiers, "class", "object", "trait")},
		Imports:   []LinePredicate{keyword("import")},
	},
	CSharp: {
		Name:      CSharp,
		Functions: []LinePredicate{method(reJVMMethod)},
		Classes:   []LinePredicate{modified(jvmModifiers, "class", "interface", "struct", "enum", "record")},
		Imports:   []LinePredicate{reCSUsing.MatchString},
	},
	C: {
		Name:      C,
		Functions: []LinePredicate{method(reCFunction)},
		Classes:   []LinePredicate{reCStruct.MatchString},
		Imports:   []LinePredicate{reCInclude.MatchString},
	},
	Cpp: {
		Name:      Cpp,
		Functions: []LinePredicate{method(reCFunction)},
		Classes:   []LinePredicate{modified([]string{"template<>"}, "class", "struct"), reCStruct.MatchString},
		Imports:   []LinePredicate{reCInclude.MatchString, keyword("import")},
	},
	Ruby: {
		Name:      Ruby,
		Functions: []LinePredicate{keyword("def")},
		Classes:   []LinePredicate{keyword("class"), keyword("module")},
		Imports:   []LinePredicate{keyword("require", "require_relative")},
	},
	Rust: {
		Name:      Rust,
		Functions: []LinePredicate{modified(rustModifiers, "fn")},
		Classes:   []LinePredicate{modified(rustModifiers, "struct", "enum", "trait", "union")},
		Imports:   []LinePredicate{modified([]string{"pub(crate)", "pub(super)", "pub"}, "use", "extern crate")},
	},
	PHP: {
		Name:      PHP,
		Functions: []LinePredicate{modified(phpModifiers, "function")},
		Classes:   []LinePredicate{modified(phpModifiers, "class", "interface", "trait", "enum")},
		Imports:   []LinePredicate{keyword("use", "require", "require_once", "include", "include_once")},
	},
	Swift: {
		Name:      Swift,
		Functions: []LinePredicate{modified(swiftModifiers, "func", "init")},
		Classes:   []LinePredicate{modified(swiftModifiers, "class", "struct", "enum", "protocol", "actor")},
		Imports:   []LinePredicate{modified([]string{"@testable"}, "import")},
	},
	Lua: {
		Name:      Lua,
		Functions: []LinePredicate{modified([]string{"local"}, "function")},
		Imports:   []LinePredicate{reLuaRequire.MatchString},
	},
	Dart: {
		Name:      Dart,
		Functions: []LinePredicate{method(reJVMMethod)},
		Classes:   []LinePredicate{modified([]string{"abstract", "base", "final", "sealed"}, "class", "mixin", "enum")},
		Imports:   []LinePredicate{keyword("import", "export")},
	},
	Shell: {
		Name:      Shell,
		Functions: []LinePredicate{reShellFunc.MatchString},
		Imports:   []LinePredicate{reShellSrc.MatchString},
	},
}

// Lookup returns the predicate table for d. The zero Dialect, which matches
// nothing, is returned for unknown names.
func Lookup(d types.Dialect) (Dialect, bool) {
	dl, ok := dialects[d]
	return dl, ok
}

// Match reports whether any predicate accepts line. Leading whitespace is
// ignored.
func Match(preds []LinePredicate, line string) bool {
	line = strings.TrimLeft(line, " \t")
	if line == "" {
		return false
	}
	for _, p := range preds {
		if p(line) {
			return true
		}
	}
	return false
}

// keyword matches lines starting with one of kws followed by a space or an
// opening parenthesis.
func keyword(kws ...string) LinePredicate {
	return func(line string) bool {
		for _, kw := range kws {
			if startsWithWord(line, kw) {
				return true
			}
		}
		return false
	}
}

// modified is keyword after any run of leading modifier words.
func modified(mods []string, kws ...string) LinePredicate {
	match := keyword(kws...)
	return func(line string) bool {
		for {
			if match(line) {
				return true
			}
			rest, ok := stripModifier(line, mods)
			if !ok {
				return false
			}
			line = rest
		}
	}
}

// method applies re to lines that do not start with a control-flow keyword.
func method(re *regexp.Regexp) LinePredicate {
	return func(line string) bool {
		for _, kw := range controlKeywords {
			if startsWithWord(line, kw) {
				return false
			}
		}
		if strings.HasPrefix(line, "//") || strings.HasPrefix(line, "*") || strings.HasPrefix(line, "#") {
			return false
		}
		return re.MatchString(line)
	}
}

func stripModifier(line string, mods []string) (string, bool) {
	for _, m := range mods {
		if startsWithWord(line, m) {
			return strings.TrimLeft(line[len(m):], " \t"), true
		}
	}
	return line, false
}

func startsWithWord(line, word string) bool {
	if !strings.HasPrefix(line, word) {
		return false
	}
	if len(line) == len(word) {
		return false
	}
	switch line[len(word)] {
	case ' ', '\t', '(', '*', '<':
		return true
	}
	return false
}
