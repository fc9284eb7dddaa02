package stats

import (
	"regexp"
	"strings"

	"github.com/Sarakael78/DoctorCodebase/internal/types"
)

var (
	reArrowName = regexp.MustCompile(`^(?:export\s+)?(?:const|let|var)\s+([A-Za-z_$][\w$]*)`)
	reIdentTail = regexp.MustCompile(`([A-Za-z_$~][\w$:~.]*)\s*$`)
)

// Definition describes the function defined on line, the 1-based line
// number n. line is a definition line with surrounding whitespace removed.
func Definition(line string, n int) types.FunctionDef {
	name, rest := definitionName(line)
	return types.FunctionDef{
		Name:       name,
		Line:       n,
		Parameters: parameters(rest, name),
		Definition: line,
	}
}

// definitionName returns the defined name and the line with any Go method
// receiver removed.
func definitionName(line string) (string, string) {
	if m := reArrowName.FindStringSubmatch(line); m != nil {
		return m[1], line
	}

	rest := line
	if strings.HasPrefix(rest, "func (") {
		open := len("func ")
		if end := closing(rest, open); end > 0 {
			rest = "func " + strings.TrimSpace(rest[end+1:])
		}
	}

	if i := strings.IndexByte(rest, '('); i > 0 {
		head := strings.TrimSpace(rest[:i])
		// generic parameter lists: fn parse<T>(, func Map[K, V any](
		for _, br := range []string{"<>", "[]"} {
			if strings.HasSuffix(head, br[1:]) {
				if j := strings.IndexByte(head, br[0]); j > 0 {
					head = strings.TrimSpace(head[:j])
				}
			}
		}
		if m := reIdentTail.FindStringSubmatch(head); m != nil {
			return m[1], rest
		}
	}

	// def name / function name { without a parameter list
	fields := strings.Fields(strings.TrimRight(rest, "{:; \t"))
	if len(fields) == 0 {
		return "", rest
	}
	return fields[len(fields)-1], rest
}

// parameters splits the parameter list that follows name on the line at
// top-level commas. An unterminated list yields the parameters up to the end
// of the line.
func parameters(line, name string) []string {
	params := []string{}
	from := 0
	if name != "" {
		if i := strings.Index(line, name); i >= 0 {
			from = i + len(name)
		}
	}
	open := strings.IndexByte(line[from:], '(')
	if open < 0 {
		return params
	}
	open += from

	list := line[open+1:]
	if end := closing(line, open); end > 0 {
		list = line[open+1 : end]
	}

	depth, start := 0, 0
	flush := func(end int) {
		if p := strings.TrimSpace(list[start:end]); p != "" {
			params = append(params, p)
		}
	}
	for i := 0; i < len(list); i++ {
		switch list[i] {
		case '(', '[', '{', '<':
			depth++
		case ')', ']', '}', '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				flush(i)
				start = i + 1
			}
		}
	}
	flush(len(list))
	return params
}

// closing returns the index of the parenthesis matching the one at open, or
// -1 when the line ends first.
func closing(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
