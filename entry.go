// FILE: xrm/entry.go
package xrm

import (
	"fmt"
	"strings"
)

// binding describes how a component is chained to the one before it.
type binding int

const (
	// bindTight requires the component to immediately follow its
	// predecessor in the queried hierarchy (".").
	bindTight binding = iota
	// bindLoose allows any number of intermediate components ("*").
	bindLoose
)

// componentKind distinguishes literal component names from the
// single-component wildcard.
type componentKind int

const (
	compNamed    componentKind = iota
	compWildcard               // "?"
)

// component is one hierarchical segment of a resource name, class, or query.
type component struct {
	kind componentKind
	bind binding
	name string
}

// entry is a parsed resource line: an ordered component chain plus, for
// database entries, the associated value. Queries reuse the same shape
// with an empty value.
type entry struct {
	components []component
	value      string
}

// numComponents returns the number of hierarchical components.
func (e *entry) numComponents() int {
	return len(e.components)
}

// parseEntry parses a single database line of the form
//
//	name-pattern: value
//
// The name pattern may contain loose bindings ("*") and single-component
// wildcards ("?"). Runs of consecutive binding characters collapse into
// one binding, loose if the run contains at least one "*". The value
// begins after the first colon, with leading spaces and tabs stripped and
// escape sequences decoded.
func parseEntry(s string) (*entry, error) {
	return parse(s, false)
}

// parseQuery parses a fully specified query string such as
// "xterm.vt100.background". Queries name exactly one resource, so
// wildcards, loose bindings, empty components, and values are rejected.
func parseQuery(s string) (*entry, error) {
	return parse(s, true)
}

func parse(s string, query bool) (*entry, error) {
	e := &entry{}
	bind := bindTight
	inRun := false     // scanning a run of binding characters
	afterWild := false // previous component was "?", separator required
	var buf strings.Builder

	flush := func() {
		e.components = append(e.components, component{
			kind: compNamed,
			bind: bind,
			name: buf.String(),
		})
		buf.Reset()
		bind = bindTight
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case isNameByte(c):
			if afterWild {
				return nil, fmt.Errorf("wildcard must be followed by a binding at position %d", i)
			}
			inRun = false
			buf.WriteByte(c)

		case c == '.':
			if buf.Len() > 0 {
				flush()
			} else if query {
				// Strict mode: every component must be named, so a
				// separator with nothing before it is an error.
				return nil, fmt.Errorf("empty component at position %d", i)
			}
			// Within a run an earlier "*" keeps the binding loose.
			inRun = true
			afterWild = false

		case c == '*':
			if query {
				return nil, fmt.Errorf("loose binding '*' not allowed in a query at position %d", i)
			}
			if buf.Len() > 0 {
				flush()
			}
			bind = bindLoose
			inRun = true
			afterWild = false

		case c == '?':
			if query {
				return nil, fmt.Errorf("wildcard '?' not allowed in a query at position %d", i)
			}
			if buf.Len() > 0 || afterWild {
				return nil, fmt.Errorf("wildcard must be a whole component at position %d", i)
			}
			e.components = append(e.components, component{kind: compWildcard, bind: bind})
			bind = bindTight
			inRun = false
			afterWild = true

		case c == ':':
			if query {
				return nil, fmt.Errorf("value not allowed in a query at position %d", i)
			}
			if buf.Len() > 0 {
				flush()
			} else if inRun {
				return nil, fmt.Errorf("trailing binding before value at position %d", i)
			}
			if len(e.components) == 0 {
				return nil, fmt.Errorf("entry has no components before value at position %d", i)
			}
			e.value = decodeValue(strings.TrimLeft(s[i+1:], " \t"))
			return e, nil

		default:
			return nil, fmt.Errorf("invalid character %q at position %d", c, i)
		}
	}

	if !query {
		return nil, fmt.Errorf("entry is missing ':' value separator")
	}
	if buf.Len() > 0 {
		flush()
	} else if inRun {
		return nil, fmt.Errorf("query has a trailing separator")
	}
	if len(e.components) == 0 {
		return nil, fmt.Errorf("query is empty")
	}
	return e, nil
}

// isNameByte reports whether c may appear in a component name.
func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '_' || c == '-'
}

func isOctalByte(c byte) bool {
	return c >= '0' && c <= '7'
}

// decodeValue resolves the escape sequences permitted in resource values:
// "\\" for a backslash, "\n" for a newline, and "\nnn" for an arbitrary
// byte given as exactly three octal digits. Unrecognized sequences are
// kept verbatim.
func decodeValue(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		switch {
		case i+1 < len(s) && s[i+1] == '\\':
			b.WriteByte('\\')
			i++
		case i+1 < len(s) && s[i+1] == 'n':
			b.WriteByte('\n')
			i++
		case i+3 < len(s) && isOctalByte(s[i+1]) && isOctalByte(s[i+2]) && isOctalByte(s[i+3]):
			b.WriteByte((s[i+1]-'0')<<6 | (s[i+2]-'0')<<3 | (s[i+3] - '0'))
			i += 3
		default:
			b.WriteByte('\\')
		}
	}
	return b.String()
}

// escapeValue is the inverse of decodeValue, used when serializing a
// database back to text. Backslashes and newlines are always escaped;
// leading blanks are escaped in octal so they survive a reparse, which
// strips unescaped leading whitespace from values.
func escapeValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			b.WriteString(`\\`)
		case c == '\n':
			b.WriteString(`\n`)
		case i == 0 && c == ' ':
			b.WriteString(`\040`)
		case i == 0 && c == '\t':
			b.WriteString(`\011`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// String reassembles the textual form of the entry. Parsing the result
// yields an equivalent entry, though collapsed binding runs from the
// original input are not restored.
func (e *entry) String() string {
	var b strings.Builder
	for i, c := range e.components {
		if c.bind == bindLoose {
			b.WriteByte('*')
		} else if i > 0 {
			b.WriteByte('.')
		}
		if c.kind == compWildcard {
			b.WriteByte('?')
		} else {
			b.WriteString(c.name)
		}
	}
	b.WriteString(": ")
	b.WriteString(escapeValue(e.value))
	return b.String()
}

// componentsEqual reports whether two component chains are identical in
// names, kinds, and bindings. The database uses it to detect that a new
// entry replaces an existing one.
func componentsEqual(a, b []component) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
