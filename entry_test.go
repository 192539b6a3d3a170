// FILE: xrm/entry_test.go
package xrm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseEntry verifies database line parsing across binding styles
func TestParseEntry(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		components []component
		value      string
	}{
		{
			name:  "tight chain",
			input: "xterm.vt100.background: blue",
			components: []component{
				{kind: compNamed, bind: bindTight, name: "xterm"},
				{kind: compNamed, bind: bindTight, name: "vt100"},
				{kind: compNamed, bind: bindTight, name: "background"},
			},
			value: "blue",
		},
		{
			name:  "loose binding",
			input: "xterm*background: blue",
			components: []component{
				{kind: compNamed, bind: bindTight, name: "xterm"},
				{kind: compNamed, bind: bindLoose, name: "background"},
			},
			value: "blue",
		},
		{
			name:  "leading loose binding",
			input: "*background: blue",
			components: []component{
				{kind: compNamed, bind: bindLoose, name: "background"},
			},
			value: "blue",
		},
		{
			name:  "single component wildcard",
			input: "xterm.?.background: blue",
			components: []component{
				{kind: compNamed, bind: bindTight, name: "xterm"},
				{kind: compWildcard, bind: bindTight},
				{kind: compNamed, bind: bindTight, name: "background"},
			},
			value: "blue",
		},
		{
			name:  "loosely bound wildcard",
			input: "xterm*?*background: blue",
			components: []component{
				{kind: compNamed, bind: bindTight, name: "xterm"},
				{kind: compWildcard, bind: bindLoose},
				{kind: compNamed, bind: bindLoose, name: "background"},
			},
			value: "blue",
		},
		{
			name:  "collapsed tight run",
			input: "a..b: v",
			components: []component{
				{kind: compNamed, bind: bindTight, name: "a"},
				{kind: compNamed, bind: bindTight, name: "b"},
			},
			value: "v",
		},
		{
			name:  "run with star collapses to loose",
			input: "a.*.b: v",
			components: []component{
				{kind: compNamed, bind: bindTight, name: "a"},
				{kind: compNamed, bind: bindLoose, name: "b"},
			},
			value: "v",
		},
		{
			name:  "underscore and dash in names",
			input: "my-app.main_window.width: 400",
			components: []component{
				{kind: compNamed, bind: bindTight, name: "my-app"},
				{kind: compNamed, bind: bindTight, name: "main_window"},
				{kind: compNamed, bind: bindTight, name: "width"},
			},
			value: "400",
		},
		{
			name:  "empty value",
			input: "a.b:",
			components: []component{
				{kind: compNamed, bind: bindTight, name: "a"},
				{kind: compNamed, bind: bindTight, name: "b"},
			},
			value: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e, err := parseEntry(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.components, e.components)
			assert.Equal(t, tc.value, e.value)
		})
	}
}

// TestParseEntryValues verifies whitespace handling and escape decoding
func TestParseEntryValues(t *testing.T) {
	tests := []struct {
		name  string
		input string
		value string
	}{
		{"leading blanks stripped", "a.b: \t  hello", "hello"},
		{"trailing blanks kept", "a.b: hello  ", "hello  "},
		{"interior blanks kept", "a.b: hello there world", "hello there world"},
		{"colon in value", "a.b: 12:34:56", "12:34:56"},
		{"newline escape", `a.b: line\nnext`, "line\nnext"},
		{"backslash escape", `a.b: back\\slash`, `back\slash`},
		{"octal escape", `a.b: \040padded`, " padded"},
		{"octal tab", `a.b: \011x`, "\tx"},
		{"short octal kept verbatim", `a.b: \12`, `\12`},
		{"unknown escape kept verbatim", `a.b: not\qescape`, `not\qescape`},
		{"trailing backslash kept", `a.b: dangling\`, `dangling\`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e, err := parseEntry(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.value, e.value)
		})
	}
}

// TestParseEntryErrors verifies rejection of malformed database lines
func TestParseEntryErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing separator", "xterm.background"},
		{"empty input", ""},
		{"no components", ": blue"},
		{"trailing tight binding", "xterm.: blue"},
		{"trailing loose binding", "xterm*: blue"},
		{"space in name", "xt erm.background: blue"},
		{"wildcard glued to name", "a?b: v"},
		{"name glued to wildcard", "?x.b: v"},
		{"double wildcard", "??: v"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e, err := parseEntry(tc.input)
			assert.Error(t, err)
			assert.Nil(t, e)
		})
	}
}

// TestParseQuery verifies strict parsing of fully specified queries
func TestParseQuery(t *testing.T) {
	e, err := parseQuery("xterm.vt100.background")
	require.NoError(t, err)
	require.Equal(t, 3, e.numComponents())
	assert.Equal(t, []component{
		{kind: compNamed, bind: bindTight, name: "xterm"},
		{kind: compNamed, bind: bindTight, name: "vt100"},
		{kind: compNamed, bind: bindTight, name: "background"},
	}, e.components)
	assert.Empty(t, e.value)

	single, err := parseQuery("background")
	require.NoError(t, err)
	assert.Equal(t, 1, single.numComponents())
}

// TestParseQueryErrors verifies that queries reject every pattern construct
func TestParseQueryErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"loose binding", "xterm*background"},
		{"wildcard", "xterm.?.background"},
		{"leading separator", ".background"},
		{"empty component", "a..b"},
		{"trailing separator", "a.b."},
		{"value part", "a.b: blue"},
		{"lone separator", "."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e, err := parseQuery(tc.input)
			assert.Error(t, err)
			assert.Nil(t, e)
		})
	}
}

// TestEntryString verifies serialization round-trips through the parser
func TestEntryString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"tight chain", "xterm.vt100.background: blue", "xterm.vt100.background: blue"},
		{"loose and wildcard", "xterm*?.background: blue", "xterm*?.background: blue"},
		{"collapsed run normalized", "a.*.b: v", "a*b: v"},
		{"empty value", "a.b:", "a.b: "},
		{"newline escaped", `a.b: one\ntwo`, `a.b: one\ntwo`},
		{"backslash escaped", `a.b: c:\\dir`, `a.b: c:\\dir`},
		{"leading blank escaped", `a.b: \040x`, `a.b: \040x`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e, err := parseEntry(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, e.String())

			// Reparsing the serialized form preserves the entry.
			again, err := parseEntry(e.String())
			require.NoError(t, err)
			assert.Equal(t, e.components, again.components)
			assert.Equal(t, e.value, again.value)
		})
	}
}

// TestComponentsEqual verifies chain identity checks used for replacement
func TestComponentsEqual(t *testing.T) {
	a, err := parseEntry("x.y*z: 1")
	require.NoError(t, err)
	b, err := parseEntry("x.y*z: 2")
	require.NoError(t, err)
	c, err := parseEntry("x.y.z: 1")
	require.NoError(t, err)
	d, err := parseEntry("x.y: 1")
	require.NoError(t, err)

	assert.True(t, componentsEqual(a.components, b.components))
	assert.False(t, componentsEqual(a.components, c.components))
	assert.False(t, componentsEqual(a.components, d.components))
}
