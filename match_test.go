package xrm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDatabase(t *testing.T, lines ...string) *Database {
	t.Helper()
	d := NewDatabase()
	for _, line := range lines {
		e, err := parseEntry(line)
		require.NoError(t, err)
		d.put(e)
	}
	return d
}

func testMatch(t *testing.T, d *Database, name, class string) (string, bool) {
	t.Helper()
	qName, err := parseQuery(name)
	require.NoError(t, err)
	var qClass *entry
	if class != "" {
		qClass, err = parseQuery(class)
		require.NoError(t, err)
	}
	return matchBest(d, qName, qClass)
}

// TestMatchBindings verifies tight and loose binding semantics
func TestMatchBindings(t *testing.T) {
	t.Run("tight requires adjacency", func(t *testing.T) {
		d := testDatabase(t, "xterm.background: blue")
		_, ok := testMatch(t, d, "xterm.vt100.background", "")
		assert.False(t, ok)

		value, ok := testMatch(t, d, "xterm.background", "")
		require.True(t, ok)
		assert.Equal(t, "blue", value)
	})

	t.Run("loose skips any depth", func(t *testing.T) {
		d := testDatabase(t, "xterm*background: blue")
		for _, name := range []string{
			"xterm.background",
			"xterm.vt100.background",
			"xterm.a.b.c.background",
		} {
			value, ok := testMatch(t, d, name, "")
			require.True(t, ok, "query %s", name)
			assert.Equal(t, "blue", value)
		}
	})

	t.Run("first component is anchored", func(t *testing.T) {
		d := testDatabase(t, "background: blue")
		_, ok := testMatch(t, d, "xterm.background", "")
		assert.False(t, ok)
	})

	t.Run("leading loose floats", func(t *testing.T) {
		d := testDatabase(t, "*background: blue")
		value, ok := testMatch(t, d, "xterm.vt100.background", "")
		require.True(t, ok)
		assert.Equal(t, "blue", value)
	})

	t.Run("entry must consume whole query", func(t *testing.T) {
		d := testDatabase(t, "xterm.vt100: blue")
		_, ok := testMatch(t, d, "xterm.vt100.background", "")
		assert.False(t, ok)
	})

	t.Run("longer entry never matches", func(t *testing.T) {
		d := testDatabase(t, "xterm.vt100.background.extra: blue")
		_, ok := testMatch(t, d, "xterm.vt100.background", "")
		assert.False(t, ok)
	})
}

// TestMatchWildcard verifies that "?" consumes exactly one component
func TestMatchWildcard(t *testing.T) {
	d := testDatabase(t, "?.background: blue")

	for _, name := range []string{"xterm.background", "emacs.background"} {
		value, ok := testMatch(t, d, name, "")
		require.True(t, ok, "query %s", name)
		assert.Equal(t, "blue", value)
	}

	_, ok := testMatch(t, d, "background", "")
	assert.False(t, ok, "wildcard must consume a component")

	_, ok = testMatch(t, d, "xterm.vt100.background", "")
	assert.False(t, ok, "wildcard consumes exactly one component")
}

// TestMatchClass verifies class-based matching with positional pairing
func TestMatchClass(t *testing.T) {
	d := testDatabase(t, "XTerm.VT100.Background: blue")

	_, ok := testMatch(t, d, "xterm.vt100.background", "")
	assert.False(t, ok, "no class given, entry names differ")

	value, ok := testMatch(t, d, "xterm.vt100.background", "XTerm.VT100.Background")
	require.True(t, ok)
	assert.Equal(t, "blue", value)

	// Name and class may satisfy different positions of one entry.
	mixed := testDatabase(t, "xterm.VT100.background: green")
	value, ok = testMatch(t, mixed, "xterm.vt100.background", "XTerm.VT100.Background")
	require.True(t, ok)
	assert.Equal(t, "green", value)
}

// TestMatchPrecedence verifies the ordered precedence rules between entries
func TestMatchPrecedence(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		query string
		class string
		want  string
	}{
		{
			name:  "match beats skip",
			lines: []string{"a*c: viaskip", "a.?.c: viawild"},
			query: "a.b.c",
			class: "A.B.C",
			want:  "viawild",
		},
		{
			name:  "name beats class",
			lines: []string{"a.B.c: viaclass", "a.b.c: vianame"},
			query: "a.b.c",
			class: "A.B.C",
			want:  "vianame",
		},
		{
			name:  "class beats wildcard",
			lines: []string{"a.?.c: viawild", "a.B.c: viaclass"},
			query: "a.b.c",
			class: "A.B.C",
			want:  "viaclass",
		},
		{
			name:  "tight beats loose",
			lines: []string{"a*b.c: vialoose", "a.b.c: viatight"},
			query: "a.b.c",
			class: "A.B.C",
			want:  "viatight",
		},
		{
			name:  "earlier position decides",
			lines: []string{"*b.c: latername", "a*c: earliername"},
			query: "a.b.c",
			class: "A.B.C",
			want:  "earliername",
		},
		{
			name: "classic specificity ladder",
			lines: []string{
				"*background: generic",
				"*vt100.background: middle",
				"xterm.vt100.background: exact",
			},
			query: "xterm.vt100.background",
			class: "XTerm.VT100.Background",
			want:  "exact",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Insertion order must not affect the outcome, so run the
			// comparison with the lines reversed as well.
			value, ok := testMatch(t, testDatabase(t, tc.lines...), tc.query, tc.class)
			require.True(t, ok)
			assert.Equal(t, tc.want, value)

			reversed := make([]string, 0, len(tc.lines))
			for i := len(tc.lines) - 1; i >= 0; i-- {
				reversed = append(reversed, tc.lines[i])
			}
			value, ok = testMatch(t, testDatabase(t, reversed...), tc.query, tc.class)
			require.True(t, ok)
			assert.Equal(t, tc.want, value)
		})
	}
}

// TestMatchEntryFlags verifies per-position bookkeeping for a loose match
func TestMatchEntryFlags(t *testing.T) {
	e, err := parseEntry("a*d: v")
	require.NoError(t, err)

	names := []string{"a", "b", "c", "d"}
	flags := make([]matchFlags, len(names))
	require.True(t, matchEntry(e, names, nil, flags))
	assert.Equal(t, []matchFlags{
		flagName,
		flagSkipped,
		flagSkipped,
		flagName | flagLoose,
	}, flags)
}

// TestBetter verifies the flag comparison directly, including exact ties
func TestBetter(t *testing.T) {
	name := []matchFlags{flagName, flagName}
	class := []matchFlags{flagName, flagClass}
	wild := []matchFlags{flagName, flagWildcard}
	skipped := []matchFlags{flagName, flagSkipped}
	looseName := []matchFlags{flagName, flagName | flagLoose}

	assert.True(t, better(2, name, class))
	assert.False(t, better(2, class, name))
	assert.True(t, better(2, class, wild))
	assert.True(t, better(2, wild, skipped))
	assert.True(t, better(2, name, looseName))
	assert.False(t, better(2, looseName, name))

	// Equal flags are not better, so the earlier entry is kept.
	assert.False(t, better(2, name, name))
}

// TestMatchBacktracking verifies loose bindings reconsider their skip count
func TestMatchBacktracking(t *testing.T) {
	// The first "b" cannot anchor the match because the tail would not
	// fit, so the matcher must retry with a longer skip.
	d := testDatabase(t, "*b.c: v")
	value, ok := testMatch(t, d, "b.x.b.c", "")
	require.True(t, ok)
	assert.Equal(t, "v", value)
}
