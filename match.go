package xrm

// matchFlags records how one query position was satisfied by a database
// entry. The precedence comparison inspects these per position.
type matchFlags uint8

const (
	// flagName marks a position matched against the name query.
	flagName matchFlags = 1 << iota
	// flagClass marks a position matched against the class query.
	flagClass
	// flagWildcard marks a position consumed by a "?" component.
	flagWildcard
	// flagSkipped marks a position passed over by a loose binding.
	flagSkipped
	// flagLoose marks a position whose consuming component was loosely bound.
	flagLoose
)

const flagMatched = flagName | flagClass | flagWildcard

// positionFlags computes the flags for entry component c consuming query
// position qi, or reports false if the component cannot match there. A
// component equal to both the name and the class counts as a name match.
func positionFlags(c component, names, classes []string, qi int) (matchFlags, bool) {
	var f matchFlags
	if c.bind == bindLoose {
		f |= flagLoose
	}
	switch {
	case c.kind == compWildcard:
		f |= flagWildcard
	case c.name == names[qi]:
		f |= flagName
	case classes != nil && c.name == classes[qi]:
		f |= flagClass
	default:
		return 0, false
	}
	return f, true
}

// matchEntry checks whether entry e matches the full query and, if so,
// fills flags with one entry per query position. Loose bindings try the
// fewest skipped positions first, backtracking as needed. The entry must
// consume the query exactly; partial matches fail.
func matchEntry(e *entry, names, classes []string, flags []matchFlags) bool {
	n := len(names)
	var try func(ci, qi int) bool
	try = func(ci, qi int) bool {
		if ci == len(e.components) {
			return qi == n
		}
		c := e.components[ci]
		// A tight binding anchors the component at qi. A loose binding
		// may skip positions first, fewest skips tried first.
		limit := qi + 1
		if c.bind == bindLoose {
			limit = n
		}
		if limit > n {
			limit = n
		}
		for at := qi; at < limit; at++ {
			f, ok := positionFlags(c, names, classes, at)
			if !ok {
				continue
			}
			for j := qi; j < at; j++ {
				flags[j] = flagSkipped
			}
			flags[at] = f
			if try(ci+1, at+1) {
				return true
			}
		}
		return false
	}
	return try(0, 0)
}

// better reports whether candidate flags describe a strictly more specific
// match than the current best, comparing position by position:
//
//  1. Matching a position in any way beats skipping it.
//  2. A name match beats a class match, which beats a "?" wildcard.
//  3. A tightly bound match beats a loosely bound one.
//
// The first position where the two differ decides. Equal flags report
// false, so ties keep the earlier entry.
func better(n int, cand, best []matchFlags) bool {
	for i := 0; i < n; i++ {
		c, b := cand[i], best[i]
		if c == b {
			continue
		}
		if b&flagSkipped != 0 && c&flagMatched != 0 {
			return true
		}
		if c&flagSkipped != 0 && b&flagMatched != 0 {
			return false
		}
		if c&flagName != 0 && b&flagName == 0 {
			return true
		}
		if b&flagName != 0 && c&flagName == 0 {
			return false
		}
		if c&flagClass != 0 && b&flagWildcard != 0 {
			return true
		}
		if b&flagClass != 0 && c&flagWildcard != 0 {
			return false
		}
		if c&flagLoose == 0 && b&flagLoose != 0 {
			return true
		}
		if b&flagLoose == 0 && c&flagLoose != 0 {
			return false
		}
	}
	return false
}

// matchBest runs every database entry against the parsed name and class
// queries and returns the value of the most specific match. class may be
// nil, in which case only name and wildcard matches apply.
func matchBest(d *Database, name, class *entry) (string, bool) {
	n := name.numComponents()
	names := make([]string, n)
	for i, c := range name.components {
		names[i] = c.name
	}
	var classes []string
	if class != nil {
		classes = make([]string, n)
		for i, c := range class.components {
			classes[i] = c.name
		}
	}

	var bestEntry *entry
	var bestFlags []matchFlags
	for _, e := range d.entries {
		if len(e.components) > n {
			continue
		}
		flags := make([]matchFlags, n)
		if !matchEntry(e, names, classes, flags) {
			continue
		}
		if bestEntry == nil || better(n, flags, bestFlags) {
			bestEntry, bestFlags = e, flags
		}
	}
	if bestEntry == nil {
		return "", false
	}
	return bestEntry.value, true
}
