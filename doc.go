// File: xrm/doc.go

// Package xrm implements the X resource manager database format: the
// dotted, hierarchical key-value syntax of ~/.Xresources and .Xdefaults
// files, with pattern entries matched against fully specified queries.
//
// Features:
//   - Resource file parsing with comments, #include, and line continuations
//   - Tight (".") and loose ("*") bindings plus the "?" component wildcard
//   - Name and class queries with the standard precedence rules
//   - Loaders for resource files, strings, maps, TOML, JSON, and YAML
//   - Typed value access with legacy sentinel or error-based semantics
//   - Struct scanning with tag support via mapstructure
//   - Builder pattern for layering several sources
//
// Quick Start:
//
//	db, err := xrm.DatabaseFromString(`
//	xterm.vt100.background: dark blue
//	*foreground: gray90
//	Xft.dpi: 96
//	`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := db.Query("xterm.vt100.background", "XTerm.VT100.Background")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if value, ok := res.Value(); ok {
//	    fmt.Println(value) // dark blue
//	}
//
//	dpi, _ := db.GetInt64("Xft.dpi", "")
//
// Matching:
// A query names one concrete resource, "xterm.vt100.background", with an
// optional class of the same depth, "XTerm.VT100.Background". Database
// entries are patterns; when several match, the most specific wins:
// matching a component beats skipping it, a name match beats a class
// match beats "?", and a tight binding beats a loose one, decided at the
// first component where candidates differ.
//
// Concurrency:
// A Database is not synchronized. Share it read-only across goroutines
// once loading is finished, or guard mutation externally.
package xrm
