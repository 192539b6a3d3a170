package xrm

import "errors"

// Sentinel errors returned by database loading and resource queries.
// Callers should match them with errors.Is since most are returned
// wrapped with additional context.
var (
	// ErrEmptyDatabase is returned by Query and the typed Get helpers when
	// the database is nil or contains no entries.
	ErrEmptyDatabase = errors.New("database is nil or empty")

	// ErrInvalidQuery is returned when a resource name or class query
	// cannot be parsed into a component sequence.
	ErrInvalidQuery = errors.New("invalid resource query")

	// ErrInvalidEntry is returned by Put, Remove, and the map loaders when
	// a name pattern cannot be parsed.
	ErrInvalidEntry = errors.New("invalid resource entry")

	// ErrComponentMismatch is returned when a name query and a class query
	// decompose into a different number of components. The matcher pairs
	// components positionally, so unequal lengths are rejected up front.
	ErrComponentMismatch = errors.New("name and class queries have mismatched component counts")

	// ErrResourceNotFound is returned by the typed Get helpers when no
	// database entry matches the query.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrDatabaseNotFound is returned by the file loaders when the named
	// file does not exist.
	ErrDatabaseNotFound = errors.New("resource file not found")

	// ErrIncludeDepth is returned when #include directives nest deeper
	// than MaxIncludeDepth.
	ErrIncludeDepth = errors.New("maximum include depth exceeded")
)
