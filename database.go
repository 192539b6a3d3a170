// FILE: xrm/database.go
package xrm

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Database is an ordered collection of resource entries. Entry order is
// preserved from loading and insertion; it only matters when two entries
// match a query with equal precedence, in which case the earlier entry
// wins. A Database is not safe for concurrent use.
type Database struct {
	entries []*entry
}

// NewDatabase returns an empty database.
func NewDatabase() *Database {
	return &Database{}
}

// Len returns the number of entries. A nil database has length zero.
func (d *Database) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// IsEmpty reports whether the database contains no entries.
func (d *Database) IsEmpty() bool {
	return d.Len() == 0
}

// indexOf returns the position of the entry with an identical component
// chain, or -1.
func (d *Database) indexOf(components []component) int {
	for i, e := range d.entries {
		if componentsEqual(e.components, components) {
			return i
		}
	}
	return -1
}

// put inserts e, replacing the value of an existing entry with an
// identical component chain. Replacement keeps the original position so
// precedence ties keep resolving to the earlier entry.
func (d *Database) put(e *entry) {
	if i := d.indexOf(e.components); i >= 0 {
		d.entries[i].value = e.value
		return
	}
	d.entries = append(d.entries, e)
}

// parsePattern parses a bare name pattern, without a value part, as used
// by Put and Remove.
func parsePattern(name string) (*entry, error) {
	if strings.Contains(name, ":") {
		return nil, fmt.Errorf("%w: name %q contains ':'", ErrInvalidEntry, name)
	}
	e, err := parseEntry(name + ":")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEntry, err)
	}
	return e, nil
}

// Put adds a resource under the given name pattern, which may contain
// loose bindings and wildcards. The value is stored verbatim with no
// escape processing. If an entry with the same component chain exists,
// its value is replaced in place.
func (d *Database) Put(name, value string) error {
	e, err := parsePattern(name)
	if err != nil {
		return err
	}
	e.value = value
	d.put(e)
	return nil
}

// Remove deletes the entry whose component chain is identical to the
// given name pattern. Matching is structural, not by query semantics:
// "a*b" removes only the entry written as "a*b". Returns
// ErrResourceNotFound if no such entry exists.
func (d *Database) Remove(name string) error {
	e, err := parsePattern(name)
	if err != nil {
		return err
	}
	i := d.indexOf(e.components)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrResourceNotFound, name)
	}
	d.entries = append(d.entries[:i], d.entries[i+1:]...)
	return nil
}

// Combine merges entries from other into d. Chains already present in d
// keep d's value unless override is true; new chains are appended in
// other's order. Entries are copied, so later changes to either database
// do not affect the other.
func (d *Database) Combine(other *Database, override bool) {
	if other == nil {
		return
	}
	for _, e := range other.entries {
		if i := d.indexOf(e.components); i >= 0 {
			if override {
				d.entries[i].value = e.value
			}
			continue
		}
		d.entries = append(d.entries, &entry{
			components: append([]component(nil), e.components...),
			value:      e.value,
		})
	}
}

// Entries returns the serialized form of every entry in database order.
func (d *Database) Entries() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.entries))
	for i, e := range d.entries {
		out[i] = e.String()
	}
	return out
}

// String renders the database in resource file syntax, one entry per
// line with values escaped. The output parses back into an equivalent
// database.
func (d *Database) String() string {
	if d.Len() == 0 {
		return ""
	}
	var b strings.Builder
	for _, e := range d.entries {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Save writes the database to path in resource file syntax. The write is
// atomic: data goes to a temporary file in the same directory, which is
// renamed over path once fully written and synced.
func (d *Database) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(d.String()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write database: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync database file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to set file permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace '%s': %w", path, err)
	}
	return nil
}
