package xrm

import (
	"fmt"
	"strconv"
	"strings"
)

// Resource is the result of a single lookup. The zero value is an absent
// resource: its accessors report the value as missing without panicking,
// so a Resource can be passed around and inspected without nil checks.
type Resource struct {
	value   string
	present bool
}

// Query resolves a resource by its fully specified name and optional
// class. Both are dot-separated component chains, such as
// "xterm.vt100.background" and "XTerm.VT100.Background", and when a
// class is given it must have exactly as many components as the name.
// Pass "" to query by name and wildcards alone.
//
// A successful query always returns a non-nil Resource. When no entry
// matches, the Resource is absent rather than an error: Value reports
// false and the typed accessors return their fallbacks. Errors are
// reserved for unusable input and can be matched with errors.Is against
// ErrEmptyDatabase, ErrInvalidQuery, and ErrComponentMismatch.
func (d *Database) Query(name, class string) (*Resource, error) {
	if d.Len() == 0 {
		return nil, ErrEmptyDatabase
	}

	qName, err := parseQuery(name)
	if err != nil {
		return nil, fmt.Errorf("%w: name: %w", ErrInvalidQuery, err)
	}

	var qClass *entry
	if class != "" {
		qClass, err = parseQuery(class)
		if err != nil {
			return nil, fmt.Errorf("%w: class: %w", ErrInvalidQuery, err)
		}
		if qClass.numComponents() != qName.numComponents() {
			return nil, fmt.Errorf("%w: name has %d, class has %d",
				ErrComponentMismatch, qName.numComponents(), qClass.numComponents())
		}
	}

	r := &Resource{}
	if value, ok := matchBest(d, qName, qClass); ok {
		r.value = value
		r.present = true
	}
	return r, nil
}

// Free clears the resource in place, for parity with traditional
// resource manager APIs; the garbage collector reclaims the memory
// either way. Safe on nil and safe to call repeatedly. After Free the
// resource behaves exactly like an absent lookup result.
func (r *Resource) Free() {
	if r == nil {
		return
	}
	r.value = ""
	r.present = false
}

// GetString resolves name and class to a string value. Unlike Query, an
// absent resource is an error here, ErrResourceNotFound.
func (d *Database) GetString(name, class string) (string, error) {
	r, err := d.Query(name, class)
	if err != nil {
		return "", err
	}
	value, ok := r.Value()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrResourceNotFound, name)
	}
	return value, nil
}

// GetInt64 resolves name and class to an int64, parsing the value as
// decimal. A value that does not parse is an error, unlike
// Resource.Int64 which reports a sentinel.
func (d *Database) GetInt64(name, class string) (int64, error) {
	value, err := d.GetString(name, class)
	if err != nil {
		return 0, err
	}
	i, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot convert resource %s value %q to int64: %w", name, value, err)
	}
	return i, nil
}

// GetBool resolves name and class to a bool using the same heuristics as
// Resource.Bool, except that a value no heuristic recognizes is an error
// instead of false.
func (d *Database) GetBool(name, class string) (bool, error) {
	value, err := d.GetString(name, class)
	if err != nil {
		return false, err
	}
	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		return i != 0, nil
	}
	switch strings.ToLower(value) {
	case "true", "on", "yes":
		return true, nil
	case "false", "off", "no":
		return false, nil
	}
	return false, fmt.Errorf("cannot convert resource %s value %q to bool", name, value)
}
