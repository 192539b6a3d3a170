// File: xrm/value.go
package xrm

import (
	"math"
	"strconv"
	"strings"
)

// Value returns the resolved resource value. ok is false when the lookup
// found no matching entry, or when the resource is nil or freed. An
// empty string with ok true is a real value: entries may be written with
// nothing after the colon.
func (r *Resource) Value() (string, bool) {
	if r == nil || !r.present {
		return "", false
	}
	return r.value, true
}

// String returns the value, or "" for an absent resource, implementing
// fmt.Stringer.
func (r *Resource) String() string {
	value, _ := r.Value()
	return value
}

// Int64 parses the value as a decimal integer. Absent resources, and
// values that are not entirely a decimal integer, report math.MinInt64.
// Use Database.GetInt64 to tell those cases apart by error.
func (r *Resource) Int64() int64 {
	value, ok := r.Value()
	if !ok {
		return math.MinInt64
	}
	i, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return math.MinInt64
	}
	return i
}

// Bool interprets the value leniently and never fails. The checks run in
// order: a decimal integer value is true when nonzero, then "true",
// "on", and "yes" are true ignoring case, and everything else, absent
// resources included, is false.
func (r *Resource) Bool() bool {
	value, ok := r.Value()
	if !ok {
		return false
	}
	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		return i != 0
	}
	switch strings.ToLower(value) {
	case "true", "on", "yes":
		return true
	}
	return false
}
