// File: xrm/builder.go
package xrm

import (
	"errors"
	"fmt"
)

// ValidatorFunc defines the signature for a function that can validate a
// built Database. It receives the fully assembled database and should
// return an error if validation fails, for example when a required
// resource is missing.
type ValidatorFunc func(d *Database) error

// sourceFunc materializes one builder source when Build runs.
type sourceFunc func() (*Database, error)

// Builder provides a fluent interface for assembling a database from
// several sources. Sources apply in the order they were added, and
// entries from later sources override earlier ones with the same
// component chain.
type Builder struct {
	sources    []sourceFunc
	prefix     string
	err        error
	validators []ValidatorFunc
}

// NewBuilder creates a new database builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithDefaults adds the user's conventional resource files, as loaded by
// DefaultDatabase. Missing files are skipped entirely.
func (b *Builder) WithDefaults() *Builder {
	b.sources = append(b.sources, DefaultDatabase)
	return b
}

// WithFile adds a resource file source. A missing file is not fatal:
// Build still returns the database assembled from the other sources,
// alongside an ErrDatabaseNotFound the caller may inspect.
func (b *Builder) WithFile(path string) *Builder {
	b.sources = append(b.sources, func() (*Database, error) {
		return DatabaseFromFile(path)
	})
	return b
}

// WithConfigFile adds a TOML, JSON, or YAML file source with format
// auto-detection. A missing file is non-fatal, like WithFile.
func (b *Builder) WithConfigFile(path string) *Builder {
	b.sources = append(b.sources, func() (*Database, error) {
		return DatabaseFromConfigFile(path)
	})
	return b
}

// WithString adds resource file text as a source.
func (b *Builder) WithString(s string) *Builder {
	b.sources = append(b.sources, func() (*Database, error) {
		return DatabaseFromString(s)
	})
	return b
}

// WithMap adds a nested configuration map as a source.
func (b *Builder) WithMap(m map[string]any) *Builder {
	b.sources = append(b.sources, func() (*Database, error) {
		return DatabaseFromMap(m)
	})
	return b
}

// WithResource adds a single resource. The name pattern is validated
// immediately; the first invalid one fails the eventual Build.
func (b *Builder) WithResource(name, value string) *Builder {
	if b.err == nil {
		if _, err := parsePattern(name); err != nil {
			b.err = err
		}
	}
	b.sources = append(b.sources, func() (*Database, error) {
		d := NewDatabase()
		if err := d.Put(name, value); err != nil {
			return nil, err
		}
		return d, nil
	})
	return b
}

// WithPrefix sets the query prefix used by BuildAndScan.
func (b *Builder) WithPrefix(prefix string) *Builder {
	b.prefix = prefix
	return b
}

// WithValidator adds a validation function that runs at the end of the
// build process. Multiple validators can be added and are executed in
// the order they are added.
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build assembles the database from all configured sources
func (b *Builder) Build() (*Database, error) {
	if b.err != nil {
		return nil, b.err
	}

	d := NewDatabase()
	var notFound []error
	for _, source := range b.sources {
		db, err := source()
		if err != nil {
			if errors.Is(err, ErrDatabaseNotFound) {
				// Missing files are not fatal; remember and continue.
				notFound = append(notFound, err)
				continue
			}
			return nil, err
		}
		d.Combine(db, true)
	}

	for _, validator := range b.validators {
		if err := validator(d); err != nil {
			return nil, fmt.Errorf("database validation failed: %w", err)
		}
	}

	// ErrDatabaseNotFound for any skipped files, or nil.
	return d, errors.Join(notFound...)
}

// MustBuild is like Build but panics on error. Missing files are not
// fatal here either: the database from the remaining sources is returned.
func (b *Builder) MustBuild() *Database {
	d, err := b.Build()
	if err != nil && !errors.Is(err, ErrDatabaseNotFound) {
		panic(fmt.Sprintf("database build failed: %v", err))
	}
	return d
}

// BuildAndScan builds the database and decodes it into the provided
// struct pointer using Scan with the builder's prefix. When every source
// was a missing file, the target keeps its pre-filled values and only
// the not-found error is returned.
func (b *Builder) BuildAndScan(target any) error {
	d, err := b.Build()
	if err != nil && !errors.Is(err, ErrDatabaseNotFound) {
		return err
	}
	if d.IsEmpty() {
		return err
	}

	if scanErr := d.Scan(b.prefix, target); scanErr != nil {
		return fmt.Errorf("failed to scan resources into target: %w", scanErr)
	}

	// ErrDatabaseNotFound for any skipped files, or nil.
	return err
}
