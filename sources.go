// FILE: xrm/sources.go
package xrm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// MaxIncludeDepth bounds nested #include processing. Files nested deeper,
// including cyclic includes, abort loading with ErrIncludeDepth.
const MaxIncludeDepth = 100

// DatabaseFromString parses resource file syntax into a database:
//
//	! comment
//	#include "other/file"
//	name-pattern: value
//
// Blank lines and "!" comments are skipped. Malformed entry lines are
// skipped as well, so one bad line does not discard the rest of the
// input. A "\" at the end of a line joins it with the next line.
// Relative #include paths resolve against the process working directory;
// load from a file to resolve them against the file's location.
func DatabaseFromString(s string) (*Database, error) {
	d := NewDatabase()
	if err := parseInto(d, s, "", 0); err != nil {
		return nil, err
	}
	return d, nil
}

// DatabaseFromFile loads a resource file. Relative #include paths
// resolve against the file's directory. Returns ErrDatabaseNotFound if
// the file does not exist.
func DatabaseFromFile(path string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrDatabaseNotFound
		}
		return nil, fmt.Errorf("failed to read resource file '%s': %w", path, err)
	}

	d := NewDatabase()
	if err := parseInto(d, string(data), filepath.Dir(path), 0); err != nil {
		return nil, err
	}
	return d, nil
}

// parseInto parses resource file text into d. Line continuations are
// resolved globally first: every backslash-newline pair is removed,
// joining the lines around it, before any line is classified.
func parseInto(d *Database, s, baseDir string, depth int) error {
	if depth > MaxIncludeDepth {
		return ErrIncludeDepth
	}

	s = strings.ReplaceAll(s, "\\\n", "")

	for _, line := range strings.Split(s, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "" || strings.HasPrefix(trimmed, "!"):
			continue
		case strings.HasPrefix(trimmed, "#"):
			if err := processDirective(d, trimmed, baseDir, depth); err != nil {
				return err
			}
		default:
			e, err := parseEntry(strings.TrimLeft(line, " \t"))
			if err != nil {
				continue
			}
			d.put(e)
		}
	}
	return nil
}

// processDirective handles a "#" line. Only #include with a quoted path
// is recognized; unknown directives and malformed includes are skipped
// with the same tolerance as bad entry lines. A missing include file is
// skipped too, but read failures and the depth limit abort the load.
func processDirective(d *Database, line, baseDir string, depth int) error {
	if !strings.HasPrefix(line, "#include") {
		return nil
	}
	rest := strings.TrimSpace(strings.TrimPrefix(line, "#include"))
	if len(rest) < 2 || rest[0] != '"' || rest[len(rest)-1] != '"' {
		return nil
	}
	path := rest[1 : len(rest)-1]
	if path == "" {
		return nil
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read included file '%s': %w", path, err)
	}
	return parseInto(d, string(data), filepath.Dir(path), depth+1)
}

// DatabaseFromMap converts a nested configuration map into a database.
// Nested maps flatten into dotted name patterns, so
//
//	map[string]any{"xterm": map[string]any{"background": "blue"}}
//
// becomes "xterm.background: blue". Keys may carry binding characters,
// which allows wildcard patterns through quoted TOML or YAML keys. Leaf
// values must be scalars or slices of scalars; slices join into
// comma-separated values. Entries are added in sorted path order so the
// result is deterministic.
func DatabaseFromMap(m map[string]any) (*Database, error) {
	flat := flattenMap(m, "")
	paths := make([]string, 0, len(flat))
	for path := range flat {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	d := NewDatabase()
	for _, path := range paths {
		value, err := formatScalar(flat[path])
		if err != nil {
			return nil, fmt.Errorf("resource %q: %w", path, err)
		}
		if err := d.Put(path, value); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// formatScalar renders a configuration leaf value as a resource value
// string. Slices of scalars join with commas.
func formatScalar(val any) (string, error) {
	if val == nil {
		return "", nil
	}

	switch v := val.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	case []byte:
		return string(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.FormatInt(int64(v), 10), nil
	case int8:
		return strconv.FormatInt(int64(v), 10), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 64), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case []string:
		return strings.Join(v, ","), nil
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			part, err := formatScalar(item)
			if err != nil {
				return "", err
			}
			parts[i] = part
		}
		return strings.Join(parts, ","), nil
	default:
		return "", fmt.Errorf("cannot convert type %T to a resource value", val)
	}
}

// DatabaseFromTOML builds a database from TOML data.
func DatabaseFromTOML(data []byte) (*Database, error) {
	m := make(map[string]any)
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse TOML resource data: %w", err)
	}
	return DatabaseFromMap(m)
}

// DatabaseFromYAML builds a database from YAML data.
func DatabaseFromYAML(data []byte) (*Database, error) {
	m := make(map[string]any)
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse YAML resource data: %w", err)
	}
	return DatabaseFromMap(m)
}

// DatabaseFromJSON builds a database from JSON data. Numbers keep their
// textual form instead of round-tripping through float64.
func DatabaseFromJSON(data []byte) (*Database, error) {
	m := make(map[string]any)
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse JSON resource data: %w", err)
	}
	return DatabaseFromMap(m)
}

// DatabaseFromConfigFile loads a TOML, JSON, or YAML file into a
// database. The format is determined from the file extension first,
// falling back to content detection. Returns ErrDatabaseNotFound if the
// file does not exist.
func DatabaseFromConfigFile(path string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrDatabaseNotFound
		}
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	format := detectFileFormat(path)
	if format == "" {
		format = detectFormatFromContent(data)
	}

	switch format {
	case "toml":
		d, err := DatabaseFromTOML(data)
		if err != nil {
			return nil, fmt.Errorf("config file '%s': %w", path, err)
		}
		return d, nil
	case "json":
		d, err := DatabaseFromJSON(data)
		if err != nil {
			return nil, fmt.Errorf("config file '%s': %w", path, err)
		}
		return d, nil
	case "yaml":
		d, err := DatabaseFromYAML(data)
		if err != nil {
			return nil, fmt.Errorf("config file '%s': %w", path, err)
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unable to determine config format for file '%s'", path)
	}
}

// detectFileFormat determines format from file extension
func detectFileFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml", ".tml":
		return "toml"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return ""
	}
}

// detectFormatFromContent attempts to detect format by parsing
func detectFormatFromContent(data []byte) string {
	// JSON is the strictest, YAML accepts most JSON, TOML goes last.
	var jsonTest any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		return "json"
	}

	var yamlTest any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil {
		return "yaml"
	}

	var tomlTest any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return "toml"
	}

	return ""
}

// DefaultDatabase loads the user's resources from the conventional
// locations: $HOME/.Xdefaults first, then the file named by the
// XENVIRONMENT environment variable, defaulting to
// $HOME/.Xdefaults-<hostname> when unset. Entries from the second file
// override the first. Missing files are skipped, so a database with no
// entries and a nil error means neither file existed.
func DefaultDatabase() (*Database, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine home directory: %w", err)
	}

	paths := []string{filepath.Join(home, ".Xdefaults")}
	if envPath := os.Getenv("XENVIRONMENT"); envPath != "" {
		paths = append(paths, envPath)
	} else if host, err := os.Hostname(); err == nil {
		paths = append(paths, filepath.Join(home, ".Xdefaults-"+host))
	}

	d := NewDatabase()
	for _, path := range paths {
		db, err := DatabaseFromFile(path)
		if err != nil {
			if errors.Is(err, ErrDatabaseNotFound) {
				continue
			}
			return nil, err
		}
		d.Combine(db, true)
	}
	return d, nil
}
