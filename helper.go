// File: xrm/helper.go
package xrm

import "strings"

// flattenMap converts a nested map[string]any into a flat map keyed by
// dot-notation paths. Non-map leaves carry over unchanged.
func flattenMap(nested map[string]any, prefix string) map[string]any {
	flat := make(map[string]any)

	for key, value := range nested {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		if subMap, isMap := value.(map[string]any); isMap {
			for subPath, subValue := range flattenMap(subMap, path) {
				flat[subPath] = subValue
			}
		} else {
			flat[path] = value
		}
	}

	return flat
}

// setNestedValue stores value in a nested map under a dot-notation path,
// creating intermediate maps as needed. A non-map segment in the way is
// replaced by a fresh map.
func setNestedValue(nested map[string]any, path string, value any) {
	segments := strings.Split(path, ".")
	current := nested

	for _, segment := range segments[:len(segments)-1] {
		next, isMap := current[segment].(map[string]any)
		if !isMap {
			next = make(map[string]any)
			current[segment] = next
		}
		current = next
	}

	current[segments[len(segments)-1]] = value
}
