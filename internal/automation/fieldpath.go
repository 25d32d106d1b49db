package automation

import "strings"

// ResolveField walks a dotted path through a record's field map. It returns
// the resolved value and true when every segment exists; any missing segment
// or non-map intermediate resolves to absent (false) rather than an error.
func ResolveField(fields map[string]any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}

	var current any = fields
	for _, segment := range strings.Split(path, ".") {
		container, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		value, exists := container[segment]
		if !exists {
			return nil, false
		}
		current = value
	}
	return current, true
}
