package afm

import (
	"strconv"
	"strings"
)

// AccessJSONField resolves a dotted/bracketed path against a decoded JSON
// value (map[string]any / []any / scalars as produced by encoding/json).
//
// Path grammar, left to right:
//
//	data.items[2].name      field access, index access, field access
//	['field.with.dots']     quoted bracket keys may contain literal dots
//	items[0]                a field followed directly by a bracket segment
//
// An empty path returns the value unchanged. All failures are typed; this
// function never substitutes defaults - that policy belongs to template
// evaluation.
func AccessJSONField(value any, path string) (any, *PathError) {
	if path == "" {
		return value, nil
	}

	current := value
	remaining := path

	for remaining != "" {
		var perr *PathError
		switch {
		case strings.HasPrefix(remaining, "["):
			current, remaining, perr = accessBracket(current, remaining)
		case strings.HasPrefix(remaining, "."):
			if strings.HasPrefix(remaining, "..") {
				return nil, &PathError{Kind: PathNotFound, Path: remaining, Detail: "empty field name"}
			}
			remaining = remaining[1:]
		default:
			current, remaining, perr = accessField(current, remaining)
		}
		if perr != nil {
			return nil, perr
		}
	}

	return current, nil
}

// accessBracket consumes one bracket segment: a quoted object key or a
// non-negative array index.
func accessBracket(current any, remaining string) (any, string, *PathError) {
	closeIdx := strings.Index(remaining, "]")
	if closeIdx == -1 {
		return nil, "", &PathError{Kind: PathInvalidIndex, Path: remaining, Detail: "unclosed bracket"}
	}

	content := remaining[1:closeIdx]
	rest := remaining[closeIdx+1:]

	if isQuoted(content) {
		key := content[1 : len(content)-1]
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, "", &PathError{Kind: PathTypeMismatch, Path: remaining, Detail: "field access on non-object"}
		}
		value, ok := obj[key]
		if !ok {
			return nil, "", &PathError{Kind: PathNotFound, Path: remaining, Detail: key}
		}
		return value, rest, nil
	}

	index, err := strconv.Atoi(content)
	if err != nil || index < 0 {
		return nil, "", &PathError{Kind: PathInvalidIndex, Path: remaining, Detail: content}
	}
	arr, ok := current.([]any)
	if !ok {
		return nil, "", &PathError{Kind: PathTypeMismatch, Path: remaining, Detail: "index access on non-array"}
	}
	if index >= len(arr) {
		return nil, "", &PathError{Kind: PathIndexOutOfBounds, Path: remaining, Detail: content}
	}
	return arr[index], rest, nil
}

// accessField consumes one dot-notation field name, ending at the next '.'
// or '[' delimiter.
func accessField(current any, remaining string) (any, string, *PathError) {
	end := len(remaining)
	if dotIdx := strings.Index(remaining, "."); dotIdx != -1 && dotIdx < end {
		end = dotIdx
	}
	if bracketIdx := strings.Index(remaining, "["); bracketIdx != -1 && bracketIdx < end {
		end = bracketIdx
	}

	name := remaining[:end]
	rest := remaining[end:]

	if name == "" {
		return nil, "", &PathError{Kind: PathNotFound, Path: remaining, Detail: "empty field name"}
	}

	obj, ok := current.(map[string]any)
	if !ok {
		return nil, "", &PathError{Kind: PathTypeMismatch, Path: remaining, Detail: "field access on non-object"}
	}
	value, ok := obj[name]
	if !ok {
		return nil, "", &PathError{Kind: PathNotFound, Path: remaining, Detail: name}
	}
	return value, rest, nil
}

// isQuoted reports whether bracket content is a quoted key ('...' or "...").
func isQuoted(s string) bool {
	if len(s) < 2 {
		return false
	}
	return (s[0] == '\'' && s[len(s)-1] == '\'') ||
		(s[0] == '"' && s[len(s)-1] == '"')
}
