package afm

import (
	"os"
	"strings"
)

// Lookup supplies values for ${NAME} and ${env:NAME} expressions. It is
// injected rather than read from the process environment directly so tests
// can supply deterministic fixtures.
type Lookup interface {
	Get(name string) (string, bool)
}

// LookupFunc adapts a plain function to the Lookup interface.
type LookupFunc func(name string) (string, bool)

// Get implements Lookup.
func (f LookupFunc) Get(name string) (string, bool) {
	return f(name)
}

// EnvLookup resolves variables from the process environment.
type EnvLookup struct{}

// Get implements Lookup via os.LookupEnv.
func (EnvLookup) Get(name string) (string, bool) {
	return os.LookupEnv(name)
}

// MapLookup resolves variables from a fixed map. Intended for tests and for
// configuration-backed lookups.
type MapLookup map[string]string

// Get implements Lookup.
func (m MapLookup) Get(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// ResolveVariables substitutes ${NAME} and ${env:NAME} expressions in text
// against the given lookup, in a single left-to-right scan.
//
// Rules:
//   - The first '}' after '${' always closes the expression. There is no
//     nested-brace support.
//   - Expressions on comment lines (line prefix before the marker, trimmed,
//     starts with '#') are left as literal text.
//   - ${http:...} expressions are deferred to template compilation and left
//     untouched.
//   - A missing or empty value fails the whole resolution. An empty
//     expression ${} is an empty variable name and fails the same way.
//   - Spliced values are never re-scanned.
//   - An unterminated '${' stops the scan; the remaining text is kept as-is.
func ResolveVariables(text string, lookup Lookup) (string, error) {
	var sb strings.Builder
	pos := 0

	for pos < len(text) {
		openIdx := strings.Index(text[pos:], VariableOpenDelim)
		if openIdx == -1 {
			sb.WriteString(text[pos:])
			break
		}
		openIdx += pos

		closeIdx := strings.Index(text[openIdx:], VariableCloseDelim)
		if closeIdx == -1 {
			// Unterminated expression - keep the rest as-is
			sb.WriteString(text[pos:])
			break
		}
		closeIdx += openIdx

		if isCommentLine(text, openIdx) {
			sb.WriteString(text[pos : closeIdx+1])
			pos = closeIdx + 1
			continue
		}

		expr := text[openIdx+len(VariableOpenDelim) : closeIdx]
		prefix, name := splitExpression(expr)

		switch prefix {
		case VariablePrefixHTTP:
			// Deferred to webhook template compilation
			sb.WriteString(text[pos : closeIdx+1])
		case "", VariablePrefixEnv:
			value, ok := lookup.Get(name)
			if !ok || value == "" {
				return "", NewVariableNotFoundError(name)
			}
			sb.WriteString(text[pos:openIdx])
			sb.WriteString(value)
		default:
			return "", NewUnsupportedPrefixError(prefix)
		}

		pos = closeIdx + 1
	}

	return sb.String(), nil
}

// splitExpression splits a variable expression on its first colon. An
// expression without a colon is a bare variable name.
func splitExpression(expr string) (prefix, name string) {
	if idx := strings.Index(expr, ":"); idx != -1 {
		return expr[:idx], expr[idx+1:]
	}
	return "", expr
}

// isCommentLine reports whether the line containing the byte at markerIdx
// starts with '#' before the marker.
func isCommentLine(text string, markerIdx int) bool {
	lineStart := strings.LastIndexByte(text[:markerIdx], '\n') + 1
	linePrefix := strings.TrimSpace(text[lineStart:markerIdx])
	return strings.HasPrefix(linePrefix, "#")
}
