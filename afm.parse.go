package afm

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse parses an AFM document using the process environment for variable
// resolution. See ParseWithLookup.
func Parse(data []byte) (*Document, error) {
	return ParseWithLookup(data, EnvLookup{})
}

// ParseFile reads and parses an AFM document from disk.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// ParseWithLookup parses an AFM document:
//
//  1. Variable resolution runs over the entire raw text, frontmatter and
//     body together, before any structural split.
//  2. The first line must be the '---' frontmatter delimiter.
//  3. Lines strictly between the two delimiters are decoded as YAML
//     metadata.
//  4. The body is scanned for '# Role' and '# Instructions' headings; any
//     other heading closes the open section.
//  5. A post-parse scope check rejects ${http:...} anywhere outside a
//     webhook interface's prompt field.
//
// Parsing is a pure function of the input and the lookup.
func ParseWithLookup(data []byte, lookup Lookup) (*Document, error) {
	resolved, err := ResolveVariables(string(data), lookup)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(resolved, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != FrontmatterDelimiter {
		return nil, NewMissingFrontmatterError()
	}

	closeIdx := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == FrontmatterDelimiter {
			closeIdx = i
			break
		}
	}
	if closeIdx == -1 {
		return nil, NewUnclosedFrontmatterError()
	}

	var metadata AgentMetadata
	fmYAML := strings.Join(lines[1:closeIdx], "\n")
	if strings.TrimSpace(fmYAML) != "" {
		if err := yaml.Unmarshal([]byte(fmYAML), &metadata); err != nil {
			return nil, NewYAMLDecodeError(err)
		}
	}

	role, instructions := extractSections(lines[closeIdx+1:])

	doc := &Document{
		Metadata:     metadata,
		Role:         role,
		Instructions: instructions,
	}

	if err := validateHTTPScope(doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// Section capture modes for the body scan.
type sectionMode int

const (
	sectionNone sectionMode = iota
	sectionRole
	sectionInstructions
)

// extractSections collects the Role and Instructions sections from the body
// lines. A heading whose text starts with "role" (case-insensitive) opens
// Role capture, "instructions" opens Instructions capture, and any other
// heading closes both. Non-heading lines are appended to the open section.
func extractSections(lines []string) (role, instructions string) {
	var roleLines, instructionLines []string
	mode := sectionNone

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, HeadingMarker) {
			heading := strings.ToLower(strings.TrimSpace(trimmed[len(HeadingMarker):]))
			switch {
			case strings.HasPrefix(heading, HeadingRole):
				mode = sectionRole
			case strings.HasPrefix(heading, HeadingInstructions):
				mode = sectionInstructions
			default:
				mode = sectionNone
			}
			continue
		}

		switch mode {
		case sectionRole:
			roleLines = append(roleLines, line)
		case sectionInstructions:
			instructionLines = append(instructionLines, line)
		}
	}

	role = strings.TrimSpace(strings.Join(roleLines, "\n"))
	instructions = strings.TrimSpace(strings.Join(instructionLines, "\n"))
	return role, instructions
}
