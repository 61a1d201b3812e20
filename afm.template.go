package afm

import (
	"strings"

	"go.uber.org/zap"
)

// TemplateSegment is one element of a compiled webhook prompt template.
type TemplateSegment interface {
	segment()
}

// LiteralSegment is verbatim template text.
type LiteralSegment struct {
	Text string
}

// PayloadSegment references the event payload. An empty path means the whole
// payload.
type PayloadSegment struct {
	Path string
}

// HeaderSegment references an inbound request header by name.
type HeaderSegment struct {
	Name string
}

func (LiteralSegment) segment() {}
func (PayloadSegment) segment() {}
func (HeaderSegment) segment()  {}

// CompiledTemplate is an ordered, immutable segment sequence built once per
// webhook interface at load time. Evaluation is a read-only traversal, so a
// single CompiledTemplate is safe for concurrent use by any number of event
// handlers.
type CompiledTemplate struct {
	source   string
	segments []TemplateSegment
	logger   *zap.Logger
}

// Source returns the raw template the segments were compiled from.
func (t *CompiledTemplate) Source() string {
	return t.source
}

// Segments returns the compiled segment list.
func (t *CompiledTemplate) Segments() []TemplateSegment {
	return t.segments
}

// CompileTemplate tokenizes a webhook prompt template. Compilation never
// fails: anything that is not a well-formed ${http:...} expression degrades
// to literal text.
func CompileTemplate(source string) *CompiledTemplate {
	return CompileTemplateWithLogger(source, nil)
}

// CompileTemplateWithLogger compiles a template with a logger attached for
// evaluation-time warnings. A nil logger disables logging.
func CompileTemplateWithLogger(source string, logger *zap.Logger) *CompiledTemplate {
	if logger == nil {
		logger = zap.NewNop()
	}

	var segments []TemplateSegment
	pos := 0

	for pos < len(source) {
		openIdx := strings.Index(source[pos:], VariableOpenDelim)
		if openIdx == -1 {
			segments = append(segments, LiteralSegment{Text: source[pos:]})
			break
		}
		openIdx += pos

		closeIdx := strings.Index(source[openIdx:], VariableCloseDelim)
		if closeIdx == -1 {
			// Unmatched ${ - the rest of the template is literal
			segments = append(segments, LiteralSegment{Text: source[pos:]})
			break
		}
		closeIdx += openIdx

		if openIdx > pos {
			segments = append(segments, LiteralSegment{Text: source[pos:openIdx]})
		}

		expr := source[openIdx+len(VariableOpenDelim) : closeIdx]
		segments = append(segments, compileExpression(expr))

		pos = closeIdx + 1
	}

	logger.Debug(LogMsgTemplateCompiled, zap.Int(LogFieldSegments, len(segments)))

	return &CompiledTemplate{
		source:   source,
		segments: segments,
		logger:   logger,
	}
}

// compileExpression turns the inner text of one ${...} token into a segment.
// Only http: expressions are special; everything else, including malformed
// http: expressions, stays literal.
func compileExpression(expr string) TemplateSegment {
	literal := LiteralSegment{Text: VariableOpenDelim + expr + VariableCloseDelim}

	rest, ok := strings.CutPrefix(expr, VariablePrefixHTTP+":")
	if !ok {
		return literal
	}

	if rest == HTTPVarPayload {
		return PayloadSegment{Path: ""}
	}

	subprefix, subpath, found := strings.Cut(rest, ".")
	if !found || subpath == "" {
		// e.g. "http:header" with no name, or a trailing dot
		return literal
	}

	switch subprefix {
	case HTTPVarPayload:
		return PayloadSegment{Path: subpath}
	case HTTPVarHeader:
		return HeaderSegment{Name: subpath}
	default:
		return literal
	}
}
