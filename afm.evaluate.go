package afm

import (
	"bytes"
	"encoding/json"
	"strings"

	"go.uber.org/zap"
)

// Headers carries the inbound request headers for template evaluation.
// Multi-valued headers are joined with ", " on substitution.
type Headers map[string][]string

// lookup finds a header value case-sensitively first, then falls back to a
// case-insensitive scan.
func (h Headers) lookup(name string) ([]string, bool) {
	if h == nil {
		return nil, false
	}
	if values, ok := h[name]; ok {
		return values, true
	}
	for key, values := range h {
		if strings.EqualFold(key, name) {
			return values, true
		}
	}
	return nil, false
}

// Evaluate walks the compiled segments against an inbound event, producing
// the final agent input string.
//
// The payload may be passed as json.RawMessage (or []byte) holding the
// original request body; whole-payload substitution then preserves the
// body's key order exactly. Any other value is treated as already-decoded
// JSON and serialized with encoding/json.
//
// Evaluation is fail-soft: unresolvable payload paths and missing headers
// substitute the empty string with a logged warning, never an error.
// Delivery availability outranks prompt completeness.
func (t *CompiledTemplate) Evaluate(payload any, headers Headers) string {
	decoded, raw := normalizePayload(payload)

	var sb strings.Builder
	for _, seg := range t.segments {
		switch s := seg.(type) {
		case LiteralSegment:
			sb.WriteString(s.Text)
		case PayloadSegment:
			sb.WriteString(t.evaluatePayload(s, decoded, raw))
		case HeaderSegment:
			sb.WriteString(t.evaluateHeader(s, headers))
		}
	}
	return sb.String()
}

// normalizePayload splits the payload into its decoded form (for path
// access) and, when available, the raw serialized bytes (for whole-payload
// substitution).
func normalizePayload(payload any) (decoded any, raw []byte) {
	var data []byte
	switch p := payload.(type) {
	case json.RawMessage:
		data = p
	case []byte:
		data = p
	default:
		return payload, nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return nil, bytes.TrimSpace(data)
	}
	raw = buf.Bytes()

	if err := json.Unmarshal(data, &decoded); err != nil {
		decoded = nil
	}
	return decoded, raw
}

// evaluatePayload substitutes one payload reference.
func (t *CompiledTemplate) evaluatePayload(seg PayloadSegment, decoded any, raw []byte) string {
	if seg.Path == "" {
		if raw != nil {
			return string(raw)
		}
		return t.marshalValue(decoded)
	}

	value, perr := AccessJSONField(decoded, seg.Path)
	if perr != nil {
		t.logger.Warn(LogMsgPayloadPathSkipped,
			zap.String(LogFieldPath, seg.Path),
			zap.String(LogFieldKind, perr.Kind.String()))
		return ""
	}

	if s, ok := value.(string); ok {
		return s
	}
	return t.marshalValue(value)
}

// evaluateHeader substitutes one header reference.
func (t *CompiledTemplate) evaluateHeader(seg HeaderSegment, headers Headers) string {
	values, ok := headers.lookup(seg.Name)
	if !ok {
		t.logger.Warn(LogMsgHeaderMissing, zap.String(LogFieldHeader, seg.Name))
		return ""
	}
	return strings.Join(values, HeaderValueSeparator)
}

// marshalValue serializes a resolved JSON value, degrading to the empty
// string on failure.
func (t *CompiledTemplate) marshalValue(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		t.logger.Warn(LogMsgPayloadMarshalFailed, zap.Error(err))
		return ""
	}
	return string(data)
}
