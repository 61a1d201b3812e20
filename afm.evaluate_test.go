package afm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestEvaluateAgainstRawBody(t *testing.T) {
	// End-to-end: compile a webhook prompt and evaluate it against the raw
	// request body. Whole-payload substitution preserves the body's key order.
	body := []byte(`{"event":"order.created","orderId":"12345","amount":99.99,"customer":"john@example.com"}`)

	compiled := CompileTemplate("[${http:payload.event}] Process the following order event: ${http:payload}")
	got := compiled.Evaluate(json.RawMessage(body), nil)

	want := `[order.created] Process the following order event: ` +
		`{"event":"order.created","orderId":"12345","amount":99.99,"customer":"john@example.com"}`
	assert.Equal(t, want, got)
}

func TestEvaluateSubstitutions(t *testing.T) {
	body := []byte(`{
		"event": "order.created",
		"amount": 99.99,
		"shipped": false,
		"ref": null,
		"customer": {"name": "John"},
		"items": [{"sku": "A-1"}, {"sku": "B-2"}]
	}`)
	headers := Headers{
		"X-Request-ID": {"req-42"},
		"Accept":       {"application/json", "text/plain"},
	}

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "token-free template is identity",
			source: "no tokens here",
			want:   "no tokens here",
		},
		{
			name:   "string leaf substitutes raw",
			source: "event=${http:payload.event}",
			want:   "event=order.created",
		},
		{
			name:   "number serialized as json",
			source: "amount=${http:payload.amount}",
			want:   "amount=99.99",
		},
		{
			name:   "boolean serialized as json",
			source: "shipped=${http:payload.shipped}",
			want:   "shipped=false",
		},
		{
			name:   "null serialized as json",
			source: "ref=${http:payload.ref}",
			want:   "ref=null",
		},
		{
			name:   "object serialized as json",
			source: "customer=${http:payload.customer}",
			want:   `customer={"name":"John"}`,
		},
		{
			name:   "array element path",
			source: "sku=${http:payload.items[1].sku}",
			want:   "sku=B-2",
		},
		{
			name:   "header substitution",
			source: "req=${http:header.X-Request-ID}",
			want:   "req=req-42",
		},
		{
			name:   "multi-valued header joined",
			source: "accept=${http:header.Accept}",
			want:   "accept=application/json, text/plain",
		},
		{
			name:   "case-insensitive header lookup",
			source: "req=${http:header.x-request-id}",
			want:   "req=req-42",
		},
		{
			name:   "missing path substitutes empty",
			source: "[${http:payload.missing}]",
			want:   "[]",
		},
		{
			name:   "missing header substitutes empty",
			source: "[${http:header.X-Absent}]",
			want:   "[]",
		},
		{
			name:   "literal non-http token survives",
			source: "${env:NAME} and ${http:payload.event}",
			want:   "${env:NAME} and order.created",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompileTemplate(tt.source).Evaluate(json.RawMessage(body), headers)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateDecodedPayload(t *testing.T) {
	// A payload passed as an already-decoded value instead of raw bytes.
	payload := map[string]any{"event": "ping"}

	got := CompileTemplate("event=${http:payload.event}").Evaluate(payload, nil)
	assert.Equal(t, "event=ping", got)

	// Whole-payload substitution falls back to encoding/json serialization.
	got = CompileTemplate("${http:payload}").Evaluate(payload, nil)
	assert.Equal(t, `{"event":"ping"}`, got)
}

func TestEvaluateFailSoftLogsWarnings(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core)

	compiled := CompileTemplateWithLogger(
		"${http:payload.nope} ${http:header.X-Nope}", logger)
	got := compiled.Evaluate(json.RawMessage(`{"a":1}`), nil)

	assert.Equal(t, " ", got)
	assert.Equal(t, 1, logs.FilterMessage(LogMsgPayloadPathSkipped).Len())
	assert.Equal(t, 1, logs.FilterMessage(LogMsgHeaderMissing).Len())
}

func TestEvaluateNonObjectPayloads(t *testing.T) {
	t.Run("array body", func(t *testing.T) {
		got := CompileTemplate("all=${http:payload}").
			Evaluate(json.RawMessage(`[7, 8]`), nil)
		assert.Equal(t, "all=[7,8]", got)
	})

	t.Run("path into scalar body substitutes empty", func(t *testing.T) {
		got := CompileTemplate("[${http:payload.field}]").
			Evaluate(json.RawMessage(`"just a string"`), nil)
		assert.Equal(t, "[]", got)
	})

	t.Run("whole scalar body", func(t *testing.T) {
		got := CompileTemplate("${http:payload}").
			Evaluate(json.RawMessage(`"just a string"`), nil)
		assert.Equal(t, `"just a string"`, got)
	})
}

func TestHeadersLookup(t *testing.T) {
	headers := Headers{
		"Content-Type": {"application/json"},
		"x-custom":     {"v"},
	}

	values, ok := headers.lookup("Content-Type")
	require.True(t, ok)
	assert.Equal(t, []string{"application/json"}, values)

	values, ok = headers.lookup("X-Custom")
	require.True(t, ok)
	assert.Equal(t, []string{"v"}, values)

	_, ok = headers.lookup("X-Missing")
	assert.False(t, ok)

	_, ok = Headers(nil).lookup("anything")
	assert.False(t, ok)
}
