package afm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileSignatureDefaults(t *testing.T) {
	v, err := CompileSignature(Signature{})
	require.NoError(t, err)

	assert.True(t, v.OutputIsString())
	assert.NoError(t, v.ValidateInput("any text"))
	assert.Error(t, v.ValidateInput(42.0))
}

func TestSignatureValidatorObjectSchema(t *testing.T) {
	sig := Signature{
		Input: &JSONSchema{
			Type: "object",
			Properties: map[string]*JSONSchema{
				"query": {Type: "string"},
				"limit": {Type: "integer"},
			},
			Required: []string{"query"},
		},
		Output: &JSONSchema{
			Type: "object",
			Properties: map[string]*JSONSchema{
				"answer": {Type: "string"},
			},
			Required: []string{"answer"},
		},
	}

	v, err := CompileSignature(sig)
	require.NoError(t, err)
	assert.False(t, v.OutputIsString())

	assert.NoError(t, v.ValidateInput(map[string]any{"query": "hi"}))
	assert.NoError(t, v.ValidateInput(map[string]any{"query": "hi", "limit": 3.0}))
	assert.Error(t, v.ValidateInput(map[string]any{"limit": 3.0}))
	assert.Error(t, v.ValidateInput("not an object"))

	assert.NoError(t, v.ValidateOutput(map[string]any{"answer": "done"}))
	assert.Error(t, v.ValidateOutput(map[string]any{}))
}

func TestSignatureValidatorArraySchema(t *testing.T) {
	v, err := CompileSignature(Signature{
		Input: &JSONSchema{
			Type:  "array",
			Items: &JSONSchema{Type: "string"},
		},
	})
	require.NoError(t, err)

	assert.NoError(t, v.ValidateInput([]any{"a", "b"}))
	assert.Error(t, v.ValidateInput([]any{"a", 1.0}))
}

func TestCoerceOutput(t *testing.T) {
	objectSig := Signature{
		Output: &JSONSchema{
			Type: "object",
			Properties: map[string]*JSONSchema{
				"status": {Type: "string"},
			},
			Required: []string{"status"},
		},
	}

	t.Run("string output passes through", func(t *testing.T) {
		v, err := CompileSignature(Signature{})
		require.NoError(t, err)

		got, err := v.CoerceOutput("plain model response")
		require.NoError(t, err)
		assert.Equal(t, "plain model response", got)
	})

	t.Run("bare json object", func(t *testing.T) {
		v, err := CompileSignature(objectSig)
		require.NoError(t, err)

		got, err := v.CoerceOutput(`{"status": "ok"}`)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"status": "ok"}, got)
	})

	t.Run("fenced json block", func(t *testing.T) {
		v, err := CompileSignature(objectSig)
		require.NoError(t, err)

		got, err := v.CoerceOutput("Here you go:\n```json\n{\"status\": \"ok\"}\n```\n")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"status": "ok"}, got)
	})

	t.Run("invalid json fails", func(t *testing.T) {
		v, err := CompileSignature(objectSig)
		require.NoError(t, err)

		_, err = v.CoerceOutput("not json at all")
		require.Error(t, err)
	})

	t.Run("schema mismatch fails", func(t *testing.T) {
		v, err := CompileSignature(objectSig)
		require.NoError(t, err)

		_, err = v.CoerceOutput(`{"other": 1}`)
		require.Error(t, err)
	})
}

func TestExtractJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{
			name:     "json fence",
			response: "```json\n{\"a\": 1}\n```",
			want:     `{"a": 1}`,
		},
		{
			name:     "generic fence",
			response: "```\n{\"a\": 1}\n```",
			want:     `{"a": 1}`,
		},
		{
			name:     "json fence preferred over generic",
			response: "```\nignored\n```\n```json\n{\"b\": 2}\n```",
			want:     `{"b": 2}`,
		},
		{
			name:     "no fence trims whitespace",
			response: "  {\"a\": 1}\n",
			want:     `{"a": 1}`,
		},
		{
			name:     "surrounding prose",
			response: "Sure, here it is:\n```json\n[1, 2]\n```\nHope that helps.",
			want:     "[1, 2]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSONBlock(tt.response))
		})
	}
}

func TestJSONSchemaToMap(t *testing.T) {
	schema := &JSONSchema{
		Type: "object",
		Properties: map[string]*JSONSchema{
			"tags": {Type: "array", Items: &JSONSchema{Type: "string"}},
		},
		Required:    []string{"tags"},
		Description: "tag container",
	}

	m := schema.ToMap()
	assert.Equal(t, "object", m["type"])
	assert.Equal(t, []string{"tags"}, m["required"])
	assert.Equal(t, "tag container", m["description"])

	props, ok := m["properties"].(map[string]any)
	require.True(t, ok)
	tags, ok := props["tags"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"type": "string"}, tags["items"])

	assert.Nil(t, (*JSONSchema)(nil).ToMap())
}
