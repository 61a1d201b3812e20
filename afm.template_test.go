package afm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileTemplate(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []TemplateSegment
	}{
		{
			name:   "plain text",
			source: "Process this event.",
			want:   []TemplateSegment{LiteralSegment{Text: "Process this event."}},
		},
		{
			name:   "empty template",
			source: "",
			want:   nil,
		},
		{
			name:   "payload path",
			source: "Event: ${http:payload.event}",
			want: []TemplateSegment{
				LiteralSegment{Text: "Event: "},
				PayloadSegment{Path: "event"},
			},
		},
		{
			name:   "whole payload",
			source: "${http:payload}",
			want:   []TemplateSegment{PayloadSegment{Path: ""}},
		},
		{
			name:   "header reference",
			source: "From ${http:header.X-Source}",
			want: []TemplateSegment{
				LiteralSegment{Text: "From "},
				HeaderSegment{Name: "X-Source"},
			},
		},
		{
			name:   "deep payload path",
			source: "${http:payload.items[0].sku}",
			want:   []TemplateSegment{PayloadSegment{Path: "items[0].sku"}},
		},
		{
			name:   "mixed segments",
			source: "[${http:payload.event}] by ${http:header.X-Hub} end",
			want: []TemplateSegment{
				LiteralSegment{Text: "["},
				PayloadSegment{Path: "event"},
				LiteralSegment{Text: "] by "},
				HeaderSegment{Name: "X-Hub"},
				LiteralSegment{Text: " end"},
			},
		},
		{
			name:   "non-http expression stays literal",
			source: "keep ${env:NAME} as-is",
			want: []TemplateSegment{
				LiteralSegment{Text: "keep "},
				LiteralSegment{Text: "${env:NAME}"},
				LiteralSegment{Text: " as-is"},
			},
		},
		{
			name:   "bare variable stays literal",
			source: "${NAME}",
			want:   []TemplateSegment{LiteralSegment{Text: "${NAME}"}},
		},
		{
			name:   "unknown http subprefix stays literal",
			source: "${http:query.page}",
			want:   []TemplateSegment{LiteralSegment{Text: "${http:query.page}"}},
		},
		{
			name:   "header without name stays literal",
			source: "${http:header}",
			want:   []TemplateSegment{LiteralSegment{Text: "${http:header}"}},
		},
		{
			name:   "trailing dot stays literal",
			source: "${http:payload.}",
			want:   []TemplateSegment{LiteralSegment{Text: "${http:payload.}"}},
		},
		{
			name:   "unmatched open brace is literal to end",
			source: "text ${http:payload.event",
			want:   []TemplateSegment{LiteralSegment{Text: "text ${http:payload.event"}},
		},
		{
			name:   "first close brace ends expression",
			source: "${http:payload.a}} rest",
			want: []TemplateSegment{
				PayloadSegment{Path: "a"},
				LiteralSegment{Text: "} rest"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compiled := CompileTemplate(tt.source)
			assert.Equal(t, tt.source, compiled.Source())
			assert.Equal(t, tt.want, compiled.Segments())
		})
	}
}

func TestCompileTemplateNeverFails(t *testing.T) {
	// Arbitrarily malformed input must still produce a usable template.
	sources := []string{
		"${", "${}", "${http:}", "${http:.}", "$}{", "}}}${{{",
		"${http:payload..}", "${http:header.}",
	}
	for _, source := range sources {
		compiled := CompileTemplate(source)
		require.NotNil(t, compiled, source)
	}
}
