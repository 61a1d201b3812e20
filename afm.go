// Package afm loads and interprets Agent-Flavored Markdown (AFM) documents:
// YAML frontmatter describing an agent (model, interfaces, tools) followed by
// prose Role and Instructions sections.
//
// # Basic Usage
//
// Load an agent document and inspect its classified interfaces:
//
//	interp := afm.MustNew()
//	agent, err := interp.Load([]byte(source))
//	if err != nil {
//	    // startup failure: bad frontmatter, unresolved variable, ...
//	}
//	if agent.Interfaces.Webhook != nil {
//	    // the document declares an event-driven interface
//	}
//
// # Variables
//
// Documents may reference configuration through ${NAME} or ${env:NAME}
// expressions, resolved once at load time against an injected Lookup.
// ${http:...} expressions are deferred to webhook event time and are only
// valid inside a webhook interface's prompt field:
//
//	prompt: "[${http:payload.event}] from ${http:header.X-Forwarded-For}"
//
// Webhook prompts are compiled once into an immutable CompiledTemplate and
// evaluated against each inbound event's JSON payload and headers:
//
//	tmpl := afm.CompileTemplate(webhook.Prompt)
//	input := tmpl.Evaluate(json.RawMessage(body), headers)
//
// Evaluation is fail-soft: unresolvable payload paths and missing headers
// substitute an empty string and never abort delivery.
//
// # Error Handling
//
// Load-time failures (missing frontmatter, malformed YAML, unresolved or
// misplaced variables, duplicate interfaces) are fatal and returned as
// cuserr.CustomError values carrying an error code and field metadata.
package afm
