package afm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Fenced code block patterns for extracting JSON from model output.
var (
	jsonBlockPattern    = regexp.MustCompile("```json\\s*([\\s\\S]*?)\\s*```")
	genericBlockPattern = regexp.MustCompile("```\\s*([\\s\\S]*?)\\s*```")
)

// SignatureValidator validates interface inputs and outputs against the
// signature's declared schemas. The structural validation algorithm is the
// external jsonschema compiler's; this type only assembles its two arguments
// and surfaces pass/fail. Compiled once at load time, read-only afterward.
type SignatureValidator struct {
	input          *jsonschema.Schema
	output         *jsonschema.Schema
	outputIsString bool
}

// CompileSignature compiles a signature's input and output schemas.
func CompileSignature(sig Signature) (*SignatureValidator, error) {
	sig = sig.withDefaults()

	input, err := compileSchema("signature_input.json", sig.Input)
	if err != nil {
		return nil, err
	}
	output, err := compileSchema("signature_output.json", sig.Output)
	if err != nil {
		return nil, err
	}

	return &SignatureValidator{
		input:          input,
		output:         output,
		outputIsString: sig.Output.Type == DefaultSchemaType,
	}, nil
}

func compileSchema(name string, schema *JSONSchema) (*jsonschema.Schema, error) {
	data, err := json.Marshal(schema.ToMap())
	if err != nil {
		return nil, NewSchemaCompileError(err)
	}
	compiled, err := jsonschema.CompileString(name, string(data))
	if err != nil {
		return nil, NewSchemaCompileError(err)
	}
	return compiled, nil
}

// ValidateInput checks a decoded JSON instance against the input schema.
// Validation failures are the external validator's errors, passed through
// as-is.
func (v *SignatureValidator) ValidateInput(instance any) error {
	return v.input.Validate(instance)
}

// ValidateOutput checks a decoded JSON instance against the output schema.
func (v *SignatureValidator) ValidateOutput(instance any) error {
	return v.output.Validate(instance)
}

// OutputIsString reports whether the declared output is a plain string, in
// which case agent responses are passed through without coercion.
func (v *SignatureValidator) OutputIsString() bool {
	return v.outputIsString
}

// CoerceOutput converts a raw agent response into a value matching the
// output schema. String outputs pass through unchanged. For structured
// outputs the response is stripped of fenced code blocks, decoded as JSON,
// and validated.
func (v *SignatureValidator) CoerceOutput(response string) (any, error) {
	if v.outputIsString {
		return response, nil
	}

	var instance any
	if err := json.Unmarshal([]byte(ExtractJSONBlock(response)), &instance); err != nil {
		return nil, NewInvalidPayloadError(err)
	}
	if err := v.output.Validate(instance); err != nil {
		return nil, err
	}
	return instance, nil
}

// ExtractJSONBlock pulls the JSON content out of a fenced ```json block, a
// generic fenced block, or returns the trimmed response unchanged.
func ExtractJSONBlock(response string) string {
	if m := jsonBlockPattern.FindStringSubmatch(response); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := genericBlockPattern.FindStringSubmatch(response); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(response)
}
