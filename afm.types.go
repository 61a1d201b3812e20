package afm

// Document is a fully parsed AFM file: the YAML frontmatter metadata plus the
// Role and Instructions sections from the Markdown body. A Document is built
// once at load time and never mutated afterward.
type Document struct {
	Metadata     AgentMetadata
	Role         string
	Instructions string
}

// AgentMetadata is the complete YAML frontmatter content of an AFM file.
// All fields are optional per the AFM specification.
type AgentMetadata struct {
	SpecVersion   string       `yaml:"spec_version,omitempty"`
	Name          string       `yaml:"name,omitempty"`
	Description   string       `yaml:"description,omitempty"`
	Version       string       `yaml:"version,omitempty"`
	Author        string       `yaml:"author,omitempty"`
	Authors       []string     `yaml:"authors,omitempty"`
	IconURL       string       `yaml:"icon_url,omitempty"`
	Provider      *Provider    `yaml:"provider,omitempty"`
	License       string       `yaml:"license,omitempty"`
	Model         *Model       `yaml:"model,omitempty"`
	Interfaces    []Interface  `yaml:"interfaces,omitempty"`
	Tools         *Tools       `yaml:"tools,omitempty"`
	MaxIterations int          `yaml:"max_iterations,omitempty"`
}

// Provider identifies the organization publishing the agent.
type Provider struct {
	Name string `yaml:"name,omitempty"`
	URL  string `yaml:"url,omitempty"`
}

// Model configures the AI model that powers the agent.
type Model struct {
	Name           string                `yaml:"name,omitempty"`
	Provider       string                `yaml:"provider,omitempty"`
	URL            string                `yaml:"url,omitempty"`
	Authentication *ClientAuthentication `yaml:"authentication,omitempty"`
}

// ClientAuthentication configures outbound client credentials. The Type field
// determines which credential fields must be present.
type ClientAuthentication struct {
	Type     string `yaml:"type"`
	Token    string `yaml:"token,omitempty"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`
}

// Validate checks that the fields required by the authentication type are set.
// Unknown types are accepted as implementation-specific.
func (a *ClientAuthentication) Validate() error {
	if a == nil {
		return nil
	}
	switch a.Type {
	case AuthTypeBearer:
		if a.Token == "" {
			return NewAuthConfigError(a.Type)
		}
	case AuthTypeBasic:
		if a.Username == "" || a.Password == "" {
			return NewAuthConfigError(a.Type)
		}
	case AuthTypeAPIKey:
		if a.APIKey == "" {
			return NewAuthConfigError(a.Type)
		}
	}
	return nil
}

// stringFields returns the credential values for scope scanning.
func (a *ClientAuthentication) stringFields() []string {
	if a == nil {
		return nil
	}
	return []string{a.Type, a.Token, a.Username, a.Password, a.APIKey}
}

// Tools is the container for tool configurations.
type Tools struct {
	MCP []MCPServer `yaml:"mcp,omitempty"`
}

// MCPServer is an MCP server connection declaration.
type MCPServer struct {
	Name       string      `yaml:"name"`
	Transport  Transport   `yaml:"transport"`
	ToolFilter *ToolFilter `yaml:"tool_filter,omitempty"`
}

// Transport configures how an MCP server is reached.
type Transport struct {
	Type           string                `yaml:"type"`
	URL            string                `yaml:"url"`
	Authentication *ClientAuthentication `yaml:"authentication,omitempty"`
}

// ToolFilter restricts which externally discovered tool names are exposed.
// Order of the allow list is preserved through filtering.
type ToolFilter struct {
	Allow []string `yaml:"allow,omitempty"`
	Deny  []string `yaml:"deny,omitempty"`
}

// JSONSchema is the schema subset used for interface signatures. Structural
// validation itself is delegated to an external validator; this type only
// carries the declaration.
type JSONSchema struct {
	Type        string                 `yaml:"type"`
	Properties  map[string]*JSONSchema `yaml:"properties,omitempty"`
	Required    []string               `yaml:"required,omitempty"`
	Items       *JSONSchema            `yaml:"items,omitempty"`
	Description string                 `yaml:"description,omitempty"`
}

// ToMap converts the schema declaration into a generic JSON document for the
// external validator.
func (s *JSONSchema) ToMap() map[string]any {
	if s == nil {
		return nil
	}
	result := map[string]any{"type": s.Type}
	if s.Properties != nil {
		props := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = prop.ToMap()
		}
		result["properties"] = props
	}
	if s.Required != nil {
		result["required"] = s.Required
	}
	if s.Items != nil {
		result["items"] = s.Items.ToMap()
	}
	if s.Description != "" {
		result["description"] = s.Description
	}
	return result
}

// DefaultJSONSchema returns the schema applied when a signature omits one.
func DefaultJSONSchema() *JSONSchema {
	return &JSONSchema{Type: DefaultSchemaType}
}

// Signature is the input/output contract of an agent interface.
type Signature struct {
	Input  *JSONSchema `yaml:"input,omitempty"`
	Output *JSONSchema `yaml:"output,omitempty"`
}

// withDefaults fills missing input/output schemas with {type: "string"}.
func (s *Signature) withDefaults() Signature {
	sig := Signature{}
	if s != nil {
		sig = *s
	}
	if sig.Input == nil {
		sig.Input = DefaultJSONSchema()
	}
	if sig.Output == nil {
		sig.Output = DefaultJSONSchema()
	}
	return sig
}

// HTTPExposure binds an interface to an HTTP path on the external listener.
type HTTPExposure struct {
	Path string `yaml:"path"`
}

// Exposure configures where an interface is reachable.
type Exposure struct {
	HTTP *HTTPExposure `yaml:"http,omitempty"`
}

// withDefaultPath fills a missing HTTP path.
func (e *Exposure) withDefaultPath(path string) Exposure {
	exp := Exposure{}
	if e != nil {
		exp = *e
	}
	if exp.HTTP == nil || exp.HTTP.Path == "" {
		exp.HTTP = &HTTPExposure{Path: path}
	}
	return exp
}

// Subscription is the pub/sub descriptor of a webhook interface.
type Subscription struct {
	Protocol       string                `yaml:"protocol"`
	Hub            string                `yaml:"hub,omitempty"`
	Topic          string                `yaml:"topic,omitempty"`
	Callback       string                `yaml:"callback,omitempty"`
	Secret         string                `yaml:"secret,omitempty"`
	Authentication *ClientAuthentication `yaml:"authentication,omitempty"`
}

// Interface is a single entry of the frontmatter interfaces list. The Type
// field discriminates the variant; ClassifyInterfaces validates the list and
// produces the typed InterfaceSet.
type Interface struct {
	Type         string        `yaml:"type"`
	Prompt       string        `yaml:"prompt,omitempty"`
	Signature    *Signature    `yaml:"signature,omitempty"`
	Exposure     *Exposure     `yaml:"exposure,omitempty"`
	Subscription *Subscription `yaml:"subscription,omitempty"`
}

// ConsoleChat is a validated console interface with defaults applied.
type ConsoleChat struct {
	Signature Signature
}

// WebChat is a validated web chat interface with defaults applied.
type WebChat struct {
	Signature Signature
	Exposure  Exposure
}

// Webhook is a validated event-driven interface with defaults applied.
// Prompt, when set, is the raw template compiled once at load time.
type Webhook struct {
	Prompt       string
	Signature    Signature
	Exposure     Exposure
	Subscription Subscription
}

// InterfaceSet groups the classified interfaces of a document. At most one
// instance of each variant may be present.
type InterfaceSet struct {
	Console *ConsoleChat
	Web     *WebChat
	Webhook *Webhook
}
