package afm

import (
	"context"
	"os"

	"go.uber.org/zap"
)

// Interpreter loads AFM documents into runnable Agents. It holds the
// load-time collaborators: variable lookup, logger, optional storage and
// runner selection.
type Interpreter struct {
	config *interpreterConfig
	logger *zap.Logger
}

// interpreterConfig holds the internal configuration for an Interpreter.
type interpreterConfig struct {
	lookup           Lookup
	logger           *zap.Logger
	runnerName       string
	attachRunner     bool
	verifySignatures bool
	storage          AgentStorage
}

// Option is a functional option for configuring the Interpreter.
type Option func(*interpreterConfig)

func defaultInterpreterConfig() *interpreterConfig {
	return &interpreterConfig{
		lookup:           EnvLookup{},
		verifySignatures: true,
	}
}

// WithLookup sets the variable lookup used at document load time.
// Default: the process environment.
func WithLookup(lookup Lookup) Option {
	return func(c *interpreterConfig) {
		if lookup != nil {
			c.lookup = lookup
		}
	}
}

// WithLogger sets the logger for the interpreter and everything it builds.
// Default: nil (no logging).
func WithLogger(logger *zap.Logger) Option {
	return func(c *interpreterConfig) {
		c.logger = logger
	}
}

// WithRunner selects a registered runner backend to attach to loaded
// agents. An empty name selects the first registered backend.
func WithRunner(name string) Option {
	return func(c *interpreterConfig) {
		c.runnerName = name
		c.attachRunner = true
	}
}

// WithSignatureVerification toggles HMAC verification of webhook bodies.
// Default: enabled.
func WithSignatureVerification(enabled bool) Option {
	return func(c *interpreterConfig) {
		c.verifySignatures = enabled
	}
}

// WithStorage attaches an agent storage backend for LoadStored.
func WithStorage(storage AgentStorage) Option {
	return func(c *interpreterConfig) {
		c.storage = storage
	}
}

// New creates an Interpreter with the given options.
func New(opts ...Option) (*Interpreter, error) {
	config := defaultInterpreterConfig()
	for _, opt := range opts {
		opt(config)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Interpreter{
		config: config,
		logger: logger,
	}, nil
}

// MustNew creates an Interpreter and panics on error.
func MustNew(opts ...Option) *Interpreter {
	interp, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return interp
}

// Agent is a fully loaded AFM document: parsed metadata, classified
// interfaces, compiled webhook template and signature validators. Built once
// per load; immutable afterward and safe for concurrent use.
type Agent struct {
	Document   *Document
	Interfaces *InterfaceSet

	webhookHandler   *WebhookHandler
	webhookValidator *SignatureValidator
	webValidator     *SignatureValidator
	runner           AgentRunner
}

// Load parses and classifies a document, compiles its webhook prompt and
// signature schemas, and attaches the configured runner. Every failure here
// is fatal to agent startup and surfaced verbatim.
func (i *Interpreter) Load(source []byte) (*Agent, error) {
	doc, err := ParseWithLookup(source, i.config.lookup)
	if err != nil {
		return nil, err
	}

	interfaces, err := ClassifyInterfaces(doc.Metadata.Interfaces)
	if err != nil {
		return nil, err
	}

	agent := &Agent{
		Document:   doc,
		Interfaces: interfaces,
	}

	if interfaces.Web != nil {
		if agent.webValidator, err = CompileSignature(interfaces.Web.Signature); err != nil {
			return nil, err
		}
	}
	if interfaces.Webhook != nil {
		if agent.webhookValidator, err = CompileSignature(interfaces.Webhook.Signature); err != nil {
			return nil, err
		}
	}

	if i.config.attachRunner {
		factory, err := LoadRunner(i.config.runnerName)
		if err != nil {
			return nil, err
		}
		if agent.runner, err = factory(doc, interfaces); err != nil {
			return nil, err
		}
	}

	if interfaces.Webhook != nil {
		agent.webhookHandler = NewWebhookHandler(interfaces.Webhook, agent.runner, WebhookHandlerConfig{
			VerifySignatures: i.config.verifySignatures,
			Logger:           i.logger,
		})
	}

	i.logger.Info(LogMsgAgentLoaded, zap.String(LogFieldName, doc.Metadata.Name))

	return agent, nil
}

// LoadFile loads an agent document from disk.
func (i *Interpreter) LoadFile(path string) (*Agent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return i.Load(data)
}

// LoadStored loads a named agent document from the configured storage
// backend.
func (i *Interpreter) LoadStored(ctx context.Context, name string) (*Agent, error) {
	if i.config.storage == nil {
		return nil, NewNoStorageError()
	}
	stored, err := i.config.storage.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return i.Load([]byte(stored.Source))
}

// Webhook returns the event handler for the document's webhook interface,
// or an error when none is declared.
func (a *Agent) Webhook() (*WebhookHandler, error) {
	if a.webhookHandler == nil {
		return nil, NewInterfaceConfigError(ErrMsgWebhookNotDeclared)
	}
	return a.webhookHandler, nil
}

// WebhookValidator returns the compiled signature validator of the webhook
// interface, or nil when none is declared.
func (a *Agent) WebhookValidator() *SignatureValidator {
	return a.webhookValidator
}

// WebValidator returns the compiled signature validator of the web chat
// interface, or nil when none is declared.
func (a *Agent) WebValidator() *SignatureValidator {
	return a.webValidator
}

// Runner returns the attached agent runner, or nil when the interpreter was
// built without one.
func (a *Agent) Runner() AgentRunner {
	return a.runner
}
