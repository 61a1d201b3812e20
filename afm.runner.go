package afm

import (
	"context"
	"sort"
	"sync"
)

// AgentRunner executes evaluated prompts against a model backend. This core
// only constructs the runner's input string; prompt orchestration and tool
// calling live behind this interface.
type AgentRunner interface {
	// Name identifies the backend.
	Name() string

	// Connect prepares the backend (model client, MCP sessions).
	Connect(ctx context.Context) error

	// Run executes one input within a conversation session and returns the
	// agent's textual response.
	Run(ctx context.Context, input string, sessionID string) (string, error)

	// ClearHistory drops the conversation state of a session.
	ClearHistory(sessionID string)

	// Disconnect releases backend resources.
	Disconnect(ctx context.Context) error
}

// RunnerFactory builds a runner for a loaded document.
type RunnerFactory func(doc *Document, interfaces *InterfaceSet) (AgentRunner, error)

var (
	runnerMu       sync.RWMutex
	runnerRegistry = make(map[string]RunnerFactory)
)

// RegisterRunner adds a runner backend to the registry. Registering the same
// name twice panics, mirroring database/sql driver registration.
func RegisterRunner(name string, factory RunnerFactory) {
	runnerMu.Lock()
	defer runnerMu.Unlock()
	if _, exists := runnerRegistry[name]; exists {
		panic(ErrMsgRunnerExists + ": " + name)
	}
	runnerRegistry[name] = factory
}

// LoadRunner returns the factory registered under name. An empty name
// selects the first registered backend in lexical order.
func LoadRunner(name string) (RunnerFactory, error) {
	runnerMu.RLock()
	defer runnerMu.RUnlock()

	if len(runnerRegistry) == 0 {
		return nil, NewNoRunnersError()
	}

	if name == "" {
		names := registeredRunnerNames()
		return runnerRegistry[names[0]], nil
	}

	factory, ok := runnerRegistry[name]
	if !ok {
		return nil, NewRunnerNotFoundError(name, registeredRunnerNames())
	}
	return factory, nil
}

// registeredRunnerNames returns the sorted backend names. Callers must hold
// runnerMu.
func registeredRunnerNames() []string {
	names := make([]string, 0, len(runnerRegistry))
	for name := range runnerRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
