package afm

import (
	"context"
	"strings"
	"sync"
	"time"
)

// StoredAgent is an agent document held in a storage backend.
type StoredAgent struct {
	// Name is the unique agent name used for lookups.
	Name string `json:"name"`

	// Source is the raw AFM document text.
	Source string `json:"source"`

	// Description is a short operator-facing summary.
	Description string `json:"description,omitempty"`

	// Tags for categorization and querying.
	Tags []string `json:"tags,omitempty"`

	// CreatedAt is when the agent was first saved.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the agent was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}

// AgentQuery defines filters for listing stored agents.
type AgentQuery struct {
	// NamePrefix filters to names starting with this prefix.
	NamePrefix string

	// NameContains filters to names containing this substring.
	NameContains string

	// Tags filters to agents having ALL specified tags.
	Tags []string

	// Limit is the maximum number of results (0 = no limit).
	Limit int

	// Offset is the number of results to skip.
	Offset int
}

// matches applies the query to one stored agent.
func (q AgentQuery) matches(agent *StoredAgent) bool {
	if q.NamePrefix != "" && !strings.HasPrefix(agent.Name, q.NamePrefix) {
		return false
	}
	if q.NameContains != "" && !strings.Contains(agent.Name, q.NameContains) {
		return false
	}
	for _, want := range q.Tags {
		found := false
		for _, have := range agent.Tags {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// AgentStorage is the interface for pluggable agent document backends.
// Implementations must be safe for concurrent use.
type AgentStorage interface {
	// Get retrieves an agent by name. Returns an agent-not-found error when
	// the name is unknown.
	Get(ctx context.Context, name string) (*StoredAgent, error)

	// List returns agents matching the query, sorted by name.
	List(ctx context.Context, query AgentQuery) ([]*StoredAgent, error)

	// Save stores an agent, creating or replacing by name. CreatedAt and
	// UpdatedAt are managed by the implementation.
	Save(ctx context.Context, agent *StoredAgent) error

	// Delete removes an agent by name.
	Delete(ctx context.Context, name string) error

	// Close releases backend resources.
	Close() error
}

// StorageDriver creates AgentStorage instances from a connection string.
type StorageDriver interface {
	Open(connectionString string) (AgentStorage, error)
}

var (
	storageDriverMu sync.RWMutex
	storageDrivers  = make(map[string]StorageDriver)
)

// RegisterStorageDriver adds a storage driver to the registry.
func RegisterStorageDriver(name string, driver StorageDriver) {
	storageDriverMu.Lock()
	defer storageDriverMu.Unlock()
	storageDrivers[name] = driver
}

// OpenStorage creates a storage backend by driver name and connection
// string.
func OpenStorage(driver, connectionString string) (AgentStorage, error) {
	storageDriverMu.RLock()
	d, ok := storageDrivers[driver]
	storageDriverMu.RUnlock()
	if !ok {
		return nil, NewUnknownStorageDriverError(driver)
	}
	return d.Open(connectionString)
}

// copyStoredAgent returns a defensive copy so callers cannot mutate backend
// state.
func copyStoredAgent(agent *StoredAgent) *StoredAgent {
	cp := *agent
	if agent.Tags != nil {
		cp.Tags = append([]string(nil), agent.Tags...)
	}
	return &cp
}
