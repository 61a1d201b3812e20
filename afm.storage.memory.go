package afm

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStorage is an in-memory implementation of AgentStorage.
// It is primarily intended for testing and development.
// All data is lost when the process terminates.
type MemoryStorage struct {
	mu     sync.RWMutex
	agents map[string]*StoredAgent
	closed bool
}

// MemoryStorageDriver is the driver for creating MemoryStorage instances.
type MemoryStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameMemory, &MemoryStorageDriver{})
}

// Open creates a new MemoryStorage instance.
// The connection string is ignored for memory storage.
func (d *MemoryStorageDriver) Open(connectionString string) (AgentStorage, error) {
	return NewMemoryStorage(), nil
}

// NewMemoryStorage creates a new in-memory agent storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		agents: make(map[string]*StoredAgent),
	}
}

// Get retrieves an agent by name.
func (s *MemoryStorage) Get(ctx context.Context, name string) (*StoredAgent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	agent, ok := s.agents[name]
	if !ok {
		return nil, NewAgentNotFoundError(name)
	}

	return copyStoredAgent(agent), nil
}

// List returns agents matching the query, sorted by name.
func (s *MemoryStorage) List(ctx context.Context, query AgentQuery) ([]*StoredAgent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	var results []*StoredAgent
	for _, agent := range s.agents {
		if query.matches(agent) {
			results = append(results, copyStoredAgent(agent))
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Name < results[j].Name
	})

	return applyWindow(results, query), nil
}

// Save stores an agent, creating or replacing by name.
func (s *MemoryStorage) Save(ctx context.Context, agent *StoredAgent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if agent.Name == "" {
		return NewInvalidAgentNameError(agent.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	now := time.Now()
	stored := copyStoredAgent(agent)
	stored.UpdatedAt = now
	if existing, ok := s.agents[agent.Name]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}

	// Reflect generated timestamps back to the caller's struct
	agent.CreatedAt = stored.CreatedAt
	agent.UpdatedAt = stored.UpdatedAt

	s.agents[agent.Name] = stored
	return nil
}

// Delete removes an agent by name.
func (s *MemoryStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	if _, ok := s.agents[name]; !ok {
		return NewAgentNotFoundError(name)
	}

	delete(s.agents, name)
	return nil
}

// Close marks the storage as closed.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.agents = nil
	return nil
}

// applyWindow applies query offset and limit to a sorted result set.
func applyWindow(results []*StoredAgent, query AgentQuery) []*StoredAgent {
	if query.Offset > 0 {
		if query.Offset >= len(results) {
			return []*StoredAgent{}
		}
		results = results[query.Offset:]
	}
	if query.Limit > 0 && len(results) > query.Limit {
		results = results[:query.Limit]
	}
	return results
}
