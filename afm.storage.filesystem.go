package afm

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// FilesystemStorage stores agents as files on the filesystem.
// Each agent is a raw .afm document next to a JSON sidecar holding the
// description, tags, and timestamps.
//
// Directory structure:
//
//	<root>/
//	  <agent-name>.afm
//	  <agent-name>.meta.json
type FilesystemStorage struct {
	mu     sync.RWMutex
	root   string
	closed bool
}

// filesystemMetaSuffix is the sidecar file suffix next to each .afm document.
const filesystemMetaSuffix = ".meta.json"

// filesystemMeta is the sidecar file structure.
type filesystemMeta struct {
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FilesystemStorageDriver is the driver for creating FilesystemStorage instances.
type FilesystemStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameFilesystem, &FilesystemStorageDriver{})
}

// Open creates a new FilesystemStorage instance.
// The connection string is the root directory path.
func (d *FilesystemStorageDriver) Open(connectionString string) (AgentStorage, error) {
	return NewFilesystemStorage(connectionString)
}

// NewFilesystemStorage creates a new filesystem-based agent storage.
// The root directory will be created if it doesn't exist.
func NewFilesystemStorage(root string) (*FilesystemStorage, error) {
	if root == "" {
		return nil, NewInvalidStorageRootError()
	}

	if err := os.MkdirAll(root, FilesystemDirPermissions); err != nil {
		return nil, NewStorageIOError(err)
	}

	return &FilesystemStorage{
		root: root,
	}, nil
}

// Get retrieves an agent by name.
func (s *FilesystemStorage) Get(ctx context.Context, name string) (*StoredAgent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := validateAgentName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	return s.loadAgent(name)
}

// List returns agents matching the query, sorted by name.
func (s *FilesystemStorage) List(ctx context.Context, query AgentQuery) ([]*StoredAgent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, NewStorageIOError(err)
	}

	var results []*StoredAgent
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), AgentFileExtension) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), AgentFileExtension)

		agent, err := s.loadAgent(name)
		if err != nil {
			continue
		}
		if query.matches(agent) {
			results = append(results, agent)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Name < results[j].Name
	})

	return applyWindow(results, query), nil
}

// Save stores an agent, creating or replacing by name.
func (s *FilesystemStorage) Save(ctx context.Context, agent *StoredAgent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := validateAgentName(agent.Name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	now := time.Now()
	meta := filesystemMeta{
		Description: agent.Description,
		Tags:        agent.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if existing, err := s.loadMeta(agent.Name); err == nil {
		meta.CreatedAt = existing.CreatedAt
	}

	if err := os.WriteFile(s.agentPath(agent.Name),
		[]byte(agent.Source), FilesystemFilePermissions); err != nil {
		return NewStorageIOError(err)
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return NewStorageIOError(err)
	}
	if err := os.WriteFile(s.metaPath(agent.Name), data, FilesystemFilePermissions); err != nil {
		return NewStorageIOError(err)
	}

	agent.CreatedAt = meta.CreatedAt
	agent.UpdatedAt = meta.UpdatedAt
	return nil
}

// Delete removes an agent by name.
func (s *FilesystemStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := validateAgentName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	path := s.agentPath(name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return NewAgentNotFoundError(name)
	}

	if err := os.Remove(path); err != nil {
		return NewStorageIOError(err)
	}
	// Sidecar may be missing for documents dropped in by hand
	_ = os.Remove(s.metaPath(name))
	return nil
}

// Close marks the storage as closed.
func (s *FilesystemStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

func (s *FilesystemStorage) agentPath(name string) string {
	return filepath.Join(s.root, name+AgentFileExtension)
}

func (s *FilesystemStorage) metaPath(name string) string {
	return filepath.Join(s.root, name+filesystemMetaSuffix)
}

// loadAgent reads a document and its sidecar from disk (no locking).
func (s *FilesystemStorage) loadAgent(name string) (*StoredAgent, error) {
	source, err := os.ReadFile(s.agentPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewAgentNotFoundError(name)
		}
		return nil, NewStorageIOError(err)
	}

	agent := &StoredAgent{
		Name:   name,
		Source: string(source),
	}

	// Hand-placed .afm files have no sidecar; fall back to file mtime
	meta, err := s.loadMeta(name)
	if err == nil {
		agent.Description = meta.Description
		agent.Tags = meta.Tags
		agent.CreatedAt = meta.CreatedAt
		agent.UpdatedAt = meta.UpdatedAt
	} else if info, statErr := os.Stat(s.agentPath(name)); statErr == nil {
		agent.CreatedAt = info.ModTime()
		agent.UpdatedAt = info.ModTime()
	}

	return agent, nil
}

// loadMeta reads the sidecar file (no locking).
func (s *FilesystemStorage) loadMeta(name string) (*filesystemMeta, error) {
	data, err := os.ReadFile(s.metaPath(name))
	if err != nil {
		return nil, err
	}

	var meta filesystemMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, NewStorageIOError(err)
	}
	return &meta, nil
}

// validateAgentName validates an agent name for filesystem safety.
// Prevents path traversal attacks and invalid filesystem characters.
func validateAgentName(name string) error {
	if name == "" {
		return NewInvalidAgentNameError(name)
	}
	if strings.Contains(name, "..") {
		return NewInvalidAgentNameError(name)
	}
	if strings.ContainsAny(name, "/\\:*?\"<>|") {
		return NewInvalidAgentNameError(name)
	}
	return nil
}
