//go:build integration

package afm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgresContainer creates an ephemeral PostgreSQL container for testing.
func setupPostgresContainer(t *testing.T) (*PostgresStorage, func()) {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15",
		postgres.WithDatabase("afm_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	storage, err := NewPostgresStorage(PostgresConfig{
		ConnectionString: connStr,
		AutoMigrate:      true,
		QueryTimeout:     30 * time.Second,
	})
	require.NoError(t, err, "failed to create postgres storage")

	cleanup := func() {
		if storage != nil {
			_ = storage.Close()
		}
		if container != nil {
			_ = container.Terminate(ctx)
		}
	}

	return storage, cleanup
}

func TestPostgres_E2E_BasicCRUD(t *testing.T) {
	storage, cleanup := setupPostgresContainer(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("Save", func(t *testing.T) {
		agent := &StoredAgent{
			Name:        "order-agent",
			Source:      minimalAgent,
			Description: "order processing",
			Tags:        []string{"prod", "orders"},
		}

		err := storage.Save(ctx, agent)
		require.NoError(t, err)
		assert.False(t, agent.CreatedAt.IsZero())
		assert.False(t, agent.UpdatedAt.IsZero())
	})

	t.Run("Get", func(t *testing.T) {
		agent, err := storage.Get(ctx, "order-agent")
		require.NoError(t, err)
		assert.Equal(t, "order-agent", agent.Name)
		assert.Equal(t, minimalAgent, agent.Source)
		assert.Equal(t, "order processing", agent.Description)
		assert.Contains(t, agent.Tags, "orders")
	})

	t.Run("GetMissing", func(t *testing.T) {
		_, err := storage.Get(ctx, "absent")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgAgentNotFound)
	})

	t.Run("Upsert", func(t *testing.T) {
		before, err := storage.Get(ctx, "order-agent")
		require.NoError(t, err)

		update := &StoredAgent{Name: "order-agent", Source: "---\nname: v2\n---\n"}
		require.NoError(t, storage.Save(ctx, update))

		after, err := storage.Get(ctx, "order-agent")
		require.NoError(t, err)
		assert.Equal(t, update.Source, after.Source)
		assert.Equal(t, before.CreatedAt.Unix(), after.CreatedAt.Unix())
		assert.True(t, after.UpdatedAt.After(after.CreatedAt) ||
			after.UpdatedAt.Equal(after.CreatedAt))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, storage.Delete(ctx, "order-agent"))

		err := storage.Delete(ctx, "order-agent")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgAgentNotFound)
	})
}

func TestPostgres_E2E_List(t *testing.T) {
	storage, cleanup := setupPostgresContainer(t)
	defer cleanup()
	ctx := context.Background()

	seed := []*StoredAgent{
		{Name: "billing", Source: "b", Tags: []string{"prod"}},
		{Name: "order-archive", Source: "a", Tags: []string{"staging", "orders"}},
		{Name: "orders", Source: "o", Tags: []string{"prod", "orders"}},
	}
	for _, agent := range seed {
		require.NoError(t, storage.Save(ctx, agent))
	}

	t.Run("All", func(t *testing.T) {
		all, err := storage.List(ctx, AgentQuery{})
		require.NoError(t, err)
		assert.Equal(t, []string{"billing", "order-archive", "orders"}, agentNames(all))
	})

	t.Run("NamePrefix", func(t *testing.T) {
		got, err := storage.List(ctx, AgentQuery{NamePrefix: "order"})
		require.NoError(t, err)
		assert.Equal(t, []string{"order-archive", "orders"}, agentNames(got))
	})

	t.Run("NameContains", func(t *testing.T) {
		got, err := storage.List(ctx, AgentQuery{NameContains: "ill"})
		require.NoError(t, err)
		assert.Equal(t, []string{"billing"}, agentNames(got))
	})

	t.Run("TagsAll", func(t *testing.T) {
		got, err := storage.List(ctx, AgentQuery{Tags: []string{"prod", "orders"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"orders"}, agentNames(got))
	})

	t.Run("Window", func(t *testing.T) {
		got, err := storage.List(ctx, AgentQuery{Limit: 1, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, []string{"order-archive"}, agentNames(got))
	})
}

func TestPostgres_E2E_StoredAgentLoad(t *testing.T) {
	storage, cleanup := setupPostgresContainer(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, storage.Save(ctx, &StoredAgent{
		Name:   "support-agent",
		Source: minimalAgent,
	}))

	interp := MustNew(WithStorage(storage))
	agent, err := interp.LoadStored(ctx, "support-agent")
	require.NoError(t, err)
	assert.Equal(t, "support-agent", agent.Document.Metadata.Name)
	assert.NotNil(t, agent.Interfaces.Console)
}
