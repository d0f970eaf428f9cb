package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	postgresContainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	postgresDriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"library-catalog-service/internal/domain"
	"library-catalog-service/internal/infra/postgres/migrations"
)

// setupTestDB starts a PostgreSQL testcontainer, runs the migrations and
// returns a connected GORM DB.
//
// Requires Docker. Skip with: go test -short
func setupTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()

	ctx := context.Background()

	pgContainer, err := postgresContainer.Run(ctx,
		"postgres:16-alpine",
		postgresContainer.WithDatabase("testdb"),
		postgresContainer.WithUsername("testuser"),
		postgresContainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container (is Docker running? use -short to skip): %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	db, err := gorm.Open(postgresDriver.Open(connStr), &gorm.Config{})
	require.NoError(t, err, "Failed to connect to test database")

	require.NoError(t, migrations.Run(db, zap.NewNop()), "Failed to run migrations")

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return db, cleanup
}

func createTestResource(providerID, externalID string) *domain.SearchResult {
	return &domain.SearchResult{
		ProviderID:   providerID,
		ExternalID:   externalID,
		Title:        "Gestão de projetos",
		Type:         domain.ResourceTypeVideo,
		Author:       "Ana Souza",
		Subject:      "Administração",
		Year:         2021,
		Language:     "Português",
		DocumentType: "Aula",
		Tags:         []string{"gestao", "projetos"},
		Duration:     "12:30",
	}
}

func TestRepository_UpsertInsertsAndUpdates(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	resource := createTestResource("videos", "v-1")
	require.NoError(t, repo.Upsert(ctx, resource))
	assert.NotEmpty(t, resource.ID, "ID should be generated")
	assert.False(t, resource.CreatedAt.IsZero())

	originalID := resource.ID
	originalUpdatedAt := resource.UpdatedAt
	time.Sleep(10 * time.Millisecond)

	resource.Title = "Gestão de projetos ágeis"
	resource.Tags = []string{"agil"}
	require.NoError(t, repo.Upsert(ctx, resource))

	assert.Equal(t, originalID, resource.ID, "ID should remain unchanged")
	assert.True(t, resource.UpdatedAt.After(originalUpdatedAt))

	got, err := repo.GetByProviderAndExternalID(ctx, "videos", "v-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Gestão de projetos ágeis", got.Title)
	assert.Equal(t, []string{"agil"}, got.Tags)
}

func TestRepository_BulkUpsertAndList(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	existing := createTestResource("videos", "v-1")
	require.NoError(t, repo.Upsert(ctx, existing))

	book := createTestResource("books", "b-1")
	book.Type = domain.ResourceTypeTitle
	book.Title = "Gestão estratégica"
	book.Year = 2018
	book.Pages = 320
	book.Duration = ""

	batch := []*domain.SearchResult{
		{ProviderID: "videos", ExternalID: "v-1", Title: "Updated", Type: domain.ResourceTypeVideo, Year: 2024},
		createTestResource("videos", "v-2"),
		book,
	}
	require.NoError(t, repo.BulkUpsert(ctx, batch))

	assert.Equal(t, existing.ID, batch[0].ID, "existing ID should be kept")
	assert.NotEmpty(t, batch[1].ID)
	assert.NotEmpty(t, batch[2].ID)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Updated", all[0].Title, "newest year first")
	assert.Equal(t, "Gestão estratégica", all[2].Title)
	assert.Equal(t, 320, all[2].Pages)

	total, err := repo.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	books, err := repo.Count(ctx, domain.ResourceTypeTitle)
	require.NoError(t, err)
	assert.Equal(t, int64(1), books)
}

func TestRepository_GetByIDAndDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	resource := createTestResource("videos", "v-1")
	require.NoError(t, repo.Upsert(ctx, resource))

	got, err := repo.GetByID(ctx, resource.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ana Souza", got.Author)
	assert.Equal(t, "Português", got.Language)

	require.NoError(t, repo.Delete(ctx, resource.ID))

	got, err = repo.GetByID(ctx, resource.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "deleted resource should not be found")
}

func TestRepository_ConcurrentUpserts(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	const goroutines = 10
	var wg sync.WaitGroup
	errChan := make(chan error, goroutines)

	for i := range goroutines {
		wg.Add(1)
		go func(iteration int) {
			defer wg.Done()

			resource := createTestResource("videos", "concurrent")
			resource.Title = fmt.Sprintf("Concurrent %d", iteration)
			if err := repo.Upsert(ctx, resource); err != nil {
				errChan <- err
			}
		}(i)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		t.Errorf("concurrent upsert failed: %v", err)
	}

	count, err := repo.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "same provider key should yield one row")
}

func TestMigrations_RollbackAndReapply(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, migrations.Rollback(db, zap.NewNop()))
	assert.True(t, db.Migrator().HasTable(&ResourceModel{}), "only the index migration was undone")

	require.NoError(t, migrations.Run(db, zap.NewNop()))
	require.NoError(t, migrations.Run(db, zap.NewNop()), "running twice is a no-op")
}
