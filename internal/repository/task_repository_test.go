package repository

import (
	"context"
	"errors"
	"log"
	"os"
	"strconv"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Tomlord1122/task-service/internal/config"
	"github.com/Tomlord1122/task-service/internal/database"
	"github.com/Tomlord1122/task-service/internal/database/dbtest"
	"github.com/Tomlord1122/task-service/internal/domain"
)

var testDB config.DBConfig

func TestMain(m *testing.M) {
	ctx := context.Background()
	cfg, teardown, err := dbtest.StartPostgres(ctx)
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}
	testDB = cfg

	code := m.Run()

	if err := teardown(ctx); err != nil {
		log.Printf("could not teardown postgres container: %v", err)
	}
	os.Exit(code)
}

// freshDB returns a handle to a tasks table that exists but holds no rows.
func freshDB(t *testing.T) *gorm.DB {
	t.Helper()
	srv, err := database.New(testDB)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	db := srv.GetDB()
	require.NoError(t, db.Exec("DROP TABLE IF EXISTS tasks").Error)
	require.NoError(t, database.Initialize(context.Background(), db))
	require.NoError(t, db.Exec("TRUNCATE tasks").Error)
	return db
}

func TestCreateAssignsIDAndDefaults(t *testing.T) {
	repo := NewGormTaskRepository(freshDB(t))
	ctx := context.Background()

	first := &domain.Task{Title: "write tests"}
	require.NoError(t, repo.Create(ctx, first))
	second := &domain.Task{Title: "ship it"}
	require.NoError(t, repo.Create(ctx, second))

	assert.NotZero(t, first.ID)
	assert.Greater(t, second.ID, first.ID)
	assert.False(t, second.Completed)
	assert.False(t, second.CreatedAt.IsZero())
}

func TestListOrderedByID(t *testing.T) {
	repo := NewGormTaskRepository(freshDB(t))
	ctx := context.Background()

	var ids []uint
	for _, title := range []string{"c", "a", "b"} {
		task := &domain.Task{Title: title}
		require.NoError(t, repo.Create(ctx, task))
		ids = append(ids, task.ID)
	}
	_, err := repo.Delete(ctx, strconv.FormatUint(uint64(ids[1]), 10))
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, &domain.Task{Title: "d"}))

	tasks, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	for i := 1; i < len(tasks); i++ {
		assert.Less(t, tasks[i-1].ID, tasks[i].ID)
	}
	assert.Equal(t, []string{"c", "b", "d"}, []string{tasks[0].Title, tasks[1].Title, tasks[2].Title})
}

func TestListEmpty(t *testing.T) {
	repo := NewGormTaskRepository(freshDB(t))

	tasks, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestDelete(t *testing.T) {
	repo := NewGormTaskRepository(freshDB(t))
	ctx := context.Background()

	task := &domain.Task{Title: "temporary"}
	require.NoError(t, repo.Create(ctx, task))
	keep := &domain.Task{Title: "keep"}
	require.NoError(t, repo.Create(ctx, keep))
	id := strconv.FormatUint(uint64(task.ID), 10)

	n, err := repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	tasks, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, keep.ID, tasks[0].ID)
}

func TestDeleteUnknownID(t *testing.T) {
	repo := NewGormTaskRepository(freshDB(t))

	n, err := repo.Delete(context.Background(), "999999")
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestDeleteNonNumericID(t *testing.T) {
	repo := NewGormTaskRepository(freshDB(t))

	_, err := repo.Delete(context.Background(), "abc")
	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr), "expected a postgres error, got %v", err)
	assert.Equal(t, "22P02", pgErr.Code)
}
