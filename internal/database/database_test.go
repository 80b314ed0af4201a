package database

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/Tomlord1122/task-service/internal/config"
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

func newService(t *testing.T) Service {
	t.Helper()
	srv, err := New(testDB)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	require.NoError(t, srv.GetDB().Exec("DROP TABLE IF EXISTS tasks").Error)
	return srv
}

func TestNew(t *testing.T) {
	srv, err := New(testDB)
	require.NoError(t, err)
	assert.NotNil(t, srv.GetDB())
	assert.NoError(t, srv.Close())
}

func TestNewUnreachable(t *testing.T) {
	cfg := testDB
	cfg.Port = 1
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	srv := newService(t)
	assert.NoError(t, srv.Health(context.Background()))
}

func TestHealthAfterClose(t *testing.T) {
	srv, err := New(testDB)
	require.NoError(t, err)
	require.NoError(t, srv.Close())

	assert.Error(t, srv.Health(context.Background()))
}

func TestInitializeSeedsEmptyTable(t *testing.T) {
	srv := newService(t)
	ctx := context.Background()

	require.NoError(t, Initialize(ctx, srv.GetDB()))

	var tasks []domain.Task
	require.NoError(t, srv.GetDB().Order("id").Find(&tasks).Error)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Setup Kubernetes cluster", tasks[0].Title)
	assert.True(t, tasks[0].Completed)
	assert.Equal(t, "Deploy with Helmfile", tasks[1].Title)
	assert.False(t, tasks[1].Completed)
	assert.Less(t, tasks[0].ID, tasks[1].ID)
	assert.False(t, tasks[0].CreatedAt.IsZero())
}

func TestInitializeIsIdempotent(t *testing.T) {
	srv := newService(t)
	ctx := context.Background()

	require.NoError(t, Initialize(ctx, srv.GetDB()))
	require.NoError(t, Initialize(ctx, srv.GetDB()))

	var count int64
	require.NoError(t, srv.GetDB().Model(&domain.Task{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestInitializeSkipsSeedWhenRowsExist(t *testing.T) {
	srv := newService(t)
	ctx := context.Background()

	require.NoError(t, Initialize(ctx, srv.GetDB()))
	require.NoError(t, srv.GetDB().Exec("DELETE FROM tasks WHERE title = ?", "Deploy with Helmfile").Error)
	require.NoError(t, Initialize(ctx, srv.GetDB()))

	var count int64
	require.NoError(t, srv.GetDB().Model(&domain.Task{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestInitializeFailsOnClosedPool(t *testing.T) {
	srv, err := New(testDB)
	require.NoError(t, err)
	require.NoError(t, srv.Close())

	assert.Error(t, Initialize(context.Background(), srv.GetDB()))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, parseLogLevel("SILENT"))
	assert.Equal(t, logger.Info, parseLogLevel("info"))
	assert.Equal(t, logger.Warn, parseLogLevel("bogus"))
}
