// Package dbtest starts a throwaway PostgreSQL container for integration tests.
package dbtest

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Tomlord1122/task-service/internal/config"
)

const (
	dbName = "database"
	dbUser = "user"
	dbPass = "password"
)

// StartPostgres runs a postgres container and returns a DBConfig pointing at
// it together with a function that terminates the container.
func StartPostgres(ctx context.Context) (config.DBConfig, func(context.Context) error, error) {
	container, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPass),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return config.DBConfig{}, nil, fmt.Errorf("start postgres container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return config.DBConfig{}, nil, fmt.Errorf("container host: %w", err)
	}
	mapped, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = container.Terminate(ctx)
		return config.DBConfig{}, nil, fmt.Errorf("container port: %w", err)
	}
	port, err := strconv.Atoi(mapped.Port())
	if err != nil {
		_ = container.Terminate(ctx)
		return config.DBConfig{}, nil, fmt.Errorf("parse container port %q: %w", mapped.Port(), err)
	}

	cfg := config.DBConfig{
		Host:            host,
		Port:            port,
		Name:            dbName,
		User:            dbUser,
		Password:        dbPass,
		SSLMode:         "disable",
		LogLevel:        "silent",
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
	}
	terminate := func(ctx context.Context) error {
		return container.Terminate(ctx)
	}
	return cfg, terminate, nil
}
