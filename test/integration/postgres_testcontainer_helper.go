package integration

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"lockdesk/internal/config"
	"lockdesk/internal/database"
)

const defaultPostgresTestImage = "docker.io/postgres:16-alpine"

type postgresIntegrationEnv struct {
	dsn string
	cfg *config.Config
	db  *gorm.DB

	container testcontainers.Container
}

func newPostgresIntegrationEnv(t *testing.T) *postgresIntegrationEnv {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()
	image := os.Getenv("POSTGRES_TEST_IMAGE")
	if strings.TrimSpace(image) == "" {
		image = defaultPostgresTestImage
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image: image,
			Env: map[string]string{
				"POSTGRES_USER":     "lockdesk",
				"POSTGRES_PASSWORD": "lockdesk",
				"POSTGRES_DB":       "lockdesk_it",
			},
			ExposedPorts: []string{"5432/tcp"},
			WaitingFor: wait.ForListeningPort("5432/tcp").
				WithStartupTimeout(45 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start postgres test container: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("resolve postgres host: %v", err)
	}
	mappedPort, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("resolve postgres port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://lockdesk:lockdesk@%s/lockdesk_it?sslmode=disable",
		net.JoinHostPort(host, mappedPort.Port()))

	cfg := &config.Config{
		DatabaseURL:   dsn,
		AdminRoleName: "admin",
	}
	db := waitForPostgresReady(t, cfg)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := database.Seed(db, cfg.AdminRoleName, ""); err != nil {
		t.Fatalf("seed: %v", err)
	}

	return &postgresIntegrationEnv{dsn: dsn, cfg: cfg, db: db, container: container}
}

func waitForPostgresReady(t *testing.T, cfg *config.Config) *gorm.DB {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	var lastErr error
	for {
		db, err := database.Open(cfg)
		if err == nil {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				err = sqlDB.PingContext(ctx)
			} else {
				err = dbErr
			}
		}
		if err == nil {
			return db
		}
		lastErr = err
		select {
		case <-ctx.Done():
			t.Fatalf("postgres readiness check timed out: %v", lastErr)
		case <-ticker.C:
		}
	}
}
