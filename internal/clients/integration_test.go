//go:build integration
// +build integration

// Integration tests for the service clients.
// Run with: go test -tags=integration ./internal/clients/...
// Requires the docker-compose stack (or equivalents) to be running;
// service addresses come from the usual environment variables.

package clients_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lakeshed/lakeshed/internal/clients"
	"github.com/lakeshed/lakeshed/internal/testutil"
)

func TestTrinoIntegration(t *testing.T) {
	cfg := testutil.TestConfig(t)
	testutil.SkipIfNoTrino(t, cfg)

	c, err := clients.NewTrinoClient(cfg)
	if err != nil {
		t.Fatalf("Failed to create trino client: %v", err)
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rows, err := c.Query(ctx, "SELECT 1")
	if err != nil {
		t.Fatalf("SELECT 1 failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}

	if _, err := c.ShowTables(ctx); err != nil {
		t.Errorf("SHOW TABLES failed: %v", err)
	}
}

func TestPostgresIntegration(t *testing.T) {
	cfg := testutil.TestConfig(t)
	testutil.SkipIfNoPostgres(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c, err := clients.NewPostgresClient(ctx, cfg)
	if err != nil {
		t.Fatalf("Failed to create postgres client: %v", err)
	}
	defer c.Close()

	table := "lakeshed_itest_" + testutil.RandomSuffix(t)
	if err := c.Exec(ctx, fmt.Sprintf("CREATE TABLE %s (id INT, note TEXT)", table)); err != nil {
		t.Fatalf("CREATE TABLE failed: %v", err)
	}
	defer c.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table))

	if err := c.Exec(ctx, fmt.Sprintf("INSERT INTO %s (id, note) VALUES ($1, $2)", table), 1, "hello"); err != nil {
		t.Fatalf("INSERT failed: %v", err)
	}

	rows, err := c.Query(ctx, fmt.Sprintf("SELECT id, note FROM %s", table))
	if err != nil {
		t.Fatalf("SELECT failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	if len(rows[0]) != 2 {
		t.Fatalf("Expected 2 columns, got %d", len(rows[0]))
	}
}

func TestRedisIntegration(t *testing.T) {
	cfg := testutil.TestConfig(t)
	testutil.SkipIfNoRedis(t, cfg)

	c := clients.NewRedisClient(cfg)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	key := "lakeshed:itest:" + testutil.RandomSuffix(t)
	if err := c.Set(ctx, key, "value", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, found, err := c.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found || val != "value" {
		t.Errorf("Expected ('value', true), got ('%s', %v)", val, found)
	}

	exists, err := c.Exists(ctx, key)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("Expected key to exist")
	}

	n, err := c.Delete(ctx, key)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 deleted key, got %d", n)
	}

	_, found, err = c.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get after delete failed: %v", err)
	}
	if found {
		t.Error("Key should be gone after delete")
	}
}

func TestMinIOIntegration(t *testing.T) {
	cfg := testutil.TestConfig(t)
	testutil.SkipIfNoMinIO(t, cfg)

	c, err := clients.NewObjectStoreClient(cfg)
	if err != nil {
		t.Fatalf("Failed to create object store client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	ok, err := c.BucketExists(ctx)
	if err != nil {
		t.Fatalf("BucketExists failed: %v", err)
	}
	if !ok {
		t.Skipf("Bucket %s not created yet, skipping object round trip", c.Bucket())
	}

	dir := t.TempDir()
	src := filepath.Join(dir, "itest.txt")
	if err := os.WriteFile(src, []byte("lakeshed integration test"), 0644); err != nil {
		t.Fatalf("Failed to write source file: %v", err)
	}

	object := "itest/" + testutil.RandomSuffix(t) + ".txt"
	if err := c.Upload(ctx, object, src); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	defer c.Remove(ctx, object)

	exists, err := c.Exists(ctx, object)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("Uploaded object should exist")
	}

	names, err := c.List(ctx, "itest/")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	found := false
	for _, name := range names {
		if name == object {
			found = true
		}
	}
	if !found {
		t.Errorf("Object %s missing from listing %v", object, names)
	}

	dst := filepath.Join(dir, "itest-down.txt")
	if err := c.Download(ctx, object, dst); err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("Failed to read downloaded file: %v", err)
	}
	if string(data) != "lakeshed integration test" {
		t.Errorf("Downloaded content mismatch: %q", data)
	}
}

func TestManagerHealthCheckIntegration(t *testing.T) {
	cfg := testutil.TestConfig(t)

	m := clients.NewManager(cfg)
	defer m.CloseAll()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	health := m.HealthCheck(ctx)
	if len(health) != len(clients.ServiceNames) {
		t.Fatalf("Expected %d entries, got %d", len(clients.ServiceNames), len(health))
	}
	for _, name := range clients.ServiceNames {
		if _, ok := health[name]; !ok {
			t.Errorf("Missing health entry for %s", name)
		}
	}

	// The manager stays usable after CloseAll.
	m.CloseAll()
	if m.Redis() == nil {
		t.Error("Expected a fresh Redis client after CloseAll")
	}
}
