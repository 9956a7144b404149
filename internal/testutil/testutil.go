//-------------------------------------------------------------------------
//
// Lakeshed
//
// Copyright (c) 2025 - 2026, the Lakeshed authors
// This software is released under the Apache License, Version 2.0
//
//-------------------------------------------------------------------------

// Package testutil provides helpers for integration testing against a
// running lakehouse stack. Service addresses come from the same
// environment variables the application reads.
package testutil

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"testing"
	"time"

	"github.com/lakeshed/lakeshed/internal/clients"
	"github.com/lakeshed/lakeshed/internal/config"
)

// probeTimeout bounds each availability probe.
const probeTimeout = 5 * time.Second

// TestConfig loads configuration from the environment for integration
// tests. Defaults match the docker-compose stack.
func TestConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Failed to load test config: %v", err)
	}
	return cfg
}

// TrinoAvailable checks if the Trino coordinator answers queries.
func TrinoAvailable(cfg *config.Config) bool {
	c, err := clients.NewTrinoClient(cfg)
	if err != nil {
		return false
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	return c.Ping(ctx) == nil
}

// SkipIfNoTrino skips the test if Trino is not available.
func SkipIfNoTrino(t *testing.T, cfg *config.Config) {
	t.Helper()
	if !TrinoAvailable(cfg) {
		t.Skip("Trino not available, skipping integration test")
	}
}

// PostgresAvailable checks if the metastore database answers queries.
func PostgresAvailable(cfg *config.Config) bool {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	c, err := clients.NewPostgresClient(ctx, cfg)
	if err != nil {
		return false
	}
	defer c.Close()
	return c.Ping(ctx) == nil
}

// SkipIfNoPostgres skips the test if the metastore database is not available.
func SkipIfNoPostgres(t *testing.T, cfg *config.Config) {
	t.Helper()
	if !PostgresAvailable(cfg) {
		t.Skip("PostgreSQL not available, skipping integration test")
	}
}

// RedisAvailable checks if the cache answers a ping.
func RedisAvailable(cfg *config.Config) bool {
	c := clients.NewRedisClient(cfg)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	return c.Ping(ctx) == nil
}

// SkipIfNoRedis skips the test if Redis is not available.
func SkipIfNoRedis(t *testing.T, cfg *config.Config) {
	t.Helper()
	if !RedisAvailable(cfg) {
		t.Skip("Redis not available, skipping integration test")
	}
}

// MinIOAvailable checks if the object store answers requests.
func MinIOAvailable(cfg *config.Config) bool {
	c, err := clients.NewObjectStoreClient(cfg)
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	_, err = c.BucketExists(ctx)
	return err == nil
}

// SkipIfNoMinIO skips the test if the object store is not available.
func SkipIfNoMinIO(t *testing.T, cfg *config.Config) {
	t.Helper()
	if !MinIOAvailable(cfg) {
		t.Skip("MinIO not available, skipping integration test")
	}
}

// RandomSuffix returns a short hex string for unique test table and key
// names.
func RandomSuffix(t *testing.T) string {
	t.Helper()

	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		t.Fatalf("Failed to generate random suffix: %v", err)
	}
	return hex.EncodeToString(b)
}
