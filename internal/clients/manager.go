//-------------------------------------------------------------------------
//
// Lakeshed
//
// Portions copyright (c) 2025 - 2026, the Lakeshed authors
// This software is released under the Apache License, Version 2.0
//
//-------------------------------------------------------------------------

package clients

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lakeshed/lakeshed/internal/config"
	"github.com/lakeshed/lakeshed/internal/logging"
)

// ServiceNames lists the managed services in display order.
var ServiceNames = []string{"trino", "postgres", "redis", "minio"}

// healthProbeTimeout bounds each individual health probe.
const healthProbeTimeout = 10 * time.Second

// Manager hands out lazily constructed clients for the four services of
// the stack and caches them until CloseAll.
type Manager struct {
	cfg *config.Config
	log zerolog.Logger

	mu       sync.Mutex
	trino    *TrinoClient
	postgres *PostgresClient
	redis    *RedisClient
	store    *ObjectStoreClient
}

// NewManager creates a manager. No connection is made until a client is
// first requested.
func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		cfg: cfg,
		log: logging.Component("clients"),
	}
}

// Trino returns the shared Trino client, building it on first use.
func (m *Manager) Trino() (*TrinoClient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.trino == nil {
		c, err := NewTrinoClient(m.cfg)
		if err != nil {
			return nil, err
		}
		m.trino = c
	}
	return m.trino, nil
}

// Postgres returns the shared metastore client, connecting on first use.
func (m *Manager) Postgres(ctx context.Context) (*PostgresClient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.postgres == nil {
		c, err := NewPostgresClient(ctx, m.cfg)
		if err != nil {
			return nil, err
		}
		m.postgres = c
	}
	return m.postgres, nil
}

// Redis returns the shared cache client, building it on first use.
func (m *Manager) Redis() *RedisClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.redis == nil {
		m.redis = NewRedisClient(m.cfg)
	}
	return m.redis
}

// ObjectStore returns the shared MinIO client, building it on first use.
func (m *Manager) ObjectStore() (*ObjectStoreClient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.store == nil {
		c, err := NewObjectStoreClient(m.cfg)
		if err != nil {
			return nil, err
		}
		m.store = c
	}
	return m.store, nil
}

// HealthCheck probes every service with a trivial operation and returns a
// service name to healthy mapping. A failure never aborts the sweep.
func (m *Manager) HealthCheck(ctx context.Context) map[string]bool {
	health := make(map[string]bool, len(ServiceNames))

	probe := func(name string, fn func(context.Context) error) {
		pctx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
		defer cancel()
		if err := fn(pctx); err != nil {
			m.log.Warn().Err(err).Str("service", name).Msg("Health check failed")
			health[name] = false
			return
		}
		health[name] = true
	}

	probe("trino", func(ctx context.Context) error {
		c, err := m.Trino()
		if err != nil {
			return err
		}
		return c.Ping(ctx)
	})
	probe("postgres", func(ctx context.Context) error {
		c, err := m.Postgres(ctx)
		if err != nil {
			return err
		}
		return c.Ping(ctx)
	})
	probe("redis", func(ctx context.Context) error {
		return m.Redis().Ping(ctx)
	})
	probe("minio", func(ctx context.Context) error {
		c, err := m.ObjectStore()
		if err != nil {
			return err
		}
		// The probe passes when the call answers, whether or not the
		// bucket has been created yet.
		_, err = c.BucketExists(ctx)
		return err
	})

	m.log.Info().Interface("health", health).Msg("Health check results")
	return health
}

// CloseAll releases every cached client. The manager stays usable; the
// next getter reconnects.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.log.Info().Msg("Closing all client connections")

	if m.trino != nil {
		if err := m.trino.Close(); err != nil {
			m.log.Warn().Err(err).Msg("Error closing Trino connection")
		}
		m.trino = nil
	}
	if m.postgres != nil {
		m.postgres.Close()
		m.postgres = nil
	}
	if m.redis != nil {
		if err := m.redis.Close(); err != nil {
			m.log.Warn().Err(err).Msg("Error closing Redis connection")
		}
		m.redis = nil
	}
	// The MinIO client holds no connection worth closing.
	m.store = nil
}
