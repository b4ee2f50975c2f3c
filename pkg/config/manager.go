package config

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/mobai/mobai-http/pkg/logger"
)

// Manager holds the active configuration and the sources it was built from.
type Manager struct {
	Service   Service
	current   atomic.Pointer[Config]
	sources   []Source
	reloadMu  sync.Mutex
	closeOnce sync.Once
}

// NewManager creates a new configuration manager.
func NewManager(service Service) *Manager {
	if service == nil {
		service = NewService()
	}
	return &Manager{Service: service}
}

// Load builds the configuration from sources and stores it.
func (m *Manager) Load(ctx context.Context, sources ...Source) (*Config, error) {
	m.reloadMu.Lock()
	defer m.reloadMu.Unlock()
	m.sources = append([]Source(nil), sources...)
	config, err := m.Service.Load(ctx, sources...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	m.current.Store(config)
	return config, nil
}

// Reload rebuilds the configuration from the sources of the last Load.
// The previous configuration stays active when reloading fails.
func (m *Manager) Reload(ctx context.Context) error {
	m.reloadMu.Lock()
	defer m.reloadMu.Unlock()
	config, err := m.Service.Load(ctx, m.sources...)
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}
	m.current.Store(config)
	return nil
}

// Get returns the current configuration, or nil before the first Load.
func (m *Manager) Get() *Config {
	return m.current.Load()
}

// Close releases every source once.
func (m *Manager) Close(ctx context.Context) error {
	m.closeOnce.Do(func() {
		m.reloadMu.Lock()
		sources := append([]Source(nil), m.sources...)
		m.reloadMu.Unlock()
		for _, source := range sources {
			if source == nil {
				continue
			}
			if err := source.Close(); err != nil {
				logger.FromContext(ctx).Error("failed to close configuration source", "error", err)
			}
		}
	})
	return nil
}
