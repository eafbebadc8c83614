package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// OpenFunc opens a database handle. sql.Open satisfies it.
type OpenFunc func(driverName, dsn string) (*sql.DB, error)

// Manager owns one *sql.DB per connection name, opened lazily from the
// registry's current parameters.
type Manager struct {
	registry *Registry
	open     OpenFunc
	handles  map[string]*sql.DB
}

// NewManager creates a manager reading parameters from reg.
func NewManager(reg *Registry) *Manager {
	return &Manager{
		registry: reg,
		open:     sql.Open,
		handles:  make(map[string]*sql.DB),
	}
}

// WithOpener replaces the function used to open handles.
func (m *Manager) WithOpener(open OpenFunc) *Manager {
	m.open = open
	return m
}

// Registry returns the registry the manager reads from.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// Connection returns the open handle for name, opening it if needed.
func (m *Manager) Connection(name string) (*sql.DB, error) {
	if db, ok := m.handles[name]; ok {
		return db, nil
	}
	return m.Reconnect(name)
}

// Purge closes the handle for name and forgets it.
func (m *Manager) Purge(name string) error {
	db, ok := m.handles[name]
	if !ok {
		return nil
	}
	delete(m.handles, name)

	if err := db.Close(); err != nil {
		return fmt.Errorf("failed to close connection %s: %w", name, err)
	}
	return nil
}

// Reconnect opens a new handle for name from the registry's current
// parameters, replacing any existing one. The new handle is not pinged.
func (m *Manager) Reconnect(name string) (*sql.DB, error) {
	if err := m.Purge(name); err != nil {
		return nil, err
	}

	cfg := m.registry.Connection(name)
	driver, err := cfg.DriverName()
	if err != nil {
		return nil, err
	}
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	db, err := m.open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection %s: %w", name, err)
	}
	m.handles[name] = db
	return db, nil
}

// Ping checks that the connection for name is reachable.
func (m *Manager) Ping(ctx context.Context, name string) error {
	db, err := m.Connection(name)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping connection %s: %w", name, err)
	}
	return nil
}

// Close closes every open handle.
func (m *Manager) Close() error {
	var errs []error
	for name := range m.handles {
		if err := m.Purge(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
