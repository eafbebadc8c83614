// Package database keeps named connection settings and the live handles
// opened from them.
package database

import (
	"fmt"
	"net"
	"net/url"

	"github.com/go-sql-driver/mysql"
)

// DefaultConnection is used when the project does not name one.
const DefaultConnection = "mysql"

// ConnectionConfig mirrors the connection parameters of a Laravel
// database connection entry.
type ConnectionConfig struct {
	Driver   string
	Host     string
	Port     string
	Database string
	Username string
	Password string
}

// DriverName maps a connection driver to a database/sql driver name.
func (c ConnectionConfig) DriverName() (string, error) {
	switch c.Driver {
	case "mysql", "mariadb":
		return "mysql", nil
	case "pgsql", "postgres", "postgresql":
		return "postgres", nil
	case "sqlite", "sqlite3":
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("unsupported database driver: %q", c.Driver)
	}
}

// DSN builds the data source name for the connection's driver.
func (c ConnectionConfig) DSN() (string, error) {
	driver, err := c.DriverName()
	if err != nil {
		return "", err
	}

	switch driver {
	case "mysql":
		cfg := mysql.NewConfig()
		cfg.User = c.Username
		cfg.Passwd = c.Password
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(orDefault(c.Host, "localhost"), orDefault(c.Port, "3306"))
		cfg.DBName = c.Database
		cfg.ParseTime = true
		return cfg.FormatDSN(), nil

	case "postgres":
		u := url.URL{
			Scheme:   "postgres",
			Host:     net.JoinHostPort(orDefault(c.Host, "localhost"), orDefault(c.Port, "5432")),
			Path:     "/" + c.Database,
			RawQuery: "sslmode=disable",
		}
		if c.Password != "" {
			u.User = url.UserPassword(c.Username, c.Password)
		} else if c.Username != "" {
			u.User = url.User(c.Username)
		}
		return u.String(), nil

	default:
		if c.Database == "" {
			return "", fmt.Errorf("sqlite connection needs a database file")
		}
		return c.Database, nil
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Registry holds the connection entries of one project, keyed by name.
type Registry struct {
	Default     string
	Connections map[string]*ConnectionConfig
}

// NewRegistry returns a registry with the stock Laravel connection names.
func NewRegistry(defaultName string) *Registry {
	if defaultName == "" {
		defaultName = DefaultConnection
	}

	r := &Registry{
		Default:     defaultName,
		Connections: make(map[string]*ConnectionConfig),
	}
	r.Set("mysql", ConnectionConfig{Driver: "mysql", Host: "127.0.0.1", Port: "3306"})
	r.Set("mariadb", ConnectionConfig{Driver: "mariadb", Host: "127.0.0.1", Port: "3306"})
	r.Set("pgsql", ConnectionConfig{Driver: "pgsql", Host: "127.0.0.1", Port: "5432"})
	r.Set("sqlite", ConnectionConfig{Driver: "sqlite"})
	return r
}

// Set stores a copy of cfg under name.
func (r *Registry) Set(name string, cfg ConnectionConfig) {
	r.Connections[name] = &cfg
}

// Connection returns the entry for name, creating it with Driver = name when
// it does not exist yet.
func (r *Registry) Connection(name string) *ConnectionConfig {
	if c, ok := r.Connections[name]; ok {
		return c
	}
	c := &ConnectionConfig{Driver: name}
	r.Connections[name] = c
	return c
}
