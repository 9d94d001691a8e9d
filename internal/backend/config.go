package backend

import (
	"fmt"
	"time"

	"saba/internal/config"
	"saba/internal/store"
)

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// file backend
	Paths       store.Paths
	LockTimeout time.Duration

	// sqlite backend
	SQLiteDBPath string

	CatalogFile string

	// Event publishing, optional for every backend type
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
	AMQPPrefetch int
}

// BackendType represents the type of backend
type BackendType string

const (
	FileBackend   BackendType = "file"
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case FileBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}
	return Config{
		Type:         backendType,
		Paths:        appConfig.Files,
		LockTimeout:  appConfig.LockTimeout,
		SQLiteDBPath: appConfig.SQLiteDBPath,
		CatalogFile:  appConfig.CatalogFile,
		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,
		AMQPPrefetch: appConfig.AMQPPrefetch,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	switch c.Type {
	case FileBackend:
		if c.Paths.Dir == "" {
			return fmt.Errorf("data directory is required for file backend")
		}
		if c.LockTimeout <= 0 {
			return fmt.Errorf("lock timeout must be positive for file backend")
		}
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	}
	return nil
}

// GetBackendTypeStrings returns all valid backend type strings
func GetBackendTypeStrings() []string {
	return []string{FileBackend.String(), SQLiteBackend.String(), MemoryBackend.String()}
}
