package backend

import (
	"context"

	"moneyflow/internal/events"
	"moneyflow/internal/storage"
)

// CleanupFunc releases the resources held by a backend.
type CleanupFunc func() error

// Result is what the factory builds: the snapshot store the ledger runs on
// and, when AMQP is configured, the event publisher.
type Result struct {
	Store     *storage.Repository
	Publisher events.Publisher
	Cleanup   CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	SQLiteDBPath string
	PostgresURL  string
	RedisURL     string
	KeyPrefix    string

	// Empty AMQPURL disables event publishing.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType names a blob store implementation.
type BackendType string

const (
	MemoryBackend   BackendType = "memory"
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
	RedisBackend    BackendType = "redis"
)

func (bt BackendType) String() string {
	return string(bt)
}
