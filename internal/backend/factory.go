package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"moneyflow/internal/amqp"
	"moneyflow/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend opens the configured blob store and, when AMQP is
// configured, connects the event publisher. A broker that cannot be reached
// is logged and the backend runs without publishing.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	blobs, err := f.createBlobStore(ctx, config)
	if err != nil {
		return nil, err
	}

	prefix := config.KeyPrefix
	if prefix == "" {
		prefix = storage.DefaultKeyPrefix
	}
	result := &Result{Store: storage.NewRepository(blobs, prefix)}

	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
			amqpClient = nil
		} else {
			result.Publisher = amqpClient
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	result.Cleanup = func() error {
		var errs []error
		if amqpClient != nil {
			errs = append(errs, amqpClient.Close())
		}
		errs = append(errs, result.Store.Close())
		return errors.Join(errs...)
	}

	f.logger.Info("Initialized backend",
		"backend", config.Type,
		"key_prefix", prefix,
		"events_enabled", result.Publisher != nil)

	return result, nil
}

func (f *DefaultFactory) createBlobStore(ctx context.Context, config Config) (storage.BlobStore, error) {
	switch config.Type {
	case MemoryBackend:
		f.logger.Warn("Using in-memory store, data is lost on exit")
		return storage.NewMemoryStore(), nil
	case SQLiteBackend:
		s, err := storage.NewSQLiteStore(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		return s, nil
	case PostgresBackend:
		s, err := storage.NewPostgresStore(ctx, config.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize PostgreSQL store: %w", err)
		}
		return s, nil
	case RedisBackend:
		s, err := storage.NewRedisStore(ctx, config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis store: %w", err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
}
