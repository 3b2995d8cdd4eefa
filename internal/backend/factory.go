package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finbot/internal/amqp"
	"finbot/internal/ledger"
	"finbot/internal/log"
	"finbot/internal/storage"
	"finbot/internal/storage/file"
	"finbot/internal/storage/memory"
)

// eventFlushTimeout bounds how long Cleanup waits for queued ledger events.
const eventFlushTimeout = 5 * time.Second

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentStorage)}
}

// CreateBackend opens the snapshot store and, when configured, the AMQP
// publisher behind an async queue. A broker that cannot be reached is logged
// and skipped.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var res *Result
	var err error
	switch config.Type {
	case FileBackend:
		res = f.createFileBackend(config)
	case SQLiteBackend:
		res, err = f.createSQLiteBackend(config)
	case MemoryBackend:
		res = f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events",
				log.FieldError, err)
		} else {
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
			events := ledger.NewAsyncPublisher(client, ledger.DefaultQueueSize, f.logger)
			res.Publisher = events
			storeCleanup := res.Cleanup
			res.Cleanup = func() error {
				flushCtx, cancel := context.WithTimeout(context.Background(), eventFlushTimeout)
				defer cancel()
				var errs []error
				errs = append(errs, events.Close(flushCtx), client.Close())
				if storeCleanup != nil {
					errs = append(errs, storeCleanup())
				}
				return errors.Join(errs...)
			}
		}
	}

	return res, nil
}

func (f *DefaultFactory) createFileBackend(config Config) *Result {
	f.logger.Info("Initialized file backend", log.FieldLocation, config.DataFile)
	return &Result{Store: file.New(config.DataFile)}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	f.logger.Info("Initialized SQLite backend", log.FieldLocation, config.SQLiteDBPath)
	return &Result{
		Store:   repo,
		History: repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend() *Result {
	f.logger.Info("Initialized memory backend")
	return &Result{Store: memory.New()}
}
