package backend

import (
	"context"

	"finbot/internal/ledger"
	"finbot/internal/storage"
)

// HistoryReader lists past saves. Only the sqlite backend keeps history.
type HistoryReader interface {
	History(ctx context.Context, limit int) ([]storage.SaveRecord, error)
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result bundles what the composition root needs to build a ledger.
type Result struct {
	Store storage.SnapshotStore
	// Publisher is nil when AMQP is disabled or unreachable.
	Publisher ledger.Publisher
	// History is nil unless the backend records saves.
	History HistoryReader
	Cleanup CleanupFunc
}

// Close runs Cleanup if set.
func (r *Result) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// file
	DataFile string

	// sqlite
	SQLiteDBPath string

	// ledger events, optional for every backend
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
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
