package mongodb

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nguyentranbao-ct/product-catalog/pkg/retry"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
)

type ConnectOptions struct {
	URI         string
	Database    string
	AppName     string
	MaxPoolSize uint64
	// Timeout bounds every single connection attempt.
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
	OnRetry    func(attempt int, err error)
}

// DB is the shared mongo handle. It remembers whether the last ping
// succeeded so callers can reconnect lazily after a network failure.
type DB struct {
	Client   *mongo.Client
	Database *mongo.Database

	opts      ConnectOptions
	connected atomic.Bool
	// serializes reconnect attempts
	mu sync.Mutex
}

func NewConnection(ctx context.Context, opts ConnectOptions) (*DB, error) {
	clientOptions := options.Client().
		ApplyURI(opts.URI).
		SetAppName(opts.AppName).
		SetMaxPoolSize(opts.MaxPoolSize).
		SetMaxConnIdleTime(30 * time.Second).
		SetConnectTimeout(opts.Timeout).
		SetServerSelectionTimeout(opts.Timeout)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	db := &DB{
		Client:   client,
		Database: client.Database(opts.Database),
		opts:     opts,
	}
	if err := db.connect(ctx); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, err
	}
	return db, nil
}

func (db *DB) connect(ctx context.Context) error {
	err := retry.Do(ctx, retry.Config{
		MaxAttempts: db.opts.Retries,
		Backoff:     retry.ConstantBackoff(db.opts.RetryDelay),
		OnRetry:     db.opts.OnRetry,
	}, func() error {
		return db.Ping(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return nil
}

// Ping checks the primary once, bounded by the per-attempt timeout, and
// records the outcome.
func (db *DB) Ping(ctx context.Context) error {
	if db.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, db.opts.Timeout)
		defer cancel()
	}
	err := db.Client.Ping(ctx, readpref.Primary())
	db.connected.Store(err == nil)
	return err
}

func (db *DB) Connected() bool {
	return db.connected.Load()
}

// EnsureConnected is a no-op while the handle is healthy, otherwise it
// re-pings with the configured bounded retry.
func (db *DB) EnsureConnected(ctx context.Context) error {
	if db.connected.Load() {
		return nil
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.connected.Load() {
		return nil
	}
	return db.connect(ctx)
}

// ReportError marks the handle disconnected when err is a connectivity failure.
func (db *DB) ReportError(err error) {
	if IsConnectionError(err) {
		db.connected.Store(false)
	}
}

func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var selectionErr topology.ServerSelectionError
	return mongo.IsNetworkError(err) || errors.As(err, &selectionErr)
}

func (db *DB) Name() string {
	return db.Database.Name()
}

func (db *DB) Close(ctx context.Context) error {
	db.connected.Store(false)
	return db.Client.Disconnect(ctx)
}
