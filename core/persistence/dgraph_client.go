// Package persistence provides the durable-storage transport shared by the
// registry and triple store: a Dgraph client for the
// triple store's backing graph database, and a small atomic key-value
// meta store for registry/allocator/equivalence snapshots.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dgraph-io/dgo/v230"
	"github.com/dgraph-io/dgo/v230/protos/api"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// DgraphClient manages a connection to Dgraph for persistent triple
// storage.
type DgraphClient struct {
	mu         sync.RWMutex
	conn       *grpc.ClientConn
	client     *dgo.Dgraph
	ctx        context.Context
	cancel     context.CancelFunc
	endpoint   string
	connected  bool
	retryCount int
	retryDelay time.Duration
}

// DgraphConfig holds configuration for a Dgraph connection.
type DgraphConfig struct {
	Endpoint   string
	RetryCount int
	RetryDelay time.Duration
}

// DefaultDgraphConfig returns the default configuration, honoring the
// DGRAPH_ENDPOINT environment variable.
func DefaultDgraphConfig() *DgraphConfig {
	endpoint := os.Getenv("DGRAPH_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:9080"
	}
	return &DgraphConfig{
		Endpoint:   endpoint,
		RetryCount: 3,
		RetryDelay: time.Second * 2,
	}
}

// NewDgraphClient connects to Dgraph using config, retrying up to
// config.RetryCount times.
func NewDgraphClient(config *DgraphConfig) (*DgraphClient, error) {
	if config == nil {
		config = DefaultDgraphConfig()
	}

	ctx, cancel := context.WithCancel(context.Background())

	client := &DgraphClient{
		ctx:        ctx,
		cancel:     cancel,
		endpoint:   config.Endpoint,
		retryCount: config.RetryCount,
		retryDelay: config.RetryDelay,
	}

	if err := client.connect(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to connect to Dgraph: %w", err)
	}

	return client, nil
}

func (dc *DgraphClient) connect() error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	var lastErr error
	for i := 0; i < dc.retryCount; i++ {
		conn, err := grpc.DialContext(
			dc.ctx,
			dc.endpoint,
			grpc.WithTransportCredentials(insecure.NewCredentials()),
			grpc.WithBlock(),
		)
		if err != nil {
			lastErr = err
			time.Sleep(dc.retryDelay)
			continue
		}

		dc.conn = conn
		dc.client = dgo.NewDgraphClient(api.NewDgraphClient(conn))
		dc.connected = true
		return nil
	}

	return fmt.Errorf("failed to connect after %d attempts: %w", dc.retryCount, lastErr)
}

// Close tears down the connection.
func (dc *DgraphClient) Close() error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	dc.cancel()
	if dc.conn != nil {
		return dc.conn.Close()
	}
	return nil
}

// IsConnected reports connection status.
func (dc *DgraphClient) IsConnected() bool {
	dc.mu.RLock()
	defer dc.mu.RUnlock()
	return dc.connected
}

// SetSchema alters the Dgraph schema.
func (dc *DgraphClient) SetSchema(schema string) error {
	dc.mu.RLock()
	defer dc.mu.RUnlock()

	if !dc.connected {
		return fmt.Errorf("not connected to Dgraph")
	}

	op := &api.Operation{Schema: schema}
	return dc.client.Alter(dc.ctx, op)
}

// NewTransaction creates a read-write transaction.
func (dc *DgraphClient) NewTransaction() *dgo.Txn {
	dc.mu.RLock()
	defer dc.mu.RUnlock()
	return dc.client.NewTxn()
}

// NewReadOnlyTransaction creates a read-only transaction.
func (dc *DgraphClient) NewReadOnlyTransaction() *dgo.Txn {
	dc.mu.RLock()
	defer dc.mu.RUnlock()
	return dc.client.NewReadOnlyTxn()
}

// Mutate performs a single mutation in its own transaction.
func (dc *DgraphClient) Mutate(ctx context.Context, mu *api.Mutation) (*api.Response, error) {
	txn := dc.NewTransaction()
	defer txn.Discard(ctx)

	resp, err := txn.Mutate(ctx, mu)
	if err != nil {
		return nil, err
	}

	if err := txn.Commit(ctx); err != nil {
		return nil, err
	}

	return resp, nil
}

// Query runs a read-only DQL query, optionally with variables.
func (dc *DgraphClient) Query(ctx context.Context, query string, vars map[string]string) (*api.Response, error) {
	txn := dc.NewReadOnlyTransaction()
	defer txn.Discard(ctx)

	if vars != nil {
		return txn.QueryWithVars(ctx, query, vars)
	}
	return txn.Query(ctx, query)
}

// Upsert performs a query+mutation in a single transaction.
func (dc *DgraphClient) Upsert(ctx context.Context, query string, mu *api.Mutation) (*api.Response, error) {
	txn := dc.NewTransaction()
	defer txn.Discard(ctx)

	req := &api.Request{
		Query:     query,
		Mutations: []*api.Mutation{mu},
		CommitNow: true,
	}

	return txn.Do(ctx, req)
}

// DropAll drops all data and schema. Used only by test fixtures.
func (dc *DgraphClient) DropAll(ctx context.Context) error {
	dc.mu.RLock()
	defer dc.mu.RUnlock()

	if !dc.connected {
		return fmt.Errorf("not connected to Dgraph")
	}

	return dc.client.Alter(ctx, &api.Operation{DropAll: true})
}

// DropData drops all data but keeps the schema.
func (dc *DgraphClient) DropData(ctx context.Context) error {
	dc.mu.RLock()
	defer dc.mu.RUnlock()

	if !dc.connected {
		return fmt.Errorf("not connected to Dgraph")
	}

	return dc.client.Alter(ctx, &api.Operation{DropOp: api.Operation_DATA})
}

// MarshalJSON is a small helper kept alongside mutation construction so
// callers building SetJson payloads don't reach for encoding/json directly.
func MarshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// UnmarshalJSON is the query-result counterpart of MarshalJSON.
func UnmarshalJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
