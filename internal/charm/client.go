// ABOUTME: Charm KV client wrapper used as a synced record store backend.
// ABOUTME: Provides thread-safe initialization and automatic cloud sync after writes.
package charm

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/dgraph-io/badger/v3"
	"github.com/harperreed/liftlog/internal/store"
)

const (
	dbName           = "liftlog"
	DefaultCharmHost = "charm.2389.dev"
)

// ErrReadOnly is returned by writes while another process holds the lock.
var ErrReadOnly = errors.New("cannot write: database is locked by another process (MCP server?)")

var (
	globalClient *Client
	clientOnce   sync.Once
	clientErr    error
)

// Client adapts Charm KV to store.KV.
type Client struct {
	kv       *kv.KV
	autoSync bool
	mu       sync.RWMutex
}

var _ store.KV = (*Client)(nil)

// InitClient initializes the global Charm client against host.
// Thread-safe; can be called multiple times.
func InitClient(host string) (*Client, error) {
	clientOnce.Do(func() {
		if host == "" {
			host = DefaultCharmHost
		}
		// Set server before opening KV
		if err := os.Setenv("CHARM_HOST", host); err != nil {
			clientErr = err
			return
		}

		db, err := kv.OpenWithDefaultsFallback(dbName)
		if err != nil {
			clientErr = err
			return
		}

		globalClient = &Client{
			kv:       db,
			autoSync: true,
		}

		// Pull remote data on startup (skip in read-only mode)
		if !db.IsReadOnly() {
			_ = db.Sync()
		}
	})

	return globalClient, clientErr
}

// Close closes the KV database connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		return c.kv.Close()
	}
	return nil
}

// IsReadOnly returns true if the database is open in read-only mode.
// This happens when another process (like an MCP server) holds the lock.
func (c *Client) IsReadOnly() bool {
	return c.kv.IsReadOnly()
}

// Sync synchronizes local state with Charm Cloud.
func (c *Client) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.kv.IsReadOnly() {
		return nil
	}
	return c.kv.Sync()
}

// syncIfEnabled calls Sync if autoSync is enabled. Callers hold mu.
func (c *Client) syncIfEnabled() {
	if c.autoSync && !c.kv.IsReadOnly() {
		_ = c.kv.Sync()
	}
}

// SetAutoSync enables or disables automatic sync after writes.
func (c *Client) SetAutoSync(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoSync = enabled
}

// ID returns the Charm user ID for the current account.
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}

// Reset wipes local data and rebuilds from Charm Cloud.
func (c *Client) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Reset()
}

// Get returns the value stored at key, or nil when absent.
func (c *Client) Get(key []byte) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	val, err := c.kv.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	return val, err
}

// Set stores a value with the given key and syncs.
func (c *Client) Set(key, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}
	if err := c.kv.Set(key, value); err != nil {
		return err
	}
	c.syncIfEnabled()
	return nil
}

// Delete removes a key and syncs.
func (c *Client) Delete(key []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}
	if err := c.kv.Delete(key); err != nil {
		return err
	}
	c.syncIfEnabled()
	return nil
}

// Keys returns all keys with the given prefix.
func (c *Client) Keys(prefix []byte) ([][]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys, err := c.kv.Keys()
	if err != nil {
		return nil, err
	}
	return filterPrefix(keys, prefix), nil
}

// filterPrefix keeps the keys starting with prefix.
func filterPrefix(keys [][]byte, prefix []byte) [][]byte {
	var out [][]byte
	for _, key := range keys {
		if bytes.HasPrefix(key, prefix) {
			out = append(out, key)
		}
	}
	return out
}
