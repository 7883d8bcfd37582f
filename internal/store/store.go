// Package store provides the key/value and pub/sub abstraction backing the
// fingerprint state and cross-node cache invalidation.
package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("store: key not found")

// Message is a single pub/sub payload.
type Message struct {
	Channel string
	Payload []byte
}

// Subscription represents an active subscription to a channel.
type Subscription interface {
	// Channel returns the channel messages are delivered on. It is closed
	// when the subscription is closed.
	Channel() <-chan *Message
	// Close terminates the subscription.
	Close() error
}

// Store is a key-value store with pub/sub, safe for concurrent use.
type Store interface {
	// Get retrieves a value by key, returning ErrNotFound when absent.
	Get(key string) ([]byte, error)
	// Set stores a key-value pair. A ttl of 0 means no expiry.
	Set(key string, value []byte, ttl time.Duration) error
	// Delete removes a key.
	Delete(key string) error
	// Exists checks whether a key is present.
	Exists(key string) (bool, error)
	// SetNX sets the key only if it does not already exist.
	SetNX(key string, value []byte, ttl time.Duration) (bool, error)

	// Publish sends a message to all subscribers of a channel.
	Publish(channel string, message []byte) error
	// Subscribe starts listening for messages on a channel.
	Subscribe(channel string) (Subscription, error)

	// Clear removes all data.
	Clear() error
	// Close releases any resources held by the store.
	Close() error
}
