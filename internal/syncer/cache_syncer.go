// Package syncer provides a generic cached loader kept coherent across nodes
// through the store's pub/sub channel.
package syncer

import (
	"fmt"
	"sync"

	"operation-hours/internal/store"

	"github.com/sirupsen/logrus"
)

// reloadMessage is the payload published to request a reload on all nodes.
const reloadMessage = "reload"

// CacheSyncer caches the result of a loader function and reloads it whenever
// an invalidation message arrives on its channel. Get never blocks on I/O; it
// returns the last successfully loaded value.
type CacheSyncer[T any] struct {
	mu       sync.RWMutex
	cache    T
	loader   func() (T, error)
	store    store.Store
	channel  string
	logger   *logrus.Entry
	onReload func(T)

	sub      store.Subscription
	stopOnce sync.Once
	done     chan struct{}
}

// NewCacheSyncer performs the initial load, subscribes to the invalidation
// channel and starts the reload loop. A failing initial load is fatal: serving
// without a cache would mean serving nothing.
func NewCacheSyncer[T any](
	loader func() (T, error),
	st store.Store,
	channel string,
	logger *logrus.Entry,
	onReload func(T),
) (*CacheSyncer[T], error) {
	initial, err := loader()
	if err != nil {
		return nil, fmt.Errorf("initial load failed: %w", err)
	}

	sub, err := st.Subscribe(channel)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to channel %q: %w", channel, err)
	}

	s := &CacheSyncer[T]{
		cache:    initial,
		loader:   loader,
		store:    st,
		channel:  channel,
		logger:   logger,
		onReload: onReload,
		sub:      sub,
		done:     make(chan struct{}),
	}

	if s.onReload != nil {
		s.onReload(initial)
	}

	go s.listen()
	return s, nil
}

// Get returns the cached value.
func (s *CacheSyncer[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache
}

// Invalidate publishes a reload request to every node, including this one.
func (s *CacheSyncer[T]) Invalidate() error {
	return s.store.Publish(s.channel, []byte(reloadMessage))
}

// Reload re-runs the loader immediately on this node only. The previous cache
// is kept when the loader fails.
func (s *CacheSyncer[T]) Reload() error {
	value, err := s.loader()
	if err != nil {
		s.logger.WithError(err).Error("Cache reload failed, keeping previous value")
		return err
	}

	s.mu.Lock()
	s.cache = value
	s.mu.Unlock()

	if s.onReload != nil {
		s.onReload(value)
	}

	s.logger.Debug("Cache reloaded")
	return nil
}

// Stop closes the subscription and waits for the reload loop to exit.
func (s *CacheSyncer[T]) Stop() {
	s.stopOnce.Do(func() {
		s.sub.Close()
		<-s.done
	})
}

// listen processes invalidation messages until the subscription closes.
func (s *CacheSyncer[T]) listen() {
	defer close(s.done)

	for range s.sub.Channel() {
		if err := s.Reload(); err != nil {
			// Already logged; the next invalidation will retry.
			continue
		}
	}
}
