package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisStore is a Redis-backed implementation of the Store interface. It is
// used when a Redis DSN is configured so that multiple nodes share fingerprint
// state and invalidation messages.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new RedisStore instance from a connected client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Close closes the underlying Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Get retrieves a value by its key.
func (s *RedisStore) Get(key string) ([]byte, error) {
	val, err := s.client.Get(context.Background(), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return val, err
}

// Set stores a key-value pair.
func (s *RedisStore) Set(key string, value []byte, ttl time.Duration) error {
	return s.client.Set(context.Background(), key, value, ttl).Err()
}

// Delete removes a value by its key.
func (s *RedisStore) Delete(key string) error {
	return s.client.Del(context.Background(), key).Err()
}

// Exists checks if a key exists.
func (s *RedisStore) Exists(key string) (bool, error) {
	n, err := s.client.Exists(context.Background(), key).Result()
	return n > 0, err
}

// SetNX sets a key-value pair if the key does not already exist.
func (s *RedisStore) SetNX(key string, value []byte, ttl time.Duration) (bool, error) {
	return s.client.SetNX(context.Background(), key, value, ttl).Result()
}

// Publish sends a message to all subscribers of a channel.
func (s *RedisStore) Publish(channel string, message []byte) error {
	return s.client.Publish(context.Background(), channel, message).Err()
}

// redisSubscription adapts redis.PubSub to the Subscription interface.
type redisSubscription struct {
	pubsub    *redis.PubSub
	msgChan   chan *Message
	closeOnce sync.Once
}

// Channel returns the message channel for the subscription.
func (rs *redisSubscription) Channel() <-chan *Message {
	return rs.msgChan
}

// Close terminates the subscription.
func (rs *redisSubscription) Close() error {
	var err error
	rs.closeOnce.Do(func() {
		err = rs.pubsub.Close()
	})
	return err
}

// Subscribe listens for messages on a given channel.
func (s *RedisStore) Subscribe(channel string) (Subscription, error) {
	pubsub := s.client.Subscribe(context.Background(), channel)

	// Confirm the subscription before returning so callers never miss
	// messages published immediately afterwards.
	if _, err := pubsub.Receive(context.Background()); err != nil {
		pubsub.Close()
		return nil, err
	}

	sub := &redisSubscription{
		pubsub:  pubsub,
		msgChan: make(chan *Message, 10),
	}

	go func() {
		defer close(sub.msgChan)
		for msg := range pubsub.Channel() {
			sub.msgChan <- &Message{
				Channel: msg.Channel,
				Payload: []byte(msg.Payload),
			}
		}
	}()

	return sub, nil
}

// Clear removes all data from the current Redis database.
func (s *RedisStore) Clear() error {
	logrus.Warn("Clearing all data from Redis store (FLUSHDB)")
	return s.client.FlushDB(context.Background()).Err()
}
