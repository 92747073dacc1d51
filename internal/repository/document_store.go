package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"

	appErrors "github.com/courseshelf/courseshelf/pkg/errors"
)

// DocumentStore reads and writes whole JSON documents by key. The registry
// only ever works document-at-a-time, so this is its entire persistence
// surface. A missing document is reported as appErrors.ErrNotFound.
type DocumentStore interface {
	Read(ctx context.Context, key string, dest interface{}) error
	Write(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
}

// FileDocumentStore keeps each document as <key>.json under a data
// directory. This is the default backend for a purely local deployment.
type FileDocumentStore struct {
	fs      afero.Fs
	dataDir string
}

// NewFileDocumentStore ensures the data directory exists and returns a handle.
func NewFileDocumentStore(fs afero.Fs, dataDir string) (*FileDocumentStore, error) {
	if dataDir == "" {
		dataDir = "./data"
	}
	if err := fs.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileDocumentStore{fs: fs, dataDir: dataDir}, nil
}

func (s *FileDocumentStore) path(key string) string {
	return filepath.Join(s.dataDir, key+".json")
}

// Read loads and unmarshals the document stored under key.
func (s *FileDocumentStore) Read(ctx context.Context, key string, dest interface{}) error {
	raw, err := afero.ReadFile(s.fs, s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return appErrors.Clone(appErrors.ErrNotFound, "document not found: "+key)
		}
		return fmt.Errorf("read document %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal document %s: %w", key, err)
	}
	return nil
}

// Write marshals and stores the document under key, replacing any
// previous contents.
func (s *FileDocumentStore) Write(ctx context.Context, key string, value interface{}) error {
	raw, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", key, err)
	}
	if err := afero.WriteFile(s.fs, s.path(key), raw, 0o644); err != nil {
		return fmt.Errorf("write document %s: %w", key, err)
	}
	return nil
}

// Delete removes the document if present.
func (s *FileDocumentStore) Delete(ctx context.Context, key string) error {
	if err := s.fs.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete document %s: %w", key, err)
	}
	return nil
}

// RedisDocumentStore keeps each document as a JSON value under a
// namespaced Redis key, for deployments that already run Redis.
type RedisDocumentStore struct {
	client *redis.Client
	prefix string
}

// NewRedisDocumentStore constructs a Redis-backed document store.
func NewRedisDocumentStore(client *redis.Client) *RedisDocumentStore {
	return &RedisDocumentStore{client: client, prefix: "courseshelf:doc:"}
}

// Read loads and unmarshals the document stored under key.
func (s *RedisDocumentStore) Read(ctx context.Context, key string, dest interface{}) error {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return appErrors.Clone(appErrors.ErrNotFound, "document not found: "+key)
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal document %s: %w", key, err)
	}
	return nil
}

// Write marshals and stores the document under key without expiry.
func (s *RedisDocumentStore) Write(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", key, err)
	}
	if err := s.client.Set(ctx, s.prefix+key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes the document if present.
func (s *RedisDocumentStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
