package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/logger"
)

const (
	metaKey       = "meta:version"
	schemaVersion = "1"
)

var (
	ErrNotInitialized = errors.New("redis store not initialized, run 'habitflow init' first")
	ErrNotLoaded      = errors.New("storage not loaded")
)

// Store maps every key to a plain Redis string under a shared prefix.
type Store struct {
	url    string
	prefix string
	client *goredis.Client
}

func New(url, prefix string) *Store {
	if prefix == "" {
		prefix = constants.DefaultRedisPrefix
	}
	return &Store{
		url:    url,
		prefix: prefix,
	}
}

// Key joins the store prefix and parts with ":", skipping empty parts.
func (s *Store) Key(parts ...string) string {
	var sb strings.Builder
	sb.WriteString(s.prefix)
	for _, part := range parts {
		if part != "" {
			sb.WriteString(":")
			sb.WriteString(part)
		}
	}
	return sb.String()
}

func (s *Store) connect() error {
	if s.client != nil {
		return nil
	}

	opts, err := goredis.ParseURL(s.url)
	if err != nil {
		return fmt.Errorf("invalid redis URL: %w", err)
	}
	opts.DialTimeout = constants.RemoteDialTimeout
	opts.ReadTimeout = constants.RemoteOpTimeout
	opts.WriteTimeout = constants.RemoteOpTimeout
	opts.MaxRetries = 3

	client := goredis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), constants.RemoteDialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	s.client = client
	return nil
}

func (s *Store) Init() error {
	if err := s.connect(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.RemoteOpTimeout)
	defer cancel()
	if err := s.client.SetNX(ctx, s.Key(metaKey), schemaVersion, 0).Err(); err != nil {
		return fmt.Errorf("failed to initialize redis store: %w", err)
	}
	logger.Debug("Redis store initialized", "prefix", s.prefix)
	return nil
}

func (s *Store) Load() error {
	if err := s.connect(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.RemoteOpTimeout)
	defer cancel()

	version, err := s.client.Get(ctx, s.Key(metaKey)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read redis store version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("redis store version (%s) is not supported (expected %s)", version, schemaVersion)
	}
	return nil
}

func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

func (s *Store) Get(key string) ([]byte, bool, error) {
	if s.client == nil {
		return nil, false, ErrNotLoaded
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.RemoteOpTimeout)
	defer cancel()

	v, err := s.client.Get(ctx, s.Key("kv", key)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return v, true, nil
}

func (s *Store) Set(key string, value []byte) error {
	if s.client == nil {
		return ErrNotLoaded
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.RemoteOpTimeout)
	defer cancel()

	if err := s.client.Set(ctx, s.Key("kv", key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

func (s *Store) GetConfigPath() string {
	return "redis:" + s.prefix
}
