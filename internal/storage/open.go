package storage

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/julianstephens/habitflow/internal/config"
	"github.com/julianstephens/habitflow/internal/keyring"
	"github.com/julianstephens/habitflow/internal/storage/postgres"
	"github.com/julianstephens/habitflow/internal/storage/redis"
	"github.com/julianstephens/habitflow/internal/storage/sqlite"
)

// KeyringTarget makes Open read the real target from the OS keyring.
const KeyringTarget = "keyring"

// ErrEmbeddedCredentials rejects postgres targets that carry a password.
var ErrEmbeddedCredentials = errors.New("PostgreSQL connection strings with embedded credentials are not allowed; store the connection string with 'habitflow secret set' and use --store keyring")

// Options tunes backends that need more than a target string.
type Options struct {
	RedisPrefix string
}

// Open picks a backend for target:
//
//	postgres:// or postgresql://  PostgreSQL (no embedded password)
//	redis:// or rediss://         Redis
//	keyring                       connection string stored in the OS keyring
//	:memory:                      in-process memory
//	*.json                        single JSON file
//	anything else                 SQLite database path
//
// The returned store still needs Init or Load.
func Open(target string, opts Options) (Provider, error) {
	target = strings.TrimSpace(target)
	switch {
	case target == "":
		return nil, errors.New("store target cannot be empty")
	case target == KeyringTarget:
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			return nil, fmt.Errorf("failed to read store from keyring: %w", err)
		}
		return openRemote(connStr, opts), nil
	case isPostgres(target):
		if HasEmbeddedCredentials(target) {
			return nil, ErrEmbeddedCredentials
		}
		return postgres.New(target), nil
	case isRedis(target):
		return redis.New(target, opts.RedisPrefix), nil
	case target == ":memory:":
		return NewMemoryStore(), nil
	}

	path, err := config.ExpandHome(target)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return NewJSONStore(path), nil
	}
	return sqlite.NewStore(path), nil
}

// openRemote trusts the keyring: passwords are allowed there.
func openRemote(connStr string, opts Options) Provider {
	if isRedis(connStr) {
		return redis.New(connStr, opts.RedisPrefix)
	}
	return postgres.New(connStr)
}

// HasEmbeddedCredentials reports whether a PostgreSQL URI or DSN contains a
// password.
func HasEmbeddedCredentials(connStr string) bool {
	if isPostgres(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return false
		}
		_, set := u.User.Password()
		return set
	}
	for _, pair := range strings.Fields(connStr) {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) == 2 && strings.EqualFold(strings.TrimSpace(kv[0]), "password") {
			return true
		}
	}
	return false
}

func isPostgres(target string) bool {
	return strings.HasPrefix(target, "postgres://") || strings.HasPrefix(target, "postgresql://")
}

func isRedis(target string) bool {
	return strings.HasPrefix(target, "redis://") || strings.HasPrefix(target, "rediss://")
}

// IsNotInitialized reports whether err came from Load on a store that was
// never initialized, whichever backend produced it.
func IsNotInitialized(err error) bool {
	return errors.Is(err, ErrNotInitialized) ||
		errors.Is(err, sqlite.ErrNotInitialized) ||
		errors.Is(err, redis.ErrNotInitialized)
}
