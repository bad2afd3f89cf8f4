package storage

import "errors"

var (
	// ErrNotLoaded is returned when a store is used before Init or Load.
	ErrNotLoaded = errors.New("storage not loaded")
	// ErrNotInitialized is returned by Load when nothing exists at the target yet.
	ErrNotInitialized = errors.New("storage not initialized, run 'habitflow init' first")
)

// Provider is the key-value contract the engine persists through. Values are
// raw JSON documents; a key that was never written reports found=false.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Values
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error

	// Utils
	GetConfigPath() string
}
