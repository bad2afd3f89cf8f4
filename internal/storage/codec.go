package storage

import (
	"encoding/json"
	"fmt"
)

// GetJSON decodes the value stored under key into out. It returns false and
// leaves out untouched when the key is absent, so callers can pre-fill
// out with their default.
func GetJSON(p Provider, key string, out any) (bool, error) {
	raw, found, err := p.Get(key)
	if err != nil {
		return false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("failed to parse %q: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(p Provider, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize %q: %w", key, err)
	}
	if err := p.Set(key, raw); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}
