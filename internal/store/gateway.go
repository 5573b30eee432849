// Package store persists engine state as JSON blobs under string keys.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Keys used by the engine.
const (
	KeyStats        = "stats"
	KeyAchievements = "achievements"
	KeyUpgrades     = "upgrades"
	KeyInventory    = "inventory"
	KeyCounters     = "counters"
)

// ErrNotFound is returned by Load when the key has never been saved.
var ErrNotFound = errors.New("key not found")

// Gateway is an opaque key to JSON blob store.
type Gateway interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}

// LoadJSON loads key into a T, returning def when the key does not exist.
// The blob is decoded over def, so fields it lacks keep their defaults. A
// blob that fails to decode is an error and def is returned with it.
func LoadJSON[T any](ctx context.Context, g Gateway, key string, def T) (T, error) {
	data, err := g.Load(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("load %s: %w", key, err)
	}

	v := def
	if err := json.Unmarshal(data, &v); err != nil {
		return def, fmt.Errorf("decode %s: %w", key, err)
	}
	return v, nil
}

// SaveJSON encodes v and saves it under key.
func SaveJSON(ctx context.Context, g Gateway, key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := g.Save(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
