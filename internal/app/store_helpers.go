package app

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yourusername/yt-audio-go/internal/domain"
	"go.uber.org/zap"
)

// loadJSON decodes namespace/key into out. It reports false when the value is
// missing or unreadable, leaving out untouched so callers keep their default.
func loadJSON(store domain.ConfigStore, logger *zap.Logger, namespace, key string, out interface{}) bool {
	raw, err := store.Get(namespace, key)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			logger.Warn("Failed to read setting, using default",
				zap.String("namespace", namespace),
				zap.String("key", key),
				zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal(raw, out); err != nil {
		logger.Warn("Corrupt setting, using default",
			zap.String("namespace", namespace),
			zap.String("key", key),
			zap.Error(err))
		return false
	}
	return true
}

// saveJSON encodes value, stages it and saves the namespace
func saveJSON(store domain.ConfigStore, namespace, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := store.Set(namespace, key, raw); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	if err := store.Save(namespace); err != nil {
		return fmt.Errorf("failed to save %s: %w", namespace, err)
	}
	return nil
}
