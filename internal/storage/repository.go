package storage

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"pomodoro/internal/core/model"

	"github.com/charmbracelet/log"
)

// Repository reads and writes timer data on top of a Store.
// Corrupt or missing values fall back to defaults instead of failing.
type Repository struct {
	store  Store
	logger *log.Logger
}

// NewRepository wraps store.
func NewRepository(store Store, logger *log.Logger) *Repository {
	return &Repository{store: store, logger: logger}
}

// LoadSettings returns the persisted settings or the defaults.
func (repo *Repository) LoadSettings() model.Settings {
	raw, ok, err := repo.store.Load(KeySettings)
	if err != nil {
		repo.logger.Warn("load settings", "err", err)
		return model.DefaultSettings()
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return model.DefaultSettings()
	}

	var settings model.Settings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		repo.logger.Warn("stored settings are corrupt, using defaults", "err", err)
		return model.DefaultSettings()
	}
	if err := settings.Validate(); err != nil {
		repo.logger.Warn("stored settings are invalid, using defaults", "err", err)
		return model.DefaultSettings()
	}
	return settings
}

// SaveSettings persists settings as JSON.
func (repo *Repository) SaveSettings(settings model.Settings) error {
	serialized, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := repo.store.Save(KeySettings, string(serialized)); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// LoadCompleted returns the persisted completed pomodoro count or zero.
func (repo *Repository) LoadCompleted() int {
	raw, ok, err := repo.store.Load(KeyCompletedCount)
	if err != nil {
		repo.logger.Warn("load completed count", "err", err)
		return 0
	}
	if !ok {
		return 0
	}
	count, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || count < 0 {
		repo.logger.Warn("stored completed count is corrupt, using zero", "value", raw)
		return 0
	}
	return count
}

// SaveCompleted persists the completed pomodoro count as a decimal string.
func (repo *Repository) SaveCompleted(count int) error {
	if err := repo.store.Save(KeyCompletedCount, strconv.Itoa(count)); err != nil {
		return fmt.Errorf("save completed count: %w", err)
	}
	return nil
}
