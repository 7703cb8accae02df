package app

import (
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/vetsoftlabs/vetstore/internal/domain"
)

// clinicSettings is the decoded "clinic" settings category.
type clinicSettings struct {
	OpenHour  int `mapstructure:"open_hour"`
	CloseHour int `mapstructure:"close_hour"`
}

// notifySettings is the decoded "notify" settings category.
type notifySettings struct {
	ReminderHour int `mapstructure:"reminder_hour"`
	KeepDays     int `mapstructure:"keep_days"`
}

// ConfigManager caches the sys_config rows and serves typed lookups.
// Values reload lazily after the TTL so admin edits take effect without a
// restart.
type ConfigManager struct {
	app      *Application
	mu       sync.RWMutex
	values   map[string]map[string]string
	loadedAt time.Time
	ttl      time.Duration
}

func NewConfigManager(a *Application) *ConfigManager {
	return &ConfigManager{
		app:    a,
		values: map[string]map[string]string{},
		ttl:    time.Minute,
	}
}

func (m *ConfigManager) reloadIfStale() {
	m.mu.RLock()
	stale := time.Since(m.loadedAt) > m.ttl
	m.mu.RUnlock()
	if !stale {
		return
	}
	m.Reload()
}

// Reload re-reads all settings rows.
func (m *ConfigManager) Reload() {
	var rows []domain.SysConfig
	if err := m.app.gormDB.Find(&rows).Error; err != nil {
		zap.L().Error("settings reload failed", zap.Error(err))
		return
	}
	values := map[string]map[string]string{}
	for _, row := range rows {
		if values[row.Type] == nil {
			values[row.Type] = map[string]string{}
		}
		values[row.Type][row.Name] = row.Value
	}
	m.mu.Lock()
	m.values = values
	m.loadedAt = time.Now()
	m.mu.Unlock()
}

func (m *ConfigManager) GetString(category, key string) string {
	m.reloadIfStale()
	m.mu.RLock()
	defer m.mu.RUnlock()
	if cat, ok := m.values[category]; ok {
		return cat[key]
	}
	return ""
}

func (m *ConfigManager) GetInt(category, key string) int {
	return cast.ToInt(m.GetString(category, key))
}

func (m *ConfigManager) GetInt64(category, key string) int64 {
	return cast.ToInt64(m.GetString(category, key))
}

func (m *ConfigManager) GetBool(category, key string) bool {
	return cast.ToBool(m.GetString(category, key))
}

// Decode maps a whole settings category onto a struct with weak typing,
// so "8" fills an int field and "true" a bool.
func (m *ConfigManager) Decode(category string, out interface{}) error {
	m.reloadIfStale()
	m.mu.RLock()
	src := map[string]string{}
	for k, v := range m.values[category] {
		src[k] = v
	}
	m.mu.RUnlock()

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(src)
}
