package app

import (
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/vetsoftlabs/vetstore/config"
	"github.com/vetsoftlabs/vetstore/internal/booking"
	"github.com/vetsoftlabs/vetstore/internal/cart"
	"github.com/vetsoftlabs/vetstore/internal/catalog"
	"github.com/vetsoftlabs/vetstore/internal/notify"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SettingsProvider provides system settings access
type SettingsProvider interface {
	GetSettingsStringValue(category, key string) string
	GetSettingsInt64Value(category, key string) int64
	GetSettingsBoolValue(category, key string) bool
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// StoreProvider exposes the storefront services
type StoreProvider interface {
	Catalog() *catalog.Cache
	Cart() *cart.Service
	Booking() *booking.Generator
	Notify() *notify.Hub
}

// AppContext combines all provider interfaces for full application context.
// Handlers should depend on specific providers or this combined interface.
type AppContext interface {
	DBProvider
	ConfigProvider
	SettingsProvider
	SchedulerProvider
	StoreProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	DropAll()
	// RunReminderSweep publishes reminders for next-day appointments now
	RunReminderSweep() error
}
