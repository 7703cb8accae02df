package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vetsoftlabs/vetstore/config"
	"github.com/vetsoftlabs/vetstore/internal/domain"
)

func newSettingsApp(t *testing.T, rows []domain.SysConfig) *Application {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.SysConfig{}))
	for i := range rows {
		rows[i].ID = int64(i + 1)
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	a := NewApplication(&config.AppConfig{
		Clinic: config.ClinicConfig{OpenHour: 8, CloseHour: 17},
	})
	a.OverrideDB(db)
	a.configManager = NewConfigManager(a)
	return a
}

func TestDecodeSettingsCategory(t *testing.T) {
	a := newSettingsApp(t, []domain.SysConfig{
		{Type: "notify", Name: "reminder_hour", Value: "7"},
		{Type: "notify", Name: "keep_days", Value: "30"},
	})

	var ns notifySettings
	require.NoError(t, a.configManager.Decode("notify", &ns))
	assert.Equal(t, 7, ns.ReminderHour)
	assert.Equal(t, 30, ns.KeepDays)
}

func TestDecodeEmptyCategoryLeavesZeroValues(t *testing.T) {
	a := newSettingsApp(t, nil)

	var ns notifySettings
	require.NoError(t, a.configManager.Decode("notify", &ns))
	assert.Zero(t, ns.ReminderHour)
	assert.Zero(t, ns.KeepDays)
}

func TestClinicHoursPreferStoredSettings(t *testing.T) {
	a := newSettingsApp(t, []domain.SysConfig{
		{Type: "clinic", Name: "open_hour", Value: "9"},
		{Type: "clinic", Name: "close_hour", Value: "18"},
	})

	open, closeh := a.ClinicHours()
	assert.Equal(t, 9, open)
	assert.Equal(t, 18, closeh)
}

func TestClinicHoursFallBackToConfigFile(t *testing.T) {
	a := newSettingsApp(t, nil)

	open, closeh := a.ClinicHours()
	assert.Equal(t, 8, open)
	assert.Equal(t, 17, closeh)
}
