package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vetsoftlabs/vetstore/internal/domain"
)

func TestSlotsFullDay(t *testing.T) {
	got := Slots(8, 17)
	require.Len(t, got, 10)
	assert.Equal(t, "08:00", got[0])
	assert.Equal(t, "17:00", got[9])
}

func TestSlotsDegenerateWindow(t *testing.T) {
	assert.Equal(t, []string{"09:00"}, Slots(9, 9))
	assert.Empty(t, Slots(17, 8))
}

func TestRemoveOccupied(t *testing.T) {
	free := Remove(Slots(8, 17), []string{"10:00", "14:00"})
	assert.Equal(t, []string{
		"08:00", "09:00", "11:00", "12:00", "13:00", "15:00", "16:00", "17:00",
	}, free)
}

func TestRemoveUnknownOccupiedIgnored(t *testing.T) {
	free := Remove(Slots(8, 10), []string{"23:00"})
	assert.Equal(t, []string{"08:00", "09:00", "10:00"}, free)
}

func TestNormalizeDate(t *testing.T) {
	for _, input := range []string{"2026-09-01", "09/01/2026", "September 1, 2026"} {
		got, err := NormalizeDate(input)
		require.NoError(t, err, input)
		assert.Equal(t, "2026-09-01", got, input)
	}
	_, err := NormalizeDate("not a date")
	assert.Error(t, err)
}

type staticSource struct {
	slots []string
}

func (s *staticSource) Occupied(ctx context.Context, date string) ([]string, error) {
	return s.slots, nil
}

func TestAvailableForDate(t *testing.T) {
	gen := NewGenerator(8, 17, &staticSource{slots: []string{"10:00", "14:00"}})
	free, err := gen.AvailableForDate(context.Background(), "2026-09-01")
	require.NoError(t, err)
	assert.Len(t, free, 8)
	assert.NotContains(t, free, "10:00")
	assert.NotContains(t, free, "14:00")
}

func TestGormOccupiedSource(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Appointment{}))

	rows := []domain.Appointment{
		{ID: 1, ClientId: 1, PetId: 1, Date: "2026-09-01", Slot: "10:00", SlotKey: domain.SlotKey("2026-09-01", "10:00"), Status: domain.AppointmentPending},
		{ID: 2, ClientId: 2, PetId: 2, Date: "2026-09-01", Slot: "14:00", SlotKey: domain.SlotKey("2026-09-01", "14:00"), Status: domain.AppointmentConfirmed},
		{ID: 3, ClientId: 3, PetId: 3, Date: "2026-09-01", Slot: "12:00", Status: domain.AppointmentCancelled},
		{ID: 4, ClientId: 4, PetId: 4, Date: "2026-09-02", Slot: "09:00", SlotKey: domain.SlotKey("2026-09-02", "09:00"), Status: domain.AppointmentPending},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	gen := NewGenerator(8, 17, &GormOccupiedSource{DB: db})
	free, err := gen.AvailableForDate(context.Background(), "2026-09-01")
	require.NoError(t, err)

	// Cancelled appointments free their slot; other dates do not count.
	assert.Contains(t, free, "12:00")
	assert.Contains(t, free, "09:00")
	assert.NotContains(t, free, "10:00")
	assert.NotContains(t, free, "14:00")
	assert.Len(t, free, 8)
}

func TestCancelledSlotCanBeRebooked(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Appointment{}))

	// Cancelled rows carry no slot key, so the slot stays insertable.
	cancelled := domain.Appointment{
		ID: 1, ClientId: 1, PetId: 1, Date: "2026-09-01", Slot: "10:00",
		Status: domain.AppointmentCancelled,
	}
	require.NoError(t, db.Create(&cancelled).Error)

	gen := NewGenerator(8, 17, &GormOccupiedSource{DB: db})
	free, err := gen.AvailableForDate(context.Background(), "2026-09-01")
	require.NoError(t, err)
	require.Contains(t, free, "10:00")

	rebooked := domain.Appointment{
		ID: 2, ClientId: 2, PetId: 2, Date: "2026-09-01", Slot: "10:00",
		SlotKey: domain.SlotKey("2026-09-01", "10:00"), Status: domain.AppointmentPending,
	}
	require.NoError(t, db.Create(&rebooked).Error)

	// A second active booking for the same slot still trips the guard.
	dup := domain.Appointment{
		ID: 3, ClientId: 3, PetId: 3, Date: "2026-09-01", Slot: "10:00",
		SlotKey: domain.SlotKey("2026-09-01", "10:00"), Status: domain.AppointmentPending,
	}
	assert.Error(t, db.Create(&dup).Error)
}
