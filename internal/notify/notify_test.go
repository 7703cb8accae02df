package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vetsoftlabs/vetstore/internal/domain"
)

func newTestHub(t *testing.T) (*Hub, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Notification{}))
	return NewHub(db, nil), db
}

func TestPublishAppendsInboxRow(t *testing.T) {
	hub, db := newTestHub(t)

	hub.Publish(Message{
		AccountID: 42,
		Kind:      domain.NotifyKindAppointment,
		Title:     "Appointment booked",
		Body:      "Tomorrow at 10:00",
	})
	hub.Wait()

	var rows []domain.Notification
	require.NoError(t, db.Where("account_id = ?", 42).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.NotifyKindAppointment, rows[0].Kind)
	assert.Equal(t, "Appointment booked", rows[0].Title)
	assert.False(t, rows[0].Read)
}

func TestPublishChatArchivesForRecipient(t *testing.T) {
	hub, db := newTestHub(t)

	hub.PublishChat(ChatMessage{
		FromAccount: 1,
		ToAccount:   2,
		Body:        "hola",
		SentAt:      time.Now(),
	})
	hub.Wait()

	var rows []domain.Notification
	require.NoError(t, db.Where("account_id = ?", 2).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.NotifyKindChat, rows[0].Kind)
	assert.Equal(t, "hola", rows[0].Message)
}
