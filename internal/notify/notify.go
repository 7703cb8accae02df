// Package notify is the publish/subscribe boundary for user notifications
// and outbound chat. Producers publish events on the bus; subscribers
// append inbox rows and, when SMTP is configured, mirror them by email.
package notify

import (
	"time"

	evbus "github.com/asaskevich/EventBus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vetsoftlabs/vetstore/internal/domain"
	"github.com/vetsoftlabs/vetstore/pkg/common"
)

const (
	TopicUserNotify   = "notify.user"
	TopicChatOutbound = "chat.outbound"
)

// Message is one user-facing notification event.
type Message struct {
	AccountID int64
	Email     string
	Kind      string
	Title     string
	Body      string
}

// ChatMessage is an outbound chat event handed to the external realtime
// channel. Delivery is someone else's problem; we only log and archive.
type ChatMessage struct {
	FromAccount int64
	ToAccount   int64
	Body        string
	SentAt      time.Time
}

// Hub wires the event bus to its persistent subscribers.
type Hub struct {
	bus    evbus.Bus
	db     *gorm.DB
	mailer *Mailer
}

func NewHub(db *gorm.DB, mailer *Mailer) *Hub {
	h := &Hub{bus: evbus.New(), db: db, mailer: mailer}
	_ = h.bus.SubscribeAsync(TopicUserNotify, h.onUserNotify, false)
	_ = h.bus.SubscribeAsync(TopicChatOutbound, h.onChatOutbound, false)
	return h
}

// Publish emits a user notification event.
func (h *Hub) Publish(msg Message) {
	h.bus.Publish(TopicUserNotify, msg)
}

// PublishChat emits an outbound chat event.
func (h *Hub) PublishChat(msg ChatMessage) {
	h.bus.Publish(TopicChatOutbound, msg)
}

// Wait blocks until async subscribers drained their queues. Used in tests
// and on shutdown.
func (h *Hub) Wait() {
	h.bus.WaitAsync()
}

func (h *Hub) onUserNotify(msg Message) {
	row := domain.Notification{
		ID:        common.UUIDint64(),
		AccountId: msg.AccountID,
		Kind:      msg.Kind,
		Title:     msg.Title,
		Message:   msg.Body,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := h.db.Create(&row).Error; err != nil {
		zap.L().Error("notify: failed to append notification",
			zap.Int64("account_id", msg.AccountID), zap.Error(err))
		return
	}
	if h.mailer != nil && msg.Email != "" {
		if err := h.mailer.Send(msg.Email, msg.Title, msg.Body); err != nil {
			zap.L().Warn("notify: email delivery failed",
				zap.String("to", msg.Email), zap.Error(err))
		}
	}
}

func (h *Hub) onChatOutbound(msg ChatMessage) {
	// The realtime transport is external; archive the message as a chat
	// notification for the recipient so it survives reconnects.
	row := domain.Notification{
		ID:        common.UUIDint64(),
		AccountId: msg.ToAccount,
		Kind:      domain.NotifyKindChat,
		Title:     "chat",
		Message:   msg.Body,
		CreatedAt: msg.SentAt,
		UpdatedAt: msg.SentAt,
	}
	if err := h.db.Create(&row).Error; err != nil {
		zap.L().Error("notify: failed to archive chat message", zap.Error(err))
	}
}
