package domain

import "time"

const (
	NotifyKindSystem      = "system"
	NotifyKindAppointment = "appointment"
	NotifyKindSale        = "sale"
	NotifyKindChat        = "chat"
)

// Notification is one entry in an account's inbox list. Inbound events from
// the pub/sub boundary are appended here; the UI polls and marks read.
type Notification struct {
	ID        int64     `json:"id,string"`
	AccountId int64     `gorm:"index" json:"account_id,string"`
	Kind      string    `gorm:"index" json:"kind"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `gorm:"index" json:"read"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Notification) TableName() string {
	return "sys_notification"
}
