package domain

import "time"

const (
	SalePendingPayment = "pending_payment"
	SalePaid           = "paid"
	SaleCancelled      = "cancelled"
)

// Sale is a checkout order. Lines are kept in store_sale_line and loaded
// on demand; Total is denormalized at creation time.
type Sale struct {
	ID         int64      `json:"id,string" form:"id"`
	ClientId   int64      `gorm:"index" json:"client_id,string" form:"client_id"`
	Total      float64    `json:"total" form:"total"`
	Status     string     `gorm:"index" json:"status" form:"status"`
	PaymentURL string     `gorm:"size:1024" json:"payment_url"`
	Lines      []SaleLine `gorm:"-" json:"lines,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (Sale) TableName() string {
	return "store_sale"
}

type SaleLine struct {
	ID        int64   `json:"id,string"`
	SaleId    int64   `gorm:"index" json:"sale_id,string"`
	ProductId int64   `gorm:"index" json:"product_id,string"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

func (SaleLine) TableName() string {
	return "store_sale_line"
}
