package domain

import "time"

// Product is a storefront catalog item. Stock is the authoritative
// server-side inventory; carts mirror it client-side and reconcile at
// checkout.
type Product struct {
	ID               int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Description      string    `gorm:"index" json:"description"`
	Brand            string    `gorm:"index" json:"brand"`
	Price            float64   `json:"price"`
	Stock            int       `json:"stock"`
	WeightKg         *float64  `json:"weight_kg,omitempty"` // nil for items without a presentation weight
	ImageURL         string    `gorm:"size:1024" json:"image_url"`
	Category         string    `gorm:"index" json:"category"`
	Subcategory      string    `gorm:"index" json:"subcategory"`
	Installments     int       `json:"installments"`
	InstallmentPrice float64   `json:"installment_price"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "store_product"
}

// InventoryUsage records consumables spent by staff outside of sales.
type InventoryUsage struct {
	ID         int64     `json:"id,string" form:"id"`
	ProductId  int64     `gorm:"index" json:"product_id,string" form:"product_id"`
	EmployeeId int64     `gorm:"index" json:"employee_id,string" form:"employee_id"`
	Quantity   int       `json:"quantity" form:"quantity"`
	Reason     string    `json:"reason" form:"reason"`
	UsedAt     time.Time `json:"used_at" form:"used_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (InventoryUsage) TableName() string {
	return "store_inventory_usage"
}
