package domain

import "time"

// Client is a clinic customer (pet owner).
type Client struct {
	ID        int64     `json:"id,string" form:"id"`
	Name      string    `gorm:"index" json:"name" form:"name"`
	Surname   string    `json:"surname" form:"surname"`
	Dni       string    `gorm:"uniqueIndex" json:"dni" form:"dni"`
	Email     string    `gorm:"uniqueIndex" json:"email" form:"email"`
	Phone     string    `json:"phone" form:"phone"`
	Address   string    `json:"address" form:"address"`
	City      string    `json:"city" form:"city"`
	Remark    string    `json:"remark" form:"remark"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Client) TableName() string {
	return "clinic_client"
}

// Employee is a clinic staff member (veterinarian, groomer, cashier).
type Employee struct {
	ID        int64     `json:"id,string" form:"id"`
	Name      string    `gorm:"index" json:"name" form:"name"`
	Surname   string    `json:"surname" form:"surname"`
	Dni       string    `gorm:"uniqueIndex" json:"dni" form:"dni"`
	Email     string    `gorm:"uniqueIndex" json:"email" form:"email"`
	Phone     string    `json:"phone" form:"phone"`
	Role      string    `gorm:"index" json:"role" form:"role"`
	Status    string    `json:"status" form:"status"`
	Remark    string    `json:"remark" form:"remark"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Employee) TableName() string {
	return "clinic_employee"
}

// Pet belongs to a client.
type Pet struct {
	ID        int64      `json:"id,string" form:"id"`
	ClientId  int64      `gorm:"index" json:"client_id,string" form:"client_id"`
	Name      string     `gorm:"index" json:"name" form:"name"`
	Species   string     `json:"species" form:"species"`
	Breed     string     `json:"breed" form:"breed"`
	Sex       string     `json:"sex" form:"sex"`
	BirthDate *time.Time `json:"birth_date" form:"birth_date"`
	WeightKg  float64    `json:"weight_kg" form:"weight_kg"`
	Remark    string     `json:"remark" form:"remark"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Pet) TableName() string {
	return "clinic_pet"
}
