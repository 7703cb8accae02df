package domain

import "time"

const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentCancelled = "cancelled"
	AppointmentDone      = "done"
)

// Appointment is a clinic visit (turno) on a fixed hourly slot.
// Date is kept as "2006-01-02" and Slot as "HH:00" so the occupied-slot
// query stays a plain equality match. SlotKey is the uniqueness guard:
// active appointments hold "date slot", cancelled ones hold NULL so the
// slot can be booked again.
type Appointment struct {
	ID         int64     `json:"id,string" form:"id"`
	ClientId   int64     `gorm:"index" json:"client_id,string" form:"client_id"`
	PetId      int64     `gorm:"index" json:"pet_id,string" form:"pet_id"`
	EmployeeId int64     `gorm:"index" json:"employee_id,string" form:"employee_id"`
	Date       string    `gorm:"index" json:"date" form:"date"`
	Slot       string    `json:"slot" form:"slot"`
	SlotKey    *string   `gorm:"uniqueIndex:uk_turno_slot" json:"-"`
	Service    string    `json:"service" form:"service"`
	Status     string    `gorm:"index" json:"status" form:"status"`
	Remark     string    `json:"remark" form:"remark"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Appointment) TableName() string {
	return "clinic_appointment"
}

// SlotKey builds the uniqueness guard value for an active appointment.
func SlotKey(date, slot string) *string {
	k := date + " " + slot
	return &k
}
