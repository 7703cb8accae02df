package adminapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vetsoftlabs/vetstore/internal/booking"
	"github.com/vetsoftlabs/vetstore/internal/domain"
	"github.com/vetsoftlabs/vetstore/internal/notify"
	"github.com/vetsoftlabs/vetstore/internal/webserver"
	"github.com/vetsoftlabs/vetstore/pkg/common"
)

func registerAppointmentRoutes() {
	webserver.ApiGET("/appointments", staffOnly(listAppointments))
	webserver.ApiGET("/appointments/:id", staffOnly(getAppointment))
	webserver.ApiPOST("/appointments", staffOnly(createAppointment))
	webserver.ApiPUT("/appointments/:id", staffOnly(updateAppointment))
	webserver.ApiDELETE("/appointments/:id", staffOnly(deleteAppointment))
	webserver.ApiPOST("/appointments/reminders/run", staffOnly(runReminders))
}

func listAppointments(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.Appointment{})
	if date := strings.TrimSpace(c.QueryParam("date")); date != "" {
		normalized, err := booking.NormalizeDate(date)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse date filter", err.Error())
		}
		db = db.Where("date = ?", normalized)
	}
	if clientID := strings.TrimSpace(c.QueryParam("client_id")); clientID != "" {
		db = db.Where("client_id = ?", clientID)
	}
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query appointments", err.Error())
	}

	var rows []domain.Appointment
	if err := db.Order("date DESC, slot ASC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query appointments", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getAppointment(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid appointment ID", nil)
	}
	var appt domain.Appointment
	if err := GetDB(c).Where("id = ?", id).First(&appt).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "APPOINTMENT_NOT_FOUND", "Appointment not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query appointment", err.Error())
	}
	return ok(c, appt)
}

type appointmentPayload struct {
	ClientId   int64  `json:"client_id,string"`
	PetId      int64  `json:"pet_id,string"`
	EmployeeId int64  `json:"employee_id,string"`
	Date       string `json:"date"`
	Slot       string `json:"slot"`
	Service    string `json:"service"`
	Status     string `json:"status"`
	Remark     string `json:"remark"`
}

// bookAppointment books a slot for a client and pet after checking the
// slot is still open for that date.
func bookAppointment(c echo.Context, payload appointmentPayload) error {
	if payload.ClientId == 0 || payload.PetId == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "client_id and pet_id are required", nil)
	}
	date, err := booking.NormalizeDate(payload.Date)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse appointment date", err.Error())
	}

	appCtx := GetApp(c)
	available, err := appCtx.Booking().AvailableForDate(c.Request().Context(), date)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load availability", err.Error())
	}
	if !common.InSlice(payload.Slot, available) {
		return fail(c, http.StatusConflict, "SLOT_TAKEN",
			fmt.Sprintf("Slot %s on %s is not available", payload.Slot, date), nil)
	}

	appt := domain.Appointment{
		ID:         common.UUIDint64(),
		ClientId:   payload.ClientId,
		PetId:      payload.PetId,
		EmployeeId: payload.EmployeeId,
		Date:       date,
		Slot:       payload.Slot,
		SlotKey:    domain.SlotKey(date, payload.Slot),
		Service:    payload.Service,
		Status:     domain.AppointmentPending,
		Remark:     payload.Remark,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := GetDB(c).Create(&appt).Error; err != nil {
		// The unique slot_key index is the last line of defense against
		// two bookings racing for the same slot.
		return fail(c, http.StatusConflict, "SLOT_TAKEN", "Slot was just taken, pick another", err.Error())
	}

	var account domain.SysAccount
	if err := GetDB(c).Where("client_id = ?", appt.ClientId).First(&account).Error; err == nil {
		appCtx.Notify().Publish(notify.Message{
			AccountID: account.ID,
			Email:     account.Email,
			Kind:      domain.NotifyKindAppointment,
			Title:     "Appointment booked",
			Body:      fmt.Sprintf("Your appointment on %s at %s is registered.", appt.Date, appt.Slot),
		})
	}

	return ok(c, appt)
}

func createAppointment(c echo.Context) error {
	var payload appointmentPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse appointment parameters", nil)
	}
	return bookAppointment(c, payload)
}

var appointmentStatuses = []string{
	domain.AppointmentPending,
	domain.AppointmentConfirmed,
	domain.AppointmentCancelled,
	domain.AppointmentDone,
}

func updateAppointment(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid appointment ID", nil)
	}
	var payload appointmentPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse appointment parameters", nil)
	}
	var appt domain.Appointment
	if err := GetDB(c).Where("id = ?", id).First(&appt).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "APPOINTMENT_NOT_FOUND", "Appointment not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query appointment", err.Error())
	}

	updates := map[string]interface{}{}
	reactivating := false
	if payload.Status != "" {
		if !common.InSlice(payload.Status, appointmentStatuses) {
			return fail(c, http.StatusBadRequest, "INVALID_STATUS",
				"Status must be one of: "+strings.Join(appointmentStatuses, ", "), nil)
		}
		updates["status"] = payload.Status
		// Cancelling releases the slot guard; reactivating a cancelled
		// appointment reclaims it, and loses to whoever booked meanwhile.
		if payload.Status == domain.AppointmentCancelled {
			updates["slot_key"] = nil
		} else if appt.Status == domain.AppointmentCancelled {
			updates["slot_key"] = domain.SlotKey(appt.Date, appt.Slot)
			reactivating = true
		}
	}
	if payload.EmployeeId != 0 {
		updates["employee_id"] = payload.EmployeeId
	}
	if payload.Service != "" {
		updates["service"] = payload.Service
	}
	if payload.Remark != "" {
		updates["remark"] = payload.Remark
	}
	updates["updated_at"] = time.Now()
	if err := GetDB(c).Model(&appt).Updates(updates).Error; err != nil {
		if reactivating {
			return fail(c, http.StatusConflict, "SLOT_TAKEN", "Slot was rebooked while cancelled, pick another", err.Error())
		}
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update appointment", err.Error())
	}
	GetDB(c).Where("id = ?", id).First(&appt)
	return ok(c, appt)
}

func deleteAppointment(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid appointment ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Appointment{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete appointment", err.Error())
	}
	oplog(c, "appointment.delete", "deleted appointment")
	return ok(c, map[string]interface{}{"id": id})
}

func runReminders(c echo.Context) error {
	if err := GetApp(c).RunReminderSweep(); err != nil {
		return fail(c, http.StatusInternalServerError, "REMINDER_ERROR", "Reminder sweep failed", err.Error())
	}
	return ok(c, map[string]interface{}{"status": "completed"})
}
