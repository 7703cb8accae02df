package storeapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vetsoftlabs/vetstore/internal/booking"
	"github.com/vetsoftlabs/vetstore/internal/domain"
	"github.com/vetsoftlabs/vetstore/internal/notify"
	"github.com/vetsoftlabs/vetstore/internal/webserver"
	"github.com/vetsoftlabs/vetstore/pkg/common"
)

func registerBookingRoutes() {
	webserver.PubGET("/store/slots", availableSlots)
	webserver.ApiGET("/store/appointments", myAppointments)
	webserver.ApiPOST("/store/appointments", bookSlot)
}

// availableSlots lists the free hourly slots of a given date.
func availableSlots(c echo.Context) error {
	date, err := booking.NormalizeDate(c.QueryParam("date"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse date", err.Error())
	}
	slots, err := GetApp(c).Booking().AvailableForDate(c.Request().Context(), date)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load availability", err.Error())
	}
	return ok(c, map[string]interface{}{"date": date, "slots": slots})
}

// myAppointments lists the appointments of the logged-in client.
func myAppointments(c echo.Context) error {
	claims := webserver.CurrentClaims(c)
	if claims == nil || claims.ClientID == 0 {
		return fail(c, http.StatusForbidden, "CLIENT_REQUIRED", "Booking needs a client account", nil)
	}
	var rows []domain.Appointment
	if err := GetDB(c).Where("client_id = ?", claims.ClientID).
		Order("date DESC, slot ASC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query appointments", err.Error())
	}
	return ok(c, rows)
}

type bookingPayload struct {
	PetId   int64  `json:"pet_id,string"`
	Date    string `json:"date"`
	Slot    string `json:"slot"`
	Service string `json:"service"`
	Remark  string `json:"remark"`
}

// bookSlot books an appointment for the logged-in client's own pet.
func bookSlot(c echo.Context) error {
	claims := webserver.CurrentClaims(c)
	if claims == nil || claims.ClientID == 0 {
		return fail(c, http.StatusForbidden, "CLIENT_REQUIRED", "Booking needs a client account", nil)
	}

	var payload bookingPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse booking parameters", nil)
	}
	date, err := booking.NormalizeDate(payload.Date)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse appointment date", err.Error())
	}
	payload.Slot = strings.TrimSpace(payload.Slot)

	var pet domain.Pet
	if err := GetDB(c).Where("id = ? AND client_id = ?", payload.PetId, claims.ClientID).
		First(&pet).Error; err != nil {
		return fail(c, http.StatusNotFound, "PET_NOT_FOUND", "Pet not found for this account", nil)
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
		ID:        common.UUIDint64(),
		ClientId:  claims.ClientID,
		PetId:     pet.ID,
		Date:      date,
		Slot:      payload.Slot,
		SlotKey:   domain.SlotKey(date, payload.Slot),
		Service:   payload.Service,
		Status:    domain.AppointmentPending,
		Remark:    payload.Remark,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&appt).Error; err != nil {
		// Unique slot_key index catches two bookings racing for the slot.
		return fail(c, http.StatusConflict, "SLOT_TAKEN", "Slot was just taken, pick another", err.Error())
	}

	appCtx.Notify().Publish(notify.Message{
		AccountID: claims.AccountID,
		Kind:      domain.NotifyKindAppointment,
		Title:     "Appointment booked",
		Body:      fmt.Sprintf("%s is booked for %s at %s.", pet.Name, appt.Date, appt.Slot),
	})
	return ok(c, appt)
}
