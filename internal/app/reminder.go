package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/vetsoftlabs/vetstore/internal/domain"
	"github.com/vetsoftlabs/vetstore/internal/notify"
)

// RunReminderSweep publishes a notification for every non-cancelled
// appointment scheduled for tomorrow. Fanout runs on a bounded worker
// pool so a large agenda cannot flood the bus at once.
func (a *Application) RunReminderSweep() error {
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	var appointments []domain.Appointment
	if err := a.gormDB.
		Where("date = ? AND status IN ?", tomorrow,
			[]string{domain.AppointmentPending, domain.AppointmentConfirmed}).
		Find(&appointments).Error; err != nil {
		return err
	}
	if len(appointments) == 0 {
		return nil
	}

	pool, err := ants.NewPool(10)
	if err != nil {
		return err
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, appt := range appointments {
		appt := appt
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			a.publishReminder(appt)
		}); err != nil {
			wg.Done()
			zap.L().Error("reminder sweep submit failed", zap.Error(err))
		}
	}
	wg.Wait()

	zap.L().Info("reminder sweep completed",
		zap.String("date", tomorrow),
		zap.Int("appointments", len(appointments)))
	return nil
}

func (a *Application) publishReminder(appt domain.Appointment) {
	var account domain.SysAccount
	if err := a.gormDB.Where("client_id = ?", appt.ClientId).First(&account).Error; err != nil {
		zap.L().Debug("reminder skipped, client has no account",
			zap.Int64("client_id", appt.ClientId))
		return
	}

	var pet domain.Pet
	petName := "your pet"
	if err := a.gormDB.Where("id = ?", appt.PetId).First(&pet).Error; err == nil {
		petName = pet.Name
	}

	a.notifyHub.Publish(notify.Message{
		AccountID: account.ID,
		Email:     account.Email,
		Kind:      domain.NotifyKindAppointment,
		Title:     "Appointment reminder",
		Body: fmt.Sprintf("Reminder: %s has an appointment tomorrow (%s) at %s.",
			petName, appt.Date, appt.Slot),
	})
}
