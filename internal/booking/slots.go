// Package booking generates the hourly appointment slots offered by the
// storefront: the fixed clinic-hours sequence minus the slots already
// taken for the requested date.
package booking

import (
	"context"
	"fmt"

	"github.com/araddon/dateparse"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/vetsoftlabs/vetstore/internal/domain"
)

// OccupiedSource supplies the taken slots for a date ("2006-01-02").
// It is an explicit dependency so availability stays date-aware instead
// of a simulated static set.
type OccupiedSource interface {
	Occupied(ctx context.Context, date string) ([]string, error)
}

// Generator produces available "HH:00" slots inside clinic hours.
type Generator struct {
	OpenHour  int
	CloseHour int
	Source    OccupiedSource
}

func NewGenerator(openHour, closeHour int, source OccupiedSource) *Generator {
	return &Generator{OpenHour: openHour, CloseHour: closeHour, Source: source}
}

// Slots returns the full clinic-hours sequence from open to close
// inclusive, e.g. 8..17 -> "08:00" ... "17:00".
func Slots(openHour, closeHour int) []string {
	if closeHour < openHour {
		return []string{}
	}
	out := make([]string, 0, closeHour-openHour+1)
	for h := openHour; h <= closeHour; h++ {
		out = append(out, fmt.Sprintf("%02d:00", h))
	}
	return out
}

// Remove filters the occupied slots out of slots, preserving order.
func Remove(slots []string, occupied []string) []string {
	taken := make(map[string]bool, len(occupied))
	for _, s := range occupied {
		taken[s] = true
	}
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		if !taken[s] {
			out = append(out, s)
		}
	}
	return out
}

// NormalizeDate parses a flexible date input and returns "2006-01-02".
func NormalizeDate(input string) (string, error) {
	t, err := dateparse.ParseAny(input)
	if err != nil {
		return "", errors.Wrapf(err, "booking: bad date %q", input)
	}
	return t.Format("2006-01-02"), nil
}

// AvailableForDate returns the free slots of a date after removing the
// occupied set supplied by the source.
func (g *Generator) AvailableForDate(ctx context.Context, date string) ([]string, error) {
	normalized, err := NormalizeDate(date)
	if err != nil {
		return nil, err
	}
	occupied, err := g.Source.Occupied(ctx, normalized)
	if err != nil {
		return nil, errors.Wrap(err, "booking: load occupied slots")
	}
	return Remove(Slots(g.OpenHour, g.CloseHour), occupied), nil
}

// GormOccupiedSource reads occupied slots from the appointments table.
// Cancelled appointments free their slot.
type GormOccupiedSource struct {
	DB *gorm.DB
}

func (s *GormOccupiedSource) Occupied(ctx context.Context, date string) ([]string, error) {
	var slots []string
	err := s.DB.WithContext(ctx).Model(&domain.Appointment{}).
		Where("date = ? AND status <> ?", date, domain.AppointmentCancelled).
		Pluck("slot", &slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}
