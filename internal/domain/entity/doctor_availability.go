package entity

import (
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
)

// ClockLayout is the 24h HH:MM format of availability bounds
const ClockLayout = "15:04"

// DefaultSlotDuration is the stride between consecutive bookable slots
const DefaultSlotDuration = 30 * time.Minute

// DoctorAvailability is a recurring weekly window during which a doctor accepts appointments.
// There is at most one window per doctor and weekday.
type DoctorAvailability struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_availability_doctor_day" json:"doctor_id"`
	DayOfWeek int       `gorm:"not null;uniqueIndex:idx_availability_doctor_day" json:"day_of_week"`
	StartTime string    `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime   string    `gorm:"type:varchar(5);not null" json:"end_time"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DoctorAvailability) TableName() string {
	return "doctor_availabilities"
}

// Window returns the concrete [start, end) interval of this availability on the given date.
// Only the calendar date of date is used, in its own location.
func (a *DoctorAvailability) Window(date time.Time) (time.Time, time.Time, error) {
	start, err := clockOn(date, a.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start time %q: %w", a.StartTime, err)
	}
	end, err := clockOn(date, a.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end time %q: %w", a.EndTime, err)
	}
	return start, end, nil
}

// Slots yields slot start times from the window start in stride steps while the
// start is strictly before the window end. The sequence can be ranged over any
// number of times and yields the same values each time.
func (a *DoctorAvailability) Slots(date time.Time, stride time.Duration) iter.Seq[time.Time] {
	start, end, err := a.Window(date)
	return func(yield func(time.Time) bool) {
		if err != nil || stride <= 0 {
			return
		}
		for t := start; t.Before(end); t = t.Add(stride) {
			if !yield(t) {
				return
			}
		}
	}
}

// ValidClock reports whether s is a 24h HH:MM value
func ValidClock(s string) bool {
	_, err := time.Parse(ClockLayout, s)
	return err == nil
}

// ClockBefore reports whether clock a is strictly earlier than clock b.
// Both must be valid HH:MM values.
func ClockBefore(a, b string) bool {
	ta, errA := time.Parse(ClockLayout, a)
	tb, errB := time.Parse(ClockLayout, b)
	if errA != nil || errB != nil {
		return false
	}
	return ta.Before(tb)
}

func clockOn(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}
