// Package delivery decides valid delivery dates: Sundays and public holidays
// are blacked out, same-day delivery is never offered, orders placed after the
// daily cutoff lose one more day, and scheduling is capped at a fixed window.
package delivery

import (
	"fmt"
	"time"
)

const (
	// CutoffHour is the hour of day after which next-day delivery is no
	// longer offered.
	CutoffHour = 18
	// WindowDays caps how far ahead a delivery can be scheduled.
	WindowDays = 14
)

// Holiday is a blackout calendar entry. Year zero means the entry recurs
// every year; a non-zero year pins it to that year only (movable feasts).
type Holiday struct {
	Name  string
	Month time.Month
	Day   int
	Year  int
}

// Scheduler evaluates delivery-date business rules against an injected
// holiday calendar.
type Scheduler struct {
	cutoffHour int
	windowDays int
	holidays   []Holiday
}

func NewScheduler(holidays []Holiday) *Scheduler {
	return &Scheduler{
		cutoffHour: CutoffHour,
		windowDays: WindowDays,
		holidays:   holidays,
	}
}

// DateCheck is the structured result of ValidateDate.
type DateCheck struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsPastDate reports whether date's calendar day is strictly before now's.
// Time of day is ignored on both sides.
func (s *Scheduler) IsPastDate(date, now time.Time) bool {
	return dateOnly(date).Before(dateOnly(now))
}

// IsTooFarInFuture reports whether date is more than the scheduling window
// ahead of now's calendar day.
func (s *Scheduler) IsTooFarInFuture(date, now time.Time) bool {
	return dateOnly(date).After(dateOnly(now).AddDate(0, 0, s.windowDays))
}

// IsBlackoutDate reports whether date falls on a Sunday or a public holiday.
func (s *Scheduler) IsBlackoutDate(date time.Time) bool {
	if date.Weekday() == time.Sunday {
		return true
	}
	_, ok := s.holidayOn(date)
	return ok
}

func (s *Scheduler) holidayOn(date time.Time) (Holiday, bool) {
	for _, h := range s.holidays {
		if h.Month != date.Month() || h.Day != date.Day() {
			continue
		}
		if h.Year == 0 || h.Year == date.Year() {
			return h, true
		}
	}
	return Holiday{}, false
}

// MinDeliveryDate returns the earliest schedulable date: tomorrow before the
// cutoff hour, the day after otherwise, advanced past any blackout dates.
// The result is never a blackout date and never earlier than tomorrow.
func (s *Scheduler) MinDeliveryDate(now time.Time) time.Time {
	lead := 1
	if now.Hour() >= s.cutoffHour {
		lead = 2
	}
	min := dateOnly(now).AddDate(0, 0, lead)
	for s.IsBlackoutDate(min) {
		min = min.AddDate(0, 0, 1)
	}
	return min
}

// MaxDeliveryDate returns the last day of the scheduling window, regardless
// of blackout status.
func (s *Scheduler) MaxDeliveryDate(now time.Time) time.Time {
	return dateOnly(now).AddDate(0, 0, s.windowDays)
}

// ValidateDate runs the delivery rules in order: past date, window limit,
// blackout, minimum lead time. The first failing rule sets the reason.
func (s *Scheduler) ValidateDate(date, now time.Time) DateCheck {
	if s.IsPastDate(date, now) {
		return DateCheck{Reason: "delivery date cannot be in the past"}
	}
	if s.IsTooFarInFuture(date, now) {
		return DateCheck{Reason: fmt.Sprintf("delivery can only be scheduled up to %d days ahead", s.windowDays)}
	}
	if date.Weekday() == time.Sunday {
		return DateCheck{Reason: "we do not deliver on Sundays"}
	}
	if h, ok := s.holidayOn(date); ok {
		return DateCheck{Reason: fmt.Sprintf("we do not deliver on %s", h.Name)}
	}
	if min := s.MinDeliveryDate(now); dateOnly(date).Before(min) {
		return DateCheck{Reason: fmt.Sprintf("earliest available delivery date is %s", min.Format("2006-01-02"))}
	}
	return DateCheck{Valid: true}
}

// ValidDates returns every schedulable date from MinDeliveryDate through
// MaxDeliveryDate inclusive, skipping blackout dates.
func (s *Scheduler) ValidDates(now time.Time) []time.Time {
	max := s.MaxDeliveryDate(now)
	var out []time.Time
	for d := s.MinDeliveryDate(now); !d.After(max); d = d.AddDate(0, 0, 1) {
		if s.IsBlackoutDate(d) {
			continue
		}
		out = append(out, d)
	}
	return out
}
