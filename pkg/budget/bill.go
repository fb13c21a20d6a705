package budget

import (
	"math"
	"sort"
	"time"
)

// Urgency is the derived reminder state of a bill.
type Urgency string

const (
	UrgencyPaid    Urgency = "paid"
	UrgencyOverdue Urgency = "overdue"
	UrgencyUrgent  Urgency = "urgent"
	UrgencyNormal  Urgency = "normal"
)

// DaysUntilDue counts calendar days from now to the bill's next due date,
// both taken in now's location. Negative means the date has passed.
func DaysUntilDue(b Bill, now time.Time) int {
	loc := now.Location()
	today := startOfDay(now)
	due := startOfDay(b.NextDueDate.In(loc))
	return int(math.Round(due.Sub(today).Hours() / 24))
}

// Classify derives the urgency of b at now. Paid wins over every date check.
func Classify(b Bill, now time.Time) Urgency {
	if b.IsPaid {
		return UrgencyPaid
	}
	days := DaysUntilDue(b, now)
	switch {
	case days < 0:
		return UrgencyOverdue
	case days <= b.ReminderDays:
		return UrgencyUrgent
	default:
		return UrgencyNormal
	}
}

// NextDueDate returns the occurrence after b.NextDueDate for recurring
// frequencies. Month and year steps follow time.AddDate normalisation, so
// Jan 31 plus one month lands in early March.
func NextDueDate(b Bill) (time.Time, bool) {
	switch b.Frequency {
	case FrequencyWeekly:
		return b.NextDueDate.AddDate(0, 0, 7), true
	case FrequencyMonthly:
		return b.NextDueDate.AddDate(0, 1, 0), true
	case FrequencyYearly:
		return b.NextDueDate.AddDate(1, 0, 0), true
	default:
		return time.Time{}, false
	}
}

// MarkPaid applies the "mark paid" transition. paid is b with IsPaid set.
// For recurring bills next is the fresh, unpaid occurrence that replaces it;
// one-time bills return a nil next.
func MarkPaid(b Bill) (paid Bill, next *Bill) {
	paid = b
	paid.IsPaid = true
	if !b.IsRecurring {
		return paid, nil
	}
	due, ok := NextDueDate(b)
	if !ok {
		return paid, nil
	}
	successor := b
	successor.IsPaid = false
	successor.NextDueDate = due
	return paid, &successor
}

// OverdueBills returns unpaid bills whose due day has passed.
func OverdueBills(bills []Bill, now time.Time) []Bill {
	return filterBills(bills, func(b Bill) bool { return Classify(b, now) == UrgencyOverdue })
}

// UrgentBills returns unpaid bills due today or inside their reminder window.
func UrgentBills(bills []Bill, now time.Time) []Bill {
	return filterBills(bills, func(b Bill) bool { return Classify(b, now) == UrgencyUrgent })
}

// UpcomingBills returns unpaid bills due strictly after now and strictly
// before now+horizon, soonest first.
func UpcomingBills(bills []Bill, now time.Time, horizon time.Duration) []Bill {
	limit := now.Add(horizon)
	out := filterBills(bills, func(b Bill) bool {
		return !b.IsPaid && b.NextDueDate.After(now) && b.NextDueDate.Before(limit)
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NextDueDate.Before(out[j].NextDueDate)
	})
	return out
}

func filterBills(bills []Bill, keep func(Bill) bool) []Bill {
	out := []Bill{}
	for _, b := range bills {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
