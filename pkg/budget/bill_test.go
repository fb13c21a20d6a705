package budget

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testBill(freq Frequency, due time.Time) Bill {
	return NewBill("bill_1", "Rent", decimal.NewFromInt(650), CategoryRent, due, freq, 3, date(2024, 1, 1))
}

func TestClassify(t *testing.T) {
	now := time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		due      time.Time
		paid     bool
		expected Urgency
	}{
		{"due earlier today", time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC), false, UrgencyUrgent},
		{"due yesterday", date(2024, 1, 9), false, UrgencyOverdue},
		{"inside reminder window", date(2024, 1, 13), false, UrgencyUrgent},
		{"just outside reminder window", date(2024, 1, 14), false, UrgencyNormal},
		{"far in the future", date(2024, 3, 1), false, UrgencyNormal},
		{"paid beats overdue", date(2023, 12, 1), true, UrgencyPaid},
		{"paid beats urgent", date(2024, 1, 11), true, UrgencyPaid},
		{"paid beats normal", date(2024, 6, 1), true, UrgencyPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testBill(FrequencyMonthly, tt.due)
			b.IsPaid = tt.paid
			if got := Classify(b, now); got != tt.expected {
				t.Errorf("Classify() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestClassifyUsesNowLocation(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	// 2024-01-10 02:00 UTC is still Jan 9 in EST.
	due := time.Date(2024, 1, 10, 2, 0, 0, 0, time.UTC)
	now := time.Date(2024, 1, 9, 20, 0, 0, 0, loc)

	b := testBill(FrequencyMonthly, due)
	if got := DaysUntilDue(b, now); got != 0 {
		t.Errorf("DaysUntilDue() = %d, expected 0", got)
	}
}

func TestMarkPaid(t *testing.T) {
	tests := []struct {
		name     string
		freq     Frequency
		due      time.Time
		expected time.Time
	}{
		{"monthly", FrequencyMonthly, date(2024, 1, 10), date(2024, 2, 10)},
		{"weekly", FrequencyWeekly, date(2024, 1, 10), date(2024, 1, 17)},
		{"yearly", FrequencyYearly, date(2024, 1, 10), date(2025, 1, 10)},
		{"monthly end of month overflows", FrequencyMonthly, date(2024, 1, 31), date(2024, 3, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testBill(tt.freq, tt.due)
			paid, next := MarkPaid(b)

			if !paid.IsPaid {
				t.Error("paid bill should have IsPaid set")
			}
			if next == nil {
				t.Fatal("recurring bill should produce a successor")
			}
			if next.IsPaid {
				t.Error("successor should be unpaid")
			}
			if !next.NextDueDate.Equal(tt.expected) {
				t.Errorf("successor due %v, expected %v", next.NextDueDate, tt.expected)
			}
			if !next.DueDate.Equal(tt.due) {
				t.Errorf("original DueDate changed to %v", next.DueDate)
			}
			if b.IsPaid {
				t.Error("MarkPaid mutated its input")
			}
		})
	}
}

func TestMarkPaidOneTime(t *testing.T) {
	b := testBill(FrequencyOneTime, date(2024, 1, 10))
	if b.IsRecurring {
		t.Fatal("one-time bill should not be recurring")
	}

	paid, next := MarkPaid(b)
	if !paid.IsPaid {
		t.Error("expected IsPaid after MarkPaid")
	}
	if next != nil {
		t.Errorf("expected no successor, got %+v", next)
	}
}

func TestMarkPaidKeepsCreationTimeRecurrence(t *testing.T) {
	// Frequency patched after creation does not re-derive IsRecurring.
	b := testBill(FrequencyOneTime, date(2024, 1, 10))
	monthly := FrequencyMonthly
	b = BillPatch{Frequency: &monthly}.Apply(b)

	if _, next := MarkPaid(b); next != nil {
		t.Error("bill created as one-time should not recur after a frequency patch")
	}
}

func TestUpcomingBills(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	late := testBill(FrequencyMonthly, date(2024, 1, 25))
	late.ID = "late"
	soon := testBill(FrequencyMonthly, date(2024, 1, 12))
	soon.ID = "soon"
	paid := testBill(FrequencyMonthly, date(2024, 1, 15))
	paid.ID = "paid"
	paid.IsPaid = true
	past := testBill(FrequencyMonthly, date(2024, 1, 5))
	past.ID = "past"
	beyond := testBill(FrequencyMonthly, date(2024, 3, 1))
	beyond.ID = "beyond"

	bills := []Bill{late, soon, paid, past, beyond}

	upcoming := UpcomingBills(bills, now, 30*24*time.Hour)
	if len(upcoming) != 2 || upcoming[0].ID != "soon" || upcoming[1].ID != "late" {
		t.Errorf("UpcomingBills() = %v, expected [soon late]", billIDs(upcoming))
	}

	overdue := OverdueBills(bills, now)
	if len(overdue) != 1 || overdue[0].ID != "past" {
		t.Errorf("OverdueBills() = %v, expected [past]", billIDs(overdue))
	}

	urgent := UrgentBills(bills, now)
	if len(urgent) != 1 || urgent[0].ID != "soon" {
		t.Errorf("UrgentBills() = %v, expected [soon]", billIDs(urgent))
	}
}

func billIDs(bills []Bill) []string {
	ids := make([]string, len(bills))
	for i, b := range bills {
		ids[i] = b.ID
	}
	return ids
}
