// Package billing projects the payment records into the read-only ledger
// shown on the billing screen and its spreadsheet export.
package billing

import (
	"fmt"
	"sort"
	"time"

	"github.com/iliyamo/dance-studio-admin/internal/model"
)

// UnknownStudent labels a payment whose student no longer exists.
const UnknownStudent = "Unknown student"

// Entry is one ledger row.
type Entry struct {
	TransactionID string  `json:"transaction_id"`
	StudentID     string  `json:"student_id"`
	StudentName   string  `json:"student_name"`
	Date          string  `json:"date"`
	DisplayDate   string  `json:"display_date"`
	Amount        float64 `json:"amount"`
	DisplayAmount string  `json:"display_amount"`
	Type          string  `json:"type"`
}

// Ledger joins payments with student names and sorts them newest first.
// Dates that do not parse as YYYY-MM-DD sort as the zero time, after every
// valid date.  Payments with the same date keep their input order.  The
// input slice is not modified.
func Ledger(payments []model.Payment, students []model.Student) []Entry {
	names := make(map[string]string, len(students))
	for _, s := range students {
		names[s.ID] = s.Name
	}

	type row struct {
		entry Entry
		at    time.Time
	}
	rows := make([]row, 0, len(payments))
	for _, p := range payments {
		name, ok := names[p.StudentID]
		if !ok {
			name = UnknownStudent
		}
		at, _ := time.Parse(time.DateOnly, p.Date)
		rows = append(rows, row{
			at: at,
			entry: Entry{
				TransactionID: p.ID,
				StudentID:     p.StudentID,
				StudentName:   name,
				Date:          p.Date,
				DisplayDate:   displayDate(at, p.Date),
				Amount:        p.Amount,
				DisplayAmount: FormatAmount(p.Amount),
				Type:          p.Type,
			},
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].at.After(rows[j].at) })

	out := make([]Entry, len(rows))
	for i, r := range rows {
		out[i] = r.entry
	}
	return out
}

// FormatAmount renders an amount in euros with two decimals.
func FormatAmount(v float64) string {
	return fmt.Sprintf("€%.2f", v)
}

// displayDate renders the date as D/M/YYYY, the studio's local format.
func displayDate(at time.Time, raw string) string {
	if at.IsZero() {
		return raw
	}
	return at.Format("2/1/2006")
}
