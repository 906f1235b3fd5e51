package model

// Payment is a single entry of the billing ledger.
type Payment struct {
	ID        string  `json:"id" yaml:"id"`                 // transaction identifier ("pay_…")
	StudentID string  `json:"student_id" yaml:"student_id"` // paying student
	Amount    float64 `json:"amount" yaml:"amount"`         // amount in euros
	Date      string  `json:"date" yaml:"date"`             // YYYY-MM-DD
	Type      string  `json:"type" yaml:"type"`             // label, e.g. "Monthly Membership"
}

// PaymentDraft carries payment fields before an identifier is assigned.
type PaymentDraft struct {
	StudentID string  `json:"student_id" validate:"required"`
	Amount    float64 `json:"amount" validate:"gt=0"`
	Date      string  `json:"date" validate:"omitempty,isodate"`
	Type      string  `json:"type"`
}
