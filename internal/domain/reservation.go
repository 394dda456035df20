package domain

import "time"

// Reservation is a member's claim on the next free copy of a title.
// Reservations are made per title, not per copy, and are fulfilled oldest
// first by (ReservedDate, ID).
type Reservation struct {
	ID           int64     `json:"id"`
	TitleID      string    `json:"title_id"`
	MemberID     string    `json:"member_id"`
	ReservedDate time.Time `json:"reserved_date"`
}

// ReturnReceipt is the outcome of accepting a returned copy.
type ReturnReceipt struct {
	CopyID     string       `json:"copy_id"`
	TitleID    string       `json:"title_id"`
	MemberID   string       `json:"member_id"`
	LoanDate   time.Time    `json:"loan_date"`
	DueDate    time.Time    `json:"due_date"`
	ReturnDate time.Time    `json:"return_date"`
	WasOverdue bool         `json:"was_overdue"`
	Fulfilled  *Fulfillment `json:"fulfillment,omitempty"`
}

// Fulfillment reports that the returned copy was set aside for the oldest
// outstanding reservation instead of going back on the shelf.
type Fulfillment struct {
	ReservationID int64     `json:"reservation_id"`
	MemberID      string    `json:"member_id"`
	ReservedDate  time.Time `json:"reserved_date"`
}
