package domain

import "time"

// LoanPeriodDays is the fixed lending period. Due date = loan date + 14 days.
const LoanPeriodDays = 14

// MaxActiveLoansPerMember caps how many unreturned loans a member may hold.
const MaxActiveLoansPerMember = 5

// Loan records one copy lent to one member. ReturnDate is nil while the
// loan is active.
type Loan struct {
	ID         int64      `json:"id"`
	CopyID     string     `json:"copy_id"`
	MemberID   string     `json:"member_id"`
	LoanDate   time.Time  `json:"loan_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
}

// IsActive reports whether the copy is still out.
func (l *Loan) IsActive() bool {
	return l.ReturnDate == nil
}

// IsOverdue reports whether the loan is active and past its due date on the
// given day. Comparison is at date precision.
func (l *Loan) IsOverdue(today time.Time) bool {
	return l.IsActive() && Day(today).After(Day(l.DueDate))
}

// Day truncates t to midnight UTC. Loan, due and reservation dates carry no
// time-of-day component.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
