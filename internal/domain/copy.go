package domain

type CopyStatus string

const (
	CopyStatusAvailable CopyStatus = "Available"
	CopyStatusLoaned    CopyStatus = "Loaned"
	CopyStatusReserved  CopyStatus = "Reserved"
	CopyStatusReference CopyStatus = "Reference"
)

// MaxCopiesPerTitle caps how many physical copies one title may have. The
// copy id encodes the ordinal as a single digit (1-9, "0" for the 10th).
const MaxCopiesPerTitle = 10

// Copy is one physical, individually trackable instance of a Title.
// The id is the title id plus one trailing digit, e.g. "A00011".
type Copy struct {
	ID         string     `json:"id"`
	TitleID    string     `json:"title_id"`
	Status     CopyStatus `json:"status"`
	Borrowable bool       `json:"borrowable"`
}

// CanBeBorrowed reports whether this copy may be lent right now.
// Reference copies are permanently excluded from lending.
func (c *Copy) CanBeBorrowed() bool {
	return c.Borrowable && c.Status == CopyStatusAvailable
}
