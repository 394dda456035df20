package domain

// Title is the catalogue entry for a book. All physical copies of the same
// work share one Title. The id is one classification letter followed by a
// 4-digit sequence, e.g. "A0001".
type Title struct {
	ID             string `json:"id"`
	Classification byte   `json:"-"`
	Name           string `json:"title"`
	Author         string `json:"author"`
	ISBN           string `json:"isbn"`
	Publisher      string `json:"publisher"`
}

// CopyCounts aggregates the per-status copy totals shown by title inquiry.
type CopyCounts struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Loaned    int `json:"loaned"`
	Reserved  int `json:"reserved"`
	Reference int `json:"reference"`
}

// CountCopies tallies copies by status.
func CountCopies(copies []Copy) CopyCounts {
	counts := CopyCounts{Total: len(copies)}
	for _, c := range copies {
		switch c.Status {
		case CopyStatusAvailable:
			counts.Available++
		case CopyStatusLoaned:
			counts.Loaned++
		case CopyStatusReserved:
			counts.Reserved++
		case CopyStatusReference:
			counts.Reference++
		}
	}
	return counts
}
