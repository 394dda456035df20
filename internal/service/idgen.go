package service

import (
	"errors"
	"fmt"

	"sarasavi-library-backend/internal/domain"
)

// Identifier formats:
//
//	title  — classification letter plus a four digit sequence: A0001
//	member — the letter U plus a four digit sequence: U0001
//	copy   — title id plus a single ordinal digit, 1 through 9 with 0
//	         standing in for the tenth copy: A00013, A00010
const (
	titleSeqMax  = 9999
	memberSeqMax = 9999
)

// nextTitleID derives the successor of the highest issued title id for a
// classification. An empty current id starts the sequence at 0001.
func nextTitleID(classification byte, current string) (string, error) {
	if current == "" {
		return fmt.Sprintf("%c0001", classification), nil
	}
	var seq int
	if _, err := fmt.Sscanf(current[1:], "%d", &seq); err != nil {
		return "", fmt.Errorf("malformed title id %q: %w", current, err)
	}
	if seq >= titleSeqMax {
		return "", domain.ErrSequenceExhausted
	}
	return fmt.Sprintf("%c%04d", classification, seq+1), nil
}

// nextMemberID derives the successor of the highest issued member id.
func nextMemberID(current string) (string, error) {
	if current == "" {
		return "U0001", nil
	}
	var seq int
	if _, err := fmt.Sscanf(current[1:], "%d", &seq); err != nil {
		return "", fmt.Errorf("malformed member id %q: %w", current, err)
	}
	if seq >= memberSeqMax {
		return "", domain.ErrSequenceExhausted
	}
	return fmt.Sprintf("U%04d", seq+1), nil
}

// copyID builds the id of the ordinal-th copy of a title. Ordinals run 1
// through 10; the tenth copy takes the digit 0.
func copyID(titleID string, ordinal int) (string, error) {
	if ordinal < 1 || ordinal > domain.MaxCopiesPerTitle {
		return "", domain.ErrLimitExceeded
	}
	digit := ordinal % 10
	return fmt.Sprintf("%s%d", titleID, digit), nil
}

func isDuplicate(err error) bool {
	return errors.Is(err, domain.ErrDuplicateID)
}
