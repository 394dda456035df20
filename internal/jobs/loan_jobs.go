package jobs

import (
	"context"
	"time"

	"sarasavi-library-backend/internal/logger"
)

// ScanOverdueLoans logs every loan past its due date so the morning
// shift has a pick list. Overdue status itself is derived from the due
// date at read time, so the scan writes nothing.
func (jr *JobRunner) ScanOverdueLoans() {
	jr.runWithRecovery("ScanOverdueLoans", func() {
		ctx := context.Background()

		loans, err := jr.store.Repos().Loans.ListOverdue(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to list overdue loans", "error", err)
			return
		}

		for _, loan := range loans {
			logger.Info("Loan overdue",
				"loan_id", loan.ID,
				"copy_id", loan.CopyID,
				"member_id", loan.MemberID,
				"due_date", loan.DueDate.Format("2006-01-02"))
		}
		logger.Info("Scanned overdue loans", "count", len(loans))
	})
}

// SendOverdueReminders emails every member holding an overdue loan.
func (jr *JobRunner) SendOverdueReminders() {
	jr.runWithRecovery("SendOverdueReminders", func() {
		ctx := context.Background()
		repos := jr.store.Repos()

		loans, err := repos.Loans.ListOverdue(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to list overdue loans", "error", err)
			return
		}

		sent := 0
		for _, loan := range loans {
			member, err := repos.Members.GetByID(ctx, loan.MemberID)
			if err != nil {
				logger.Error("Failed to get member for reminder",
					"member_id", loan.MemberID, "error", err)
				continue
			}
			copy, err := repos.Copies.GetByID(ctx, loan.CopyID)
			if err != nil {
				logger.Error("Failed to get copy for reminder",
					"copy_id", loan.CopyID, "error", err)
				continue
			}
			title, err := repos.Titles.GetByID(ctx, copy.TitleID)
			if err != nil {
				logger.Error("Failed to get title for reminder",
					"title_id", copy.TitleID, "error", err)
				continue
			}
			if err := jr.notifier.NotifyOverdueLoan(ctx, member, title, loan.DueDate); err != nil {
				logger.Error("Failed to send overdue reminder",
					"member_id", member.ID, "loan_id", loan.ID, "error", err)
				continue
			}
			sent++
		}
		logger.Info("Sent overdue reminders", "count", sent)
	})
}
