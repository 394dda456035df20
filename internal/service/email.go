package service

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"sarasavi-library-backend/internal/domain"
	"sarasavi-library-backend/internal/logger"
)

type emailNotifier struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewEmailNotifier(host string, port int, username, password, from string) Notifier {
	return &emailNotifier{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (n *emailNotifier) NotifyReservationReady(ctx context.Context, member *domain.Member, title *domain.Title) error {
	if member.Email == "" {
		// Walk-in members without an email get told at the desk.
		logger.InfoContext(ctx, "member has no email, skipping reservation notice",
			"member_id", member.ID, "title_id", title.ID)
		return nil
	}

	subject := fmt.Sprintf("Your reserved book is ready: %s", title.Name)
	body := fmt.Sprintf("Hello %s,\n\nA copy of %q by %s (%s) has been returned and is being held for you.\nPlease collect it at the circulation desk.\n\nSarasavi Library", member.Name, title.Name, title.Author, title.ID)
	return n.send(member.Email, subject, body)
}

func (n *emailNotifier) NotifyOverdueLoan(ctx context.Context, member *domain.Member, title *domain.Title, dueDate time.Time) error {
	if member.Email == "" {
		logger.InfoContext(ctx, "member has no email, skipping overdue notice",
			"member_id", member.ID, "title_id", title.ID)
		return nil
	}

	subject := fmt.Sprintf("Overdue loan: %s", title.Name)
	body := fmt.Sprintf("Hello %s,\n\nYour loan of %q by %s was due on %s.\nPlease return it to restore your borrowing privileges.\n\nSarasavi Library", member.Name, title.Name, title.Author, dueDate.Format("2006-01-02"))
	return n.send(member.Email, subject, body)
}

func (n *emailNotifier) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(n.host, n.port, n.username, n.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}
	return nil
}
