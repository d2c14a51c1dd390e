package mail

import (
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/ahamdan1990/vms-frontend-sub004/internal/model"
)

// Mailer sends invitation email through SendGrid. Delivery is best effort:
// an unconfigured mailer logs and drops the message instead of failing the
// request that triggered it.
type Mailer struct {
	apiKey    string
	fromName  string
	fromEmail string
}

// NewMailer builds a mailer from credentials. Either key or sender address
// being empty disables sending.
func NewMailer(apiKey, fromName, fromEmail string) *Mailer {
	if fromName == "" {
		fromName = "Visitor Management"
	}
	return &Mailer{apiKey: apiKey, fromName: fromName, fromEmail: fromEmail}
}

// Enabled reports whether the mailer has enough configuration to send.
func (m *Mailer) Enabled() bool {
	return m.apiKey != "" && m.fromEmail != ""
}

// SendInvitation emails the visitor their invitation code and visit window.
func (m *Mailer) SendInvitation(inv model.Invitation, slot model.TimeSlot) error {
	if !m.Enabled() {
		log.Printf("Mailer disabled, skipping invitation email to %s", inv.VisitorEmail)
		return nil
	}

	subject := fmt.Sprintf("Your visit on %s", inv.VisitDate)
	plain := fmt.Sprintf(
		"Hello %s,\n\nYour visit is scheduled for %s, %s between %s and %s.\nYour invitation code is %s.\n\nPlease present the code at reception when you arrive.",
		inv.VisitorName, inv.VisitDate, slot.Name, slot.StartTime, slot.EndTime, inv.Code)
	html := fmt.Sprintf(
		"<p>Hello %s,</p><p>Your visit is scheduled for <strong>%s</strong>, %s between %s and %s.</p><p>Your invitation code is <strong>%s</strong>.</p><p>Please present the code at reception when you arrive.</p>",
		inv.VisitorName, inv.VisitDate, slot.Name, slot.StartTime, slot.EndTime, inv.Code)

	return m.send(subject, plain, html, inv)
}

// SendConfirmation emails the visitor that their visit is confirmed.
func (m *Mailer) SendConfirmation(inv model.Invitation, slot model.TimeSlot) error {
	if !m.Enabled() {
		log.Printf("Mailer disabled, skipping confirmation email to %s", inv.VisitorEmail)
		return nil
	}

	subject := fmt.Sprintf("Visit confirmed for %s", inv.VisitDate)
	plain := fmt.Sprintf(
		"Hello %s,\n\nYour visit on %s is confirmed: %s between %s and %s.\nYour invitation code is %s.",
		inv.VisitorName, inv.VisitDate, slot.Name, slot.StartTime, slot.EndTime, inv.Code)
	html := fmt.Sprintf(
		"<p>Hello %s,</p><p>Your visit on <strong>%s</strong> is confirmed: %s between %s and %s.</p><p>Your invitation code is <strong>%s</strong>.</p>",
		inv.VisitorName, inv.VisitDate, slot.Name, slot.StartTime, slot.EndTime, inv.Code)

	return m.send(subject, plain, html, inv)
}

func (m *Mailer) send(subject, plain, html string, inv model.Invitation) error {
	from := sgmail.NewEmail(m.fromName, m.fromEmail)
	to := sgmail.NewEmail(inv.VisitorName, inv.VisitorEmail)
	message := sgmail.NewSingleEmail(from, subject, to, plain, html)

	client := sendgrid.NewSendClient(m.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", inv.VisitorEmail, err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}

	log.Printf("Email sent to %s (status %d)", inv.VisitorEmail, response.StatusCode)
	return nil
}
