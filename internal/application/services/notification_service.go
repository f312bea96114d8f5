package services

import (
	"context"
	"fmt"

	"github.com/vetordigital/leadfunnel/internal/domain/entities"
	"github.com/vetordigital/leadfunnel/internal/domain/schedule"
)

// EmailSender delivers a rendered email. Implemented by the SendGrid sender
// in infrastructure; mocked in tests.
type EmailSender interface {
	Send(ctx context.Context, toEmail, toName, subject, plainBody, htmlBody string) error
}

// NotificationService renders and sends booking confirmations.
type NotificationService struct {
	sender EmailSender
}

// NewNotificationService creates a new notification service
func NewNotificationService(sender EmailSender) *NotificationService {
	return &NotificationService{sender: sender}
}

// SendBookingConfirmation emails the lead their session details and, when
// present, the meeting link.
func (n *NotificationService) SendBookingConfirmation(ctx context.Context, booking *entities.Booking) error {
	loc := schedule.BusinessLocation()
	dateLine := booking.StartsAt.In(loc).Format("02/01/2006")
	timeLine := booking.StartsAt.In(loc).Format("15:04")

	subject := fmt.Sprintf("Sua sessão está confirmada - %s às %s", dateLine, timeLine)

	plain := fmt.Sprintf(
		"Olá %s,\n\n"+
			"Sua sessão estratégica está confirmada.\n\n"+
			"Data: %s\n"+
			"Horário: %s (horário de Brasília)\n",
		booking.Lead.Name, dateLine, timeLine,
	)
	if booking.MeetingLink != "" {
		plain += fmt.Sprintf("Link da reunião: %s\n", booking.MeetingLink)
	}
	plain += "\nAté lá!\nEquipe Vetor Digital"

	html := fmt.Sprintf(
		"<p>Olá %s,</p>"+
			"<p>Sua sessão estratégica está confirmada.</p>"+
			"<p><strong>Data:</strong> %s<br/>"+
			"<strong>Horário:</strong> %s (horário de Brasília)</p>",
		booking.Lead.Name, dateLine, timeLine,
	)
	if booking.MeetingLink != "" {
		html += fmt.Sprintf("<p><a href=%q>Entrar na reunião</a></p>", booking.MeetingLink)
	}
	html += "<p>Até lá!<br/>Equipe Vetor Digital</p>"

	if err := n.sender.Send(ctx, booking.Lead.Email, booking.Lead.Name, subject, plain, html); err != nil {
		return fmt.Errorf("failed to send booking confirmation: %w", err)
	}
	return nil
}
