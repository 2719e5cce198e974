package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"techevents/internal/domain"
)

const bookingConfirmationTemplate = "booking_confirmation"

var errNoConfirmationRecipient = errors.New("booking confirmation has no recipient")

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that renders with renderer and delivers with mailer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

func (s *emailService) SendBookingConfirmation(ctx context.Context, data *domain.BookingConfirmationEmailData) error {
	if data == nil || data.Email == "" {
		return errNoConfirmationRecipient
	}
	subject, htmlBody, textBody, err := s.renderer.Render(bookingConfirmationTemplate, data)
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("send booking confirmation for %s: %w", data.EventSlug, err)
	}
	s.logger.InfoContext(ctx, "booking confirmation sent", "event", data.EventSlug)
	return nil
}
