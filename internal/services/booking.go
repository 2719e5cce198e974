package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"techevents/internal/domain"
)

var bookingEmailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type bookingService struct {
	bookingRepo    domain.BookingRepository
	eventRepo      domain.EventRepository
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewBookingService returns a BookingService. emailService may be nil, in which
// case no confirmation emails are sent.
func NewBookingService(bookingRepo domain.BookingRepository, eventRepo domain.EventRepository, emailService domain.EmailService, logger *slog.Logger, timeout time.Duration) domain.BookingService {
	return &bookingService{
		bookingRepo:    bookingRepo,
		eventRepo:      eventRepo,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func normalizeBookingEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateBooking(b *domain.Booking) []string {
	var errs []string
	if b.EventID == "" {
		errs = append(errs, "event ID is required")
	} else if _, err := uuid.Parse(b.EventID); err != nil {
		errs = append(errs, "event ID must be a valid UUID")
	}
	if b.Email == "" {
		errs = append(errs, "email is required")
	} else if !bookingEmailRegexp.MatchString(b.Email) {
		errs = append(errs, "please provide a valid email address")
	}
	return errs
}

// checkEventExists enforces that a booking never references a missing event.
func (s *bookingService) checkEventExists(ctx context.Context, eventID string) error {
	ok, err := s.eventRepo.Exists(ctx, eventID)
	if err != nil {
		return fmt.Errorf("check event: %w", err)
	}
	if !ok {
		return &domain.ReferentialIntegrityError{Entity: "event", Field: "event_id", ID: eventID}
	}
	return nil
}

func (s *bookingService) CreateBooking(ctx context.Context, eventID, email string) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := s.now()
	booking := domain.NewBooking(strings.TrimSpace(eventID), normalizeBookingEmail(email), now, now)
	if err := domain.NewFieldValidationError("booking", validateBooking(booking)); err != nil {
		return nil, err
	}
	if err := s.checkEventExists(ctx, booking.EventID); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, mapBookingWriteErr(booking, err, "create booking")
	}
	s.logger.InfoContext(ctx, "booking created", "id", booking.ID, "event_id", booking.EventID)
	s.sendConfirmation(ctx, booking)
	return booking, nil
}

func (s *bookingService) UpdateBooking(ctx context.Context, id, eventID, email string) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	stored, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}

	updated := *stored
	updated.EventID = strings.TrimSpace(eventID)
	updated.Email = normalizeBookingEmail(email)
	if err := domain.NewFieldValidationError("booking", validateBooking(&updated)); err != nil {
		return nil, err
	}
	// An unchanged reference is not re-verified.
	if updated.EventID != stored.EventID {
		if err := s.checkEventExists(ctx, updated.EventID); err != nil {
			return nil, err
		}
	}
	updated.UpdatedAt = s.now()
	if err := s.bookingRepo.Update(ctx, &updated); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, mapBookingWriteErr(&updated, err, "update booking")
	}
	return &updated, nil
}

func (s *bookingService) ListEventBookings(ctx context.Context, eventID string) ([]*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := uuid.Parse(eventID); err != nil {
		return nil, domain.ErrNotFound
	}
	ok, err := s.eventRepo.Exists(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("check event: %w", err)
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	bookings, err := s.bookingRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// sendConfirmation mails the booker. The booking is already stored, so
// failures are logged and not returned.
func (s *bookingService) sendConfirmation(ctx context.Context, b *domain.Booking) {
	if s.emailService == nil {
		return
	}
	event, err := s.eventRepo.GetByID(ctx, b.EventID)
	if err != nil {
		s.logger.WarnContext(ctx, "booking confirmation skipped", "booking_id", b.ID, "err", err)
		return
	}
	data := &domain.BookingConfirmationEmailData{
		Email:      b.Email,
		EventTitle: event.Title,
		EventSlug:  event.Slug,
		Date:       event.Date,
		Time:       event.Time,
		Venue:      event.Venue,
		Location:   event.Location,
		Mode:       event.Mode,
	}
	if err := s.emailService.SendBookingConfirmation(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "booking confirmation failed", "booking_id", b.ID, "err", err)
	}
}

func mapBookingWriteErr(b *domain.Booking, err error, op string) error {
	switch {
	case errors.Is(err, domain.ErrDuplicateBooking):
		return &domain.ConflictError{Entity: "booking", Message: "this email is already booked for the event", Err: err}
	case errors.Is(err, domain.ErrEventReference):
		return &domain.ReferentialIntegrityError{Entity: "event", Field: "event_id", ID: b.EventID}
	}
	return fmt.Errorf("%s: %w", op, err)
}
