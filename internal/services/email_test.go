package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techevents/internal/domain"
)

func TestEmailService_SendBookingConfirmation(t *testing.T) {
	data := &domain.BookingConfirmationEmailData{Email: "a@b.co", EventTitle: "Go Conf", EventSlug: "go-conf"}

	t.Run("renders and sends", func(t *testing.T) {
		mailer, renderer := &fakeMailer{}, &fakeRenderer{}
		svc := NewEmailService(mailer, renderer, testLogger)

		require.NoError(t, svc.SendBookingConfirmation(context.Background(), data))
		assert.Equal(t, "booking_confirmation", renderer.name)
		assert.Equal(t, "a@b.co", mailer.to)
		assert.Equal(t, "subject", mailer.subject)
		assert.Equal(t, "<p>html</p>", mailer.html)
		assert.Equal(t, "text", mailer.text)
	})

	t.Run("render failure", func(t *testing.T) {
		mailer := &fakeMailer{}
		svc := NewEmailService(mailer, &fakeRenderer{err: errors.New("bad template")}, testLogger)
		require.Error(t, svc.SendBookingConfirmation(context.Background(), data))
		assert.Empty(t, mailer.to)
	})

	t.Run("send failure", func(t *testing.T) {
		cause := errors.New("ses down")
		svc := NewEmailService(&fakeMailer{err: cause}, &fakeRenderer{}, testLogger)
		err := svc.SendBookingConfirmation(context.Background(), data)
		require.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "go-conf")
	})

	t.Run("no recipient", func(t *testing.T) {
		mailer, renderer := &fakeMailer{}, &fakeRenderer{}
		svc := NewEmailService(mailer, renderer, testLogger)
		assert.ErrorIs(t, svc.SendBookingConfirmation(context.Background(), nil), errNoConfirmationRecipient)
		assert.ErrorIs(t, svc.SendBookingConfirmation(context.Background(), &domain.BookingConfirmationEmailData{EventSlug: "go-conf"}), errNoConfirmationRecipient)
		assert.Empty(t, renderer.name)
	})
}
