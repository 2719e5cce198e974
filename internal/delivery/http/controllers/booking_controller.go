package controllers

import (
	"log/slog"
	"net/http"

	"techevents/internal/delivery/http/helpers"
	"techevents/internal/domain"
)

// BookingRequest is the request body for POST /bookings and PUT /bookings/{id}.
type BookingRequest struct {
	EventID string `json:"event_id"`
	Email   string `json:"email"`
}

// BookingSuccessResponse is the success response envelope for a single booking.
type BookingSuccessResponse struct {
	Success bool            `json:"success"`
	Data    *domain.Booking `json:"data"`
	Message string          `json:"message"`
}

// ListBookingsSuccessResponse is the success response envelope for GET /events/{id}/bookings (200).
type ListBookingsSuccessResponse struct {
	Success bool              `json:"success"`
	Data    []*domain.Booking `json:"data"`
	Count   int               `json:"count"`
}

// BookingController handles bookings.
type BookingController struct {
	Logger  *slog.Logger
	Service domain.BookingService
}

// NewBookingController creates a BookingController with the given logger and service.
func NewBookingController(logger *slog.Logger, svc domain.BookingService) *BookingController {
	return &BookingController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateBooking godoc
// @Summary Book an event
// @Description The email is trimmed and lower-cased. The referenced event must exist. A confirmation email is sent on success.
// @Tags bookings
// @Accept json
// @Produce json
// @Param body body BookingRequest true "Booking data"
// @Success 201 {object} controllers.BookingSuccessResponse "data contains the booking"
// @Failure 400 {object} helpers.APIResponse "details lists every violation"
// @Failure 404 {object} helpers.APIResponse "referenced event does not exist"
// @Failure 409 {object} helpers.APIResponse "email already booked for the event"
// @Failure 500 {object} helpers.APIResponse "error: Failed to create booking"
// @Router /bookings [post]
func (c *BookingController) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req BookingRequest
	if !helpers.DecodeAndValidateLenient(w, r, &req) {
		return
	}
	booking, err := c.Service.CreateBooking(r.Context(), req.EventID, req.Email)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err, "Failed to create booking")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, booking, "Booking created successfully")
}

// UpdateBooking godoc
// @Summary Replace a booking
// @Description The event reference is re-checked only when event_id changes.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID (UUID)"
// @Param body body BookingRequest true "Booking data"
// @Success 200 {object} controllers.BookingSuccessResponse "data contains the booking"
// @Failure 400 {object} helpers.APIResponse "details lists every violation"
// @Failure 401 {object} helpers.APIResponse "missing or invalid admin token"
// @Failure 404 {object} helpers.APIResponse "unknown booking or referenced event"
// @Failure 409 {object} helpers.APIResponse "email already booked for the event"
// @Failure 500 {object} helpers.APIResponse "error: Failed to update booking"
// @Router /bookings/{id} [put]
func (c *BookingController) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	var req BookingRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	booking, err := c.Service.UpdateBooking(r.Context(), r.PathValue("id"), req.EventID, req.Email)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err, "Failed to update booking")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, booking, "Booking updated successfully")
}

// ListEventBookings godoc
// @Summary List bookings for an event
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} controllers.ListBookingsSuccessResponse "data contains the bookings"
// @Failure 401 {object} helpers.APIResponse "missing or invalid admin token"
// @Failure 404 {object} helpers.APIResponse "unknown event"
// @Failure 500 {object} helpers.APIResponse "error: Failed to fetch bookings"
// @Router /events/{id}/bookings [get]
func (c *BookingController) ListEventBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := c.Service.ListEventBookings(r.Context(), r.PathValue("id"))
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err, "Failed to fetch bookings")
		return
	}
	helpers.WriteJSONList(w, bookings)
}
