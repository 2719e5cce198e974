package controllers

import (
	"log/slog"
	"net/http"

	"techevents/internal/delivery/http/helpers"
	"techevents/internal/domain"
)

// EventRequest is the request body for POST /events and PUT /events/{id}.
// Slug, id and timestamps are server-generated.
type EventRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Overview    string   `json:"overview"`
	Image       string   `json:"image"`
	Venue       string   `json:"venue"`
	Location    string   `json:"location"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Mode        string   `json:"mode"`
	Audience    string   `json:"audience"`
	Agenda      []string `json:"agenda"`
	Organizer   string   `json:"organizer"`
	Tags        []string `json:"tags"`
}

func (req EventRequest) toDomain() *domain.Event {
	return &domain.Event{
		Title:       req.Title,
		Description: req.Description,
		Overview:    req.Overview,
		Image:       req.Image,
		Venue:       req.Venue,
		Location:    req.Location,
		Date:        req.Date,
		Time:        req.Time,
		Mode:        domain.EventMode(req.Mode),
		Audience:    req.Audience,
		Agenda:      req.Agenda,
		Organizer:   req.Organizer,
		Tags:        req.Tags,
	}
}

// EventSuccessResponse is the success response envelope for a single event.
type EventSuccessResponse struct {
	Success bool          `json:"success"`
	Data    *domain.Event `json:"data"`
	Message string        `json:"message,omitempty"`
}

// ListEventsSuccessResponse is the success response envelope for GET /events (200).
type ListEventsSuccessResponse struct {
	Success bool            `json:"success"`
	Data    []*domain.Event `json:"data"`
	Count   int             `json:"count"`
}

// EventController handles the events collection.
type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

// NewEventController creates an EventController with the given logger and service.
func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// ListEvents godoc
// @Summary List events
// @Description Returns every event, newest first.
// @Tags events
// @Produce json
// @Success 200 {object} controllers.ListEventsSuccessResponse "data contains the events"
// @Failure 500 {object} helpers.APIResponse "error: Failed to fetch events"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListEvents(r.Context())
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err, "Failed to fetch events")
		return
	}
	helpers.WriteJSONList(w, events)
}

// GetEventBySlug godoc
// @Summary Get an event by slug
// @Tags events
// @Produce json
// @Param slug path string true "Event slug"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the event"
// @Failure 404 {object} helpers.APIResponse "unknown slug"
// @Failure 500 {object} helpers.APIResponse "error: Failed to fetch event"
// @Router /events/{slug} [get]
func (c *EventController) GetEventBySlug(w http.ResponseWriter, r *http.Request) {
	event, err := c.Service.GetEventBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err, "Failed to fetch event")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event, "")
}

// CreateEvent godoc
// @Summary Create an event
// @Description Validates and normalises the event, derives a unique slug from the title and stores it. Every violated field rule is reported in details.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body EventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "details lists every violation"
// @Failure 401 {object} helpers.APIResponse "missing or invalid admin token"
// @Failure 409 {object} helpers.APIResponse "slug taken by a concurrent write"
// @Failure 500 {object} helpers.APIResponse "error: Failed to create event"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event := req.toDomain()
	if err := c.Service.CreateEvent(r.Context(), event); err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err, "Failed to create event")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event, "Event created successfully")
}

// UpdateEvent godoc
// @Summary Replace an event
// @Description Full-record update. The slug is re-derived only when the title changes; date and time are re-normalised only when they change.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Param body body EventRequest true "Event data"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "details lists every violation"
// @Failure 401 {object} helpers.APIResponse "missing or invalid admin token"
// @Failure 404 {object} helpers.APIResponse "unknown event"
// @Failure 409 {object} helpers.APIResponse "slug taken by a concurrent write"
// @Failure 500 {object} helpers.APIResponse "error: Failed to update event"
// @Router /events/{id} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), r.PathValue("id"), req.toDomain())
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err, "Failed to update event")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event, "Event updated successfully")
}
