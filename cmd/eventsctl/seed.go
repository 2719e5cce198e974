package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"techevents/internal/domain"
	"techevents/internal/services"
)

//go:embed seed_events.json
var seedEventsJSON []byte

type seedResult struct {
	Created int
	Skipped int
}

func loadSeedEvents() ([]*domain.Event, error) {
	var events []*domain.Event
	if err := json.Unmarshal(seedEventsJSON, &events); err != nil {
		return nil, fmt.Errorf("decode seed events: %w", err)
	}
	return events, nil
}

// seed creates each event whose derived slug is not stored yet. Events
// already present are left untouched, so repeated runs are harmless.
func seed(ctx context.Context, svc domain.EventService, events []*domain.Event, out io.Writer) (seedResult, error) {
	var res seedResult
	for _, e := range events {
		slug := services.Slugify(e.Title)
		_, err := svc.GetEventBySlug(ctx, slug)
		switch {
		case err == nil:
			res.Skipped++
			skipColor.Fprintf(out, "skip    %s\n", slug)
			continue
		case !errors.Is(err, domain.ErrNotFound):
			return res, fmt.Errorf("look up %q: %w", slug, err)
		}

		if err := svc.CreateEvent(ctx, e); err != nil {
			return res, fmt.Errorf("create %q: %w", e.Title, err)
		}
		res.Created++
		okColor.Fprintf(out, "created %s\n", e.Slug)
	}
	return res, nil
}
