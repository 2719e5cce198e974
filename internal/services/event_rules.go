package services

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"techevents/internal/domain"
)

const (
	titleMinLen       = 3
	titleMaxLen       = 200
	descriptionMinLen = 10
)

// slugSpaces is the whitespace set used for slugs: ASCII whitespace including
// vertical tab, every Unicode separator and the byte order mark.
const slugSpaces = `\s\v\p{Z}\x{FEFF}`

var (
	slugStripRe  = regexp.MustCompile(`[^\w` + slugSpaces + `-]`)
	slugSpaceRe  = regexp.MustCompile(`[` + slugSpaces + `]+`)
	slugHyphenRe = regexp.MustCompile(`-+`)

	dateLayouts = []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
		"January 2, 2006",
		"Jan 2, 2006",
		"2 January 2006",
		"01/02/2006",
	}

	datePhrases = newDateParser()
)

func newDateParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// eventChanges marks which derived fields must be recomputed on a write.
type eventChanges struct {
	title bool
	date  bool
	time  bool
}

var newEvent = eventChanges{title: true, date: true, time: true}

// diffEvent reports which of the normalised fields differ between the stored and incoming record.
func diffEvent(stored, incoming *domain.Event) eventChanges {
	return eventChanges{
		title: stored.Title != incoming.Title,
		date:  stored.Date != incoming.Date,
		time:  stored.Time != incoming.Time,
	}
}

// Slugify derives the base slug for a title: lower case, characters outside
// [A-Za-z0-9_], whitespace and '-' removed, whitespace runs replaced with a
// single hyphen and hyphen runs collapsed.
func Slugify(title string) string {
	s := strings.TrimFunc(cases.Lower(language.Und).String(title), isSlugSpace)
	s = slugStripRe.ReplaceAllString(s, "")
	s = slugSpaceRe.ReplaceAllString(s, "-")
	return slugHyphenRe.ReplaceAllString(s, "-")
}

func isSlugSpace(r rune) bool {
	return unicode.IsSpace(r) || unicode.Is(unicode.Z, r) || r == '\uFEFF'
}

// slugCandidate returns base for attempt 0 and base-N afterwards.
func slugCandidate(base string, attempt int) string {
	if attempt == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, attempt)
}

// trimEventFields applies the trimming and case rules every stored event obeys.
// Date and time are left alone; they are normalised only when they change.
func trimEventFields(e *domain.Event) {
	e.Title = strings.TrimSpace(e.Title)
	e.Description = strings.TrimSpace(e.Description)
	e.Overview = strings.TrimSpace(e.Overview)
	e.Image = strings.TrimSpace(e.Image)
	e.Venue = strings.TrimSpace(e.Venue)
	e.Location = strings.TrimSpace(e.Location)
	e.Audience = strings.TrimSpace(e.Audience)
	e.Organizer = strings.TrimSpace(e.Organizer)
	e.Mode = domain.EventMode(strings.ToLower(string(e.Mode)))
}

// validateEventFields returns every declared constraint e violates.
func validateEventFields(e *domain.Event) []string {
	var errs []string

	switch n := utf8.RuneCountInString(e.Title); {
	case n == 0:
		errs = append(errs, "title is required")
	case n < titleMinLen:
		errs = append(errs, fmt.Sprintf("title must be at least %d characters long", titleMinLen))
	case n > titleMaxLen:
		errs = append(errs, fmt.Sprintf("title cannot exceed %d characters", titleMaxLen))
	}

	switch n := utf8.RuneCountInString(e.Description); {
	case n == 0:
		errs = append(errs, "description is required")
	case n < descriptionMinLen:
		errs = append(errs, fmt.Sprintf("description must be at least %d characters long", descriptionMinLen))
	}

	required := []struct {
		value, msg string
	}{
		{e.Overview, "overview is required"},
		{e.Image, "image URL is required"},
		{e.Venue, "venue is required"},
		{e.Location, "location is required"},
		{e.Date, "date is required"},
		{e.Time, "time is required"},
		{e.Audience, "audience is required"},
		{e.Organizer, "organizer is required"},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, r.msg)
		}
	}

	if e.Mode == "" {
		errs = append(errs, "mode is required")
	} else if !e.Mode.Valid() {
		errs = append(errs, "mode must be one of: online, offline, hybrid")
	}
	if len(e.Agenda) == 0 {
		errs = append(errs, "agenda must contain at least one item")
	}
	if len(e.Tags) == 0 {
		errs = append(errs, "at least one tag is required")
	}
	return errs
}

// normalizeDate trims the date and tries to read a point in time from it.
// Unparsable dates are kept as opaque strings; only an empty value is rejected.
func normalizeDate(e *domain.Event, ref time.Time) []string {
	e.Date = strings.TrimSpace(e.Date)
	e.StartsAt = nil
	if e.Date == "" {
		return []string{"date cannot be empty"}
	}
	if t, ok := parseEventDate(e.Date, ref); ok {
		e.StartsAt = &t
	}
	return nil
}

func parseEventDate(s string, ref time.Time) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	r, err := datePhrases.Parse(s, ref)
	if err != nil || r == nil {
		return time.Time{}, false
	}
	return r.Time.UTC(), true
}

// normalizeTime trims the time and rejects it when nothing is left.
func normalizeTime(e *domain.Event) []string {
	e.Time = strings.TrimSpace(e.Time)
	if e.Time == "" {
		return []string{"time cannot be empty"}
	}
	return nil
}
