package domain

import (
	"errors"
	"time"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrEventEnded    = errors.New("event has already ended")
	ErrAlreadyRSVPd  = errors.New("already RSVP'd to this event")
	ErrInvalidEvent  = errors.New("invalid event")
	ErrImageRequired = errors.New("event image is required")
	ErrInvalidFilter = errors.New("invalid filter")
)

const DefaultEventType = "conference"

type Event struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Date          time.Time `json:"date"`
	Location      string    `json:"location"`
	ImageURL      *string   `json:"image_url,omitempty"`
	Type          string    `json:"type"`
	AttendeeCount int       `json:"attendee_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// IsPast reports whether the event date is at or before now.
func (e *Event) IsPast(now time.Time) bool {
	return !e.Date.After(now)
}

type RSVP struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// RSVPDetail is an RSVP joined with its event and user for the admin view.
type RSVPDetail struct {
	RSVP
	EventTitle  string    `json:"event_title"`
	EventDate   time.Time `json:"event_date"`
	UserName    string    `json:"user_name"`
	UserSurname string    `json:"user_surname"`
	UserImage   *string   `json:"user_image,omitempty"`
}

// Filter selects events relative to now.
type Filter string

const (
	FilterUpcoming Filter = "upcoming"
	FilterPast     Filter = "past"
	FilterAll      Filter = "all"
)

func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case "":
		return FilterAll, nil
	case FilterUpcoming, FilterPast, FilterAll:
		return Filter(s), nil
	}
	return "", ErrInvalidFilter
}

// Match reports whether e belongs to f at now.
func (f Filter) Match(e *Event, now time.Time) bool {
	switch f {
	case FilterUpcoming:
		return !e.IsPast(now)
	case FilterPast:
		return e.IsPast(now)
	}
	return true
}

type CreateEventRequest struct {
	Title       string
	Description string
	Date        time.Time
	Location    string
	Type        string
	ImageURL    string
}

type UpdateEventRequest struct {
	Title       *string
	Description *string
	Date        *time.Time
	Location    *string
	Type        *string
}

// Validate checks the fields an admin must fill in. The image is checked by
// the caller since it arrives as a separate upload.
func (r *CreateEventRequest) Validate() error {
	if r.Title == "" || r.Location == "" || r.Date.IsZero() {
		return ErrInvalidEvent
	}
	return nil
}
