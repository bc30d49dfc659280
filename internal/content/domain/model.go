package domain

import (
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("content not found")
	ErrInvalidContent   = errors.New("invalid content")
	ErrVideoRequired    = errors.New("video is required")
	ErrImageRequired    = errors.New("image is required")
	ErrInvalidMediaType = errors.New("media type must be book, podcast, video or article")
)

// VideoKind selects one of the two weekly video series.
type VideoKind string

const (
	KindMondayMotivation VideoKind = "monday_motivation"
	KindThought          VideoKind = "thought_of_day"
)

// Kinds lists every video series.
var Kinds = []VideoKind{KindMondayMotivation, KindThought}

// VideoPost is a Monday motivation or a thought of the day.
type VideoPost struct {
	ID          string    `json:"id"`
	Kind        VideoKind `json:"kind"`
	Topic       string    `json:"topic"`
	Description string    `json:"description"`
	VideoURL    *string   `json:"video_url,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedBy   *string   `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

const (
	MediaBook    = "book"
	MediaPodcast = "podcast"
	MediaVideo   = "video"
	MediaArticle = "article"
)

func ValidMediaType(t string) bool {
	switch t {
	case MediaBook, MediaPodcast, MediaVideo, MediaArticle:
		return true
	}
	return false
}

type Media struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Description string    `json:"description"`
	Link        string    `json:"link"`
	CreatedAt   time.Time `json:"created_at"`
}

type Blog struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	ImageURL   *string   `json:"image_url,omitempty"`
	AuthorID   *string   `json:"author_id,omitempty"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}
