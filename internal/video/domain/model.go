package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrJobNotFound   = errors.New("upload job not found")
	ErrVideoRequired = errors.New("video file is required")
	ErrTooLarge      = errors.New("video exceeds the maximum upload size")
)

const (
	DefaultTitle         = "Untitled Video"
	PlaceholderThumbnail = "https://placehold.co/640x360?text=No+Thumbnail"
)

// Video is an asset as shown in the library.
type Video struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Thumbnail  string    `json:"thumbnail"`
	Duration   string    `json:"duration"`
	CreatedAt  time.Time `json:"created_at"`
	PlaybackID string    `json:"playback_id,omitempty"`
	StreamURL  string    `json:"stream_url,omitempty"`
}

func ThumbnailURL(playbackID string) string {
	if playbackID == "" {
		return PlaceholderThumbnail
	}
	return fmt.Sprintf("https://image.mux.com/%s/thumbnail.jpg?width=640", playbackID)
}

func StreamURL(playbackID string) string {
	return fmt.Sprintf("https://stream.mux.com/%s.m3u8", playbackID)
}

// FormatDuration renders seconds as HH:MM:SS and drops a leading "00:" hour.
// Fractions of a second are truncated.
func FormatDuration(seconds float64) string {
	if seconds <= 0 {
		return "00:00"
	}
	total := int64(seconds)
	h := (total / 3600) % 24
	m := (total / 60) % 60
	s := total % 60
	return strings.TrimPrefix(fmt.Sprintf("%02d:%02d:%02d", h, m, s), "00:")
}

type JobStatus string

const (
	JobUploading  JobStatus = "uploading"
	JobProcessing JobStatus = "processing"
	JobReady      JobStatus = "ready"
	JobFailed     JobStatus = "failed"
	JobTimedOut   JobStatus = "timed_out"
	JobCancelled  JobStatus = "cancelled"
)

// Done reports whether the job reached a final state.
func (s JobStatus) Done() bool {
	switch s {
	case JobReady, JobFailed, JobTimedOut, JobCancelled:
		return true
	}
	return false
}

// UploadJob tracks one admin upload from the PUT through asset readiness.
type UploadJob struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	UploadID  string    `json:"upload_id,omitempty"`
	AssetID   string    `json:"asset_id,omitempty"`
	Status    JobStatus `json:"status"`
	Attempts  int       `json:"attempts"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
