package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	cases := map[float64]string{
		0:       "00:00",
		5:       "00:05",
		65.9:    "01:05",
		3599:    "59:59",
		3600:    "01:00:00",
		7384.25: "02:03:04",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatDuration(in), "seconds=%v", in)
	}
}

func TestThumbnailURL(t *testing.T) {
	assert.Equal(t, PlaceholderThumbnail, ThumbnailURL(""))
	assert.Equal(t, "https://image.mux.com/abc/thumbnail.jpg?width=640", ThumbnailURL("abc"))
	assert.Equal(t, "https://stream.mux.com/abc.m3u8", StreamURL("abc"))
}

func TestJobStatusDone(t *testing.T) {
	assert.False(t, JobProcessing.Done())
	assert.False(t, JobUploading.Done())
	assert.True(t, JobReady.Done())
	assert.True(t, JobTimedOut.Done())
}
