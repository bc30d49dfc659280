package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mensbreakfast/breakfast-backend/config"
	"github.com/mensbreakfast/breakfast-backend/internal/video/domain"
)

type fakePlatform struct {
	mu       sync.Mutex
	assets   []Asset
	putErr   error
	uploaded string
	// responses returned by successive GetUpload calls; the last one repeats
	polls []pollResult
	calls int
}

type pollResult struct {
	upload DirectUpload
	err    error
}

func (p *fakePlatform) CreateUpload(ctx context.Context, title, description string) (*DirectUpload, error) {
	return &DirectUpload{ID: "up-1", URL: "https://upload.example/up-1"}, nil
}

func (p *fakePlatform) PutFile(ctx context.Context, uploadURL string, body io.Reader, size int64) error {
	if p.putErr != nil {
		return p.putErr
	}
	data, _ := io.ReadAll(body)
	p.mu.Lock()
	p.uploaded = string(data)
	p.mu.Unlock()
	return nil
}

func (p *fakePlatform) GetUpload(ctx context.Context, id string) (*DirectUpload, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.calls
	if i >= len(p.polls) {
		i = len(p.polls) - 1
	}
	p.calls++
	r := p.polls[i]
	if r.err != nil {
		return nil, r.err
	}
	up := r.upload
	return &up, nil
}

func (p *fakePlatform) ListAssets(ctx context.Context) ([]Asset, error) {
	return p.assets, nil
}

type memJobs struct {
	mu   sync.Mutex
	jobs map[string]domain.UploadJob
}

func (m *memJobs) Save(ctx context.Context, job *domain.UploadJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = *job
	return nil
}

func (m *memJobs) Get(ctx context.Context, id string) (*domain.UploadJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return &j, nil
}

type fixedSigner struct{}

func (fixedSigner) Sign(playbackID string) (string, error) { return "tok-" + playbackID, nil }

func newTestService(ctx context.Context, p *fakePlatform, attempts int) (*VideoService, *memJobs) {
	jobs := &memJobs{jobs: map[string]domain.UploadJob{}}
	svc := NewVideoService(ctx, p, jobs, nil, nil, config.MuxConfig{
		PollAttempts: attempts,
		PollInterval: time.Millisecond,
	})
	return svc, jobs
}

func upload(t *testing.T, svc *VideoService) *domain.UploadJob {
	t.Helper()
	job, err := svc.StartUpload(context.Background(), "admin-1", UploadRequest{
		Title: "Talk",
		Body:  strings.NewReader("video-bytes"),
		Size:  11,
	})
	require.NoError(t, err)
	return job
}

func TestStartUpload_Ready(t *testing.T) {
	p := &fakePlatform{polls: []pollResult{
		{err: errors.New("boom")},
		{upload: DirectUpload{Status: "waiting"}},
		{upload: DirectUpload{Status: "asset_created", AssetID: "asset-1"}},
	}}
	svc, jobs := newTestService(context.Background(), p, 10)

	job := upload(t, svc)
	assert.Equal(t, domain.JobProcessing, job.Status)
	assert.Equal(t, "up-1", job.UploadID)

	svc.Wait()
	got, err := jobs.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobReady, got.Status)
	assert.Equal(t, "asset-1", got.AssetID)
	assert.Equal(t, 3, got.Attempts)
	assert.Equal(t, "video-bytes", p.uploaded)
}

func TestStartUpload_TimesOut(t *testing.T) {
	p := &fakePlatform{polls: []pollResult{{upload: DirectUpload{Status: "waiting"}}}}
	svc, jobs := newTestService(context.Background(), p, 3)

	job := upload(t, svc)
	svc.Wait()

	got, err := jobs.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobTimedOut, got.Status)
	assert.Equal(t, 3, got.Attempts)
}

func TestStartUpload_UploadErrored(t *testing.T) {
	p := &fakePlatform{polls: []pollResult{{upload: DirectUpload{Status: "errored"}}}}
	svc, jobs := newTestService(context.Background(), p, 3)

	job := upload(t, svc)
	svc.Wait()

	got, _ := jobs.Get(context.Background(), job.ID)
	assert.Equal(t, domain.JobFailed, got.Status)
}

func TestStartUpload_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &fakePlatform{polls: []pollResult{{upload: DirectUpload{Status: "waiting"}}}}
	jobs := &memJobs{jobs: map[string]domain.UploadJob{}}
	svc := NewVideoService(ctx, p, jobs, nil, nil, config.MuxConfig{PollAttempts: 30, PollInterval: time.Hour})

	job := upload(t, svc)
	cancel()
	svc.Wait()

	got, _ := jobs.Get(context.Background(), job.ID)
	assert.Equal(t, domain.JobCancelled, got.Status)
	assert.Equal(t, 0, got.Attempts)
}

func TestStartUpload_PutFails(t *testing.T) {
	p := &fakePlatform{putErr: errors.New("network down")}
	svc, jobs := newTestService(context.Background(), p, 3)

	_, err := svc.StartUpload(context.Background(), "admin-1", UploadRequest{Body: strings.NewReader("x")})
	require.Error(t, err)

	require.Len(t, jobs.jobs, 1)
	for _, j := range jobs.jobs {
		assert.Equal(t, domain.JobFailed, j.Status)
		assert.Equal(t, domain.DefaultTitle, j.Title)
	}
}

func TestStartUpload_RequiresBody(t *testing.T) {
	svc, _ := newTestService(context.Background(), &fakePlatform{}, 3)
	_, err := svc.StartUpload(context.Background(), "admin-1", UploadRequest{Title: "x"})
	assert.ErrorIs(t, err, domain.ErrVideoRequired)
}

func TestListVideos(t *testing.T) {
	p := &fakePlatform{assets: []Asset{
		{ID: "old", Duration: 5, CreatedAt: "1600000000"},
		{ID: "new", Title: "Intro", Duration: 3725, CreatedAt: "1700000000", PlaybackIDs: []PlaybackID{{ID: "pb1"}}},
	}}
	svc, _ := newTestService(context.Background(), p, 3)
	svc.signer = fixedSigner{}

	videos, err := svc.ListVideos(context.Background())
	require.NoError(t, err)
	require.Len(t, videos, 2)

	assert.Equal(t, "new", videos[0].ID)
	assert.Equal(t, "Intro", videos[0].Title)
	assert.Equal(t, "01:02:05", videos[0].Duration)
	assert.Equal(t, "https://stream.mux.com/pb1.m3u8?token=tok-pb1", videos[0].StreamURL)
	assert.Equal(t, "https://image.mux.com/pb1/thumbnail.jpg?width=640", videos[0].Thumbnail)

	assert.Equal(t, domain.DefaultTitle, videos[1].Title)
	assert.Equal(t, "00:05", videos[1].Duration)
	assert.Equal(t, domain.PlaceholderThumbnail, videos[1].Thumbnail)
	assert.Empty(t, videos[1].StreamURL)
}

func TestGetJob_InvalidID(t *testing.T) {
	svc, _ := newTestService(context.Background(), &fakePlatform{}, 3)
	_, err := svc.GetJob(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}
