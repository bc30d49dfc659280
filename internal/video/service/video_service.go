package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mensbreakfast/breakfast-backend/config"
	"github.com/mensbreakfast/breakfast-backend/internal/logging"
	"github.com/mensbreakfast/breakfast-backend/internal/realtime"
	"github.com/mensbreakfast/breakfast-backend/internal/video/domain"
)

// Platform is implemented by MuxClient.
type Platform interface {
	CreateUpload(ctx context.Context, title, description string) (*DirectUpload, error)
	PutFile(ctx context.Context, uploadURL string, body io.Reader, size int64) error
	GetUpload(ctx context.Context, id string) (*DirectUpload, error)
	ListAssets(ctx context.Context) ([]Asset, error)
}

// JobStore is implemented by repository.JobStore.
type JobStore interface {
	Save(ctx context.Context, job *domain.UploadJob) error
	Get(ctx context.Context, id string) (*domain.UploadJob, error)
}

type Signer interface {
	Sign(playbackID string) (string, error)
}

// UploadRequest is one admin upload.
type UploadRequest struct {
	Title       string
	Description string
	Body        io.Reader
	Size        int64
}

type VideoService struct {
	platform  Platform
	jobs      JobStore
	signer    Signer
	publisher realtime.Publisher

	pollAttempts int
	pollInterval time.Duration

	// poll tasks outlive the request; they run under baseCtx
	baseCtx context.Context
	wg      sync.WaitGroup
	now     func() time.Time
}

// NewVideoService wires the service. signer may be nil, in which case stream
// URLs are unsigned. Poll tasks run under ctx and stop when it is cancelled.
func NewVideoService(ctx context.Context, platform Platform, jobs JobStore, signer Signer, publisher realtime.Publisher, cfg config.MuxConfig) *VideoService {
	attempts := cfg.PollAttempts
	if attempts <= 0 {
		attempts = 30
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &VideoService{
		platform:     platform,
		jobs:         jobs,
		signer:       signer,
		publisher:    publisher,
		pollAttempts: attempts,
		pollInterval: interval,
		baseCtx:      ctx,
		now:          time.Now,
	}
}

// ListVideos returns the library newest first.
func (s *VideoService) ListVideos(ctx context.Context) ([]domain.Video, error) {
	assets, err := s.platform.ListAssets(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Video, 0, len(assets))
	for _, a := range assets {
		out = append(out, s.toVideo(ctx, a))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *VideoService) toVideo(ctx context.Context, a Asset) domain.Video {
	v := domain.Video{
		ID:        a.ID,
		Title:     assetTitle(a),
		Thumbnail: domain.ThumbnailURL(""),
		Duration:  domain.FormatDuration(a.Duration),
		CreatedAt: parseUnix(a.CreatedAt),
	}
	if len(a.PlaybackIDs) == 0 {
		return v
	}

	v.PlaybackID = a.PlaybackIDs[0].ID
	v.Thumbnail = domain.ThumbnailURL(v.PlaybackID)
	v.StreamURL = domain.StreamURL(v.PlaybackID)
	if s.signer != nil {
		token, err := s.signer.Sign(v.PlaybackID)
		if err != nil {
			logging.New(ctx).Warnf("list_videos", "asset=%s unsigned: %v", a.ID, err)
		} else {
			v.StreamURL += "?token=" + token
		}
	}
	return v
}

func assetTitle(a Asset) string {
	if t := strings.TrimSpace(a.Title); t != "" {
		return t
	}
	if t := strings.TrimSpace(a.Meta.Title); t != "" {
		return t
	}
	return domain.DefaultTitle
}

func parseUnix(s string) time.Time {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(n, 0).UTC()
}

// StartUpload creates the upload slot, sends the bytes and starts the
// readiness poll. The returned job is in the processing state.
func (s *VideoService) StartUpload(ctx context.Context, uid string, req UploadRequest) (*domain.UploadJob, error) {
	if req.Body == nil {
		return nil, domain.ErrVideoRequired
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = domain.DefaultTitle
	}

	now := s.now()
	job := &domain.UploadJob{
		ID:        uuid.NewString(),
		UserID:    uid,
		Title:     title,
		Status:    domain.JobUploading,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.jobs.Save(ctx, job); err != nil {
		return nil, err
	}

	upload, err := s.platform.CreateUpload(ctx, title, strings.TrimSpace(req.Description))
	if err != nil {
		return nil, s.fail(ctx, job, err)
	}
	job.UploadID = upload.ID

	if err := s.platform.PutFile(ctx, upload.URL, req.Body, req.Size); err != nil {
		return nil, s.fail(ctx, job, err)
	}

	job.Status = domain.JobProcessing
	s.save(ctx, job)

	snapshot := *job
	s.wg.Add(1)
	go func(job domain.UploadJob) {
		defer s.wg.Done()
		s.poll(s.baseCtx, &job)
	}(snapshot)

	return job, nil
}

func (s *VideoService) GetJob(ctx context.Context, id string) (*domain.UploadJob, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrJobNotFound
	}
	return s.jobs.Get(ctx, id)
}

// Wait blocks until every poll task has returned.
func (s *VideoService) Wait() {
	s.wg.Wait()
}

func (s *VideoService) fail(ctx context.Context, job *domain.UploadJob, cause error) error {
	job.Status = domain.JobFailed
	job.Error = cause.Error()
	s.save(context.WithoutCancel(ctx), job)
	return cause
}

// save persists and publishes the job. Failures are logged; the poll keeps going.
func (s *VideoService) save(ctx context.Context, job *domain.UploadJob) {
	job.UpdatedAt = s.now()
	logger := logging.New(ctx)
	if err := s.jobs.Save(ctx, job); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warnf("video_job_save", "job=%s err=%v", job.ID, err)
	}
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, realtime.TopicVideos, realtime.ActionUpdate, job.ID, "", job); err != nil {
		logger.Warnf("video_job_publish", "job=%s err=%v", job.ID, err)
	}
}
