package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mensbreakfast/breakfast-backend/internal/logging"
	"github.com/mensbreakfast/breakfast-backend/internal/video/domain"
)

// upload statuses after which the upload will never produce an asset
var failedUploadStatuses = map[string]bool{
	"errored":   true,
	"cancelled": true,
	"timed_out": true,
}

// poll checks the upload until it has an asset, fails, runs out of attempts,
// or ctx is cancelled. The job is saved after every attempt.
func (s *VideoService) poll(ctx context.Context, job *domain.UploadJob) {
	logger := logging.New(ctx)

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for job.Attempts < s.pollAttempts {
		select {
		case <-ctx.Done():
			job.Error = ctx.Err().Error()
			s.finish(context.WithoutCancel(ctx), job, domain.JobCancelled)
			return
		case <-ticker.C:
		}

		job.Attempts++
		upload, err := s.platform.GetUpload(ctx, job.UploadID)
		if err != nil {
			logger.Warnf("video_poll", "job=%s attempt=%d/%d err=%v", job.ID, job.Attempts, s.pollAttempts, err)
			job.Error = err.Error()
			s.save(ctx, job)
			continue
		}

		switch {
		case upload.AssetID != "":
			job.AssetID = upload.AssetID
			job.Error = ""
			s.finish(ctx, job, domain.JobReady)
			return
		case failedUploadStatuses[upload.Status]:
			job.Error = fmt.Sprintf("upload %s", upload.Status)
			s.finish(ctx, job, domain.JobFailed)
			return
		}
		s.save(ctx, job)
	}

	logger.Warnf("video_poll", "job=%s gave up after %d attempts", job.ID, job.Attempts)
	s.finish(ctx, job, domain.JobTimedOut)
}

func (s *VideoService) finish(ctx context.Context, job *domain.UploadJob, status domain.JobStatus) {
	job.Status = status
	s.save(ctx, job)
	logging.New(ctx).Infof("video_poll", "job=%s status=%s attempts=%d", job.ID, status, job.Attempts)
}
