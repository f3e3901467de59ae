package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/novhub/internal/domain/model"
	"github.com/okian/novhub/internal/domain/upload"
	"github.com/okian/novhub/pkg/logger"
	"github.com/okian/novhub/pkg/metrics"
)

// StartUpload begins a simulated upload and returns its id. The task
// outlives the calling request; poll it with UploadStatus.
func (s *Service) StartUpload(ctx context.Context, name string, size int64) (string, upload.Snapshot, error) {
	id := s.newID()
	bg := context.WithoutCancel(ctx)
	task, err := s.uploader.Start(bg, name, size, func(percent int) {
		s.logger.Debug(bg, "upload progress", logger.String("id", id), logger.Int("percent", percent))
	})
	if err != nil {
		metrics.RecordValidationFailure("upload")
		return "", upload.Snapshot{}, err
	}
	s.uploads.Add(id, task)
	metrics.UpdateUploadsActive(s.uploads.Active())

	go func() {
		<-task.Done()
		metrics.RecordUploadFinished(string(task.Snapshot().State))
		metrics.UpdateUploadsActive(s.uploads.Active())
	}()
	return id, task.Snapshot(), nil
}

// UploadStatus returns the progress of an upload.
func (s *Service) UploadStatus(_ context.Context, id string) (upload.Snapshot, error) {
	task, ok := s.uploads.Get(id)
	if !ok {
		return upload.Snapshot{}, fmt.Errorf("%w: upload %q", model.ErrNotFound, id)
	}
	return task.Snapshot(), nil
}

// CancelUpload stops a running upload and waits for it to settle.
// Canceling a finished upload returns its final state unchanged.
func (s *Service) CancelUpload(ctx context.Context, id string) (upload.Snapshot, error) {
	task, ok := s.uploads.Get(id)
	if !ok {
		return upload.Snapshot{}, fmt.Errorf("%w: upload %q", model.ErrNotFound, id)
	}
	task.Cancel()
	select {
	case <-task.Done():
	case <-ctx.Done():
		return task.Snapshot(), ctx.Err()
	}
	return task.Snapshot(), nil
}

// SweepUploads forgets finished uploads older than maxAge.
func (s *Service) SweepUploads(ctx context.Context, maxAge time.Duration) int {
	n := s.uploads.Sweep(time.Now().Add(-maxAge))
	if n > 0 {
		s.logger.Debug(ctx, "swept finished uploads", logger.Int("count", n))
	}
	return n
}
