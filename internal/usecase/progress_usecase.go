package usecase

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/lingocast/internal/entity"
	"github.com/eslsoft/lingocast/internal/repository"
	"github.com/eslsoft/lingocast/pkg/workerpool"
)

// ProgressUsecase records that a learner opened a media item. Tracking is
// fire-and-forget: failures are logged and never retried.
type ProgressUsecase interface {
	Track(userID int64, mediaID string)
	Close()
}

// ProgressOptions sizes the progress worker pool.
type ProgressOptions struct {
	Workers   int
	QueueSize int
	Timeout   time.Duration
}

// NewProgressUsecase starts the worker pool backing Track.
func NewProgressUsecase(repo repository.ProgressRepository, opts ProgressOptions, logger logrus.FieldLogger) ProgressUsecase {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	pool := workerpool.New(opts.Workers, opts.QueueSize)
	pool.OnError = func(err error) {
		logger.WithError(err).Warn("progress tracking failed")
	}
	pool.Start(context.Background())
	return &progressUsecase{
		repo:    repo,
		pool:    pool,
		timeout: opts.Timeout,
		logger:  logger,
		clock:   time.Now,
	}
}

type progressUsecase struct {
	repo    repository.ProgressRepository
	pool    *workerpool.Pool
	timeout time.Duration
	logger  logrus.FieldLogger
	clock   func() time.Time
}

func (u *progressUsecase) Track(userID int64, mediaID string) {
	if userID <= 0 || mediaID == "" {
		return
	}
	now := u.clock()
	err := u.pool.Submit(func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, u.timeout)
		defer cancel()
		return u.repo.UpsertProgress(ctx, &entity.MediaProgress{
			UserID:    userID,
			MediaID:   mediaID,
			Status:    entity.ProgressInProgress,
			StartedAt: now,
			UpdatedAt: now,
		})
	})
	if err != nil {
		u.logger.WithError(err).WithFields(logrus.Fields{
			"user_id":  userID,
			"media_id": mediaID,
		}).Warn("progress tracking dropped")
	}
}

// Close drains queued updates.
func (u *progressUsecase) Close() {
	u.pool.Close()
}
