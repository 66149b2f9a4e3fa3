package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/eslsoft/lingocast/internal/entity"
	"github.com/eslsoft/lingocast/internal/repository"
)

// ContentUsecase serves media items and resolves playback positions.
type ContentUsecase interface {
	ImportMedia(ctx context.Context, item *entity.MediaItem) (*entity.MediaItem, error)
	GetMedia(ctx context.Context, userID int64, id string) (*entity.MediaItem, error)
	ListMedia(ctx context.Context, query *repository.ListMediaQuery) ([]entity.MediaSummary, int64, error)
	ResolvePosition(ctx context.Context, id string, at float64) (entity.Resolution, error)
}

// NewContentUsecase wires the repository with the progress sink.
func NewContentUsecase(repo repository.ContentRepository, progress ProgressUsecase) ContentUsecase {
	return &contentUsecase{
		repo:     repo,
		progress: progress,
		clock:    time.Now,
	}
}

type contentUsecase struct {
	repo     repository.ContentRepository
	progress ProgressUsecase
	clock    func() time.Time
}

func (u *contentUsecase) ImportMedia(ctx context.Context, item *entity.MediaItem) (*entity.MediaItem, error) {
	if item == nil {
		return nil, entity.ErrInvalidMedia
	}
	m := *item
	m.Normalize(u.clock())
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return u.repo.SaveMedia(ctx, &m)
}

// GetMedia loads a media item; a successful load by a known user counts as
// starting it.
func (u *contentUsecase) GetMedia(ctx context.Context, userID int64, id string) (*entity.MediaItem, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, entity.ErrMediaNotFound
	}
	item, err := u.repo.GetMedia(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.progress != nil && userID > 0 {
		u.progress.Track(userID, item.ID)
	}
	return item, nil
}

func (u *contentUsecase) ListMedia(ctx context.Context, query *repository.ListMediaQuery) ([]entity.MediaSummary, int64, error) {
	return u.repo.ListMedia(ctx, query)
}

func (u *contentUsecase) ResolvePosition(ctx context.Context, id string, at float64) (entity.Resolution, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entity.Resolution{}, entity.ErrMediaNotFound
	}
	if at < 0 {
		return entity.Resolution{}, entity.ErrInvalidTiming
	}
	item, err := u.repo.GetMedia(ctx, id)
	if err != nil {
		return entity.Resolution{}, err
	}
	return item.Tracks.Resolve(at), nil
}
