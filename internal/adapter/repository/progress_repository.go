package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/eslsoft/lingocast/internal/entity"
	"github.com/eslsoft/lingocast/internal/repository"
)

const tableProgress = "media_progress"

type progressRepository struct {
	store
}

// NewProgressRepository constructs an SQL-backed progress repository.
func NewProgressRepository(drv *entsql.Driver) repository.ProgressRepository {
	return &progressRepository{store: newStore(drv)}
}

// UpsertProgress keeps the first started_at of a (user, media) row.
func (r *progressRepository) UpsertProgress(ctx context.Context, p *entity.MediaProgress) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	status := p.Status
	if status == "" {
		status = entity.ProgressInProgress
	}
	upsert := r.b.Insert(tableProgress).
		Columns("user_id", "media_id", "status", "started_at", "updated_at").
		Values(p.UserID, p.MediaID, string(status), utc(p.StartedAt), utc(p.UpdatedAt)).
		OnConflict(
			entsql.ConflictColumns("user_id", "media_id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("status").SetExcluded("updated_at")
			}),
		)
	if _, err := exec(ctx, r.db, upsert); err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	return nil
}

func (r *progressRepository) GetProgress(ctx context.Context, userID int64, mediaID string) (*entity.MediaProgress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	query, args := r.b.Select("user_id", "media_id", "status", "started_at", "updated_at").
		From(r.b.Table(tableProgress)).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("media_id", mediaID))).
		Query()

	var p entity.MediaProgress
	var status string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&p.UserID, &p.MediaID, &status, &p.StartedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrProgressNotFound
		}
		return nil, fmt.Errorf("get progress: %w", err)
	}
	p.Status = entity.ProgressStatus(status)
	return &p, nil
}
