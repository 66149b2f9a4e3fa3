package entity

import "time"

// ProgressStatus is the lifecycle state of a learner's media progress.
type ProgressStatus string

const (
	ProgressInProgress ProgressStatus = "in_progress"
	ProgressCompleted  ProgressStatus = "completed"
)

// MediaProgress records that a user opened a media item.
type MediaProgress struct {
	UserID    int64
	MediaID   string
	Status    ProgressStatus
	StartedAt time.Time
	UpdatedAt time.Time
}
