package usecase

import (
	"errors"
	"testing"
	"time"
)

func TestProgressTrackUpsertsAsync(t *testing.T) {
	repo := newFakeProgressRepo()
	uc := NewProgressUsecase(repo, ProgressOptions{Workers: 1, QueueSize: 4}, quietLogger())

	uc.Track(7, "m1")
	uc.Track(0, "m1") // ignored
	uc.Close()

	row, ok := repo.rows["m1"]
	if !ok || row.UserID != 7 || row.Status != "in_progress" {
		t.Fatalf("expected in_progress row for user 7, got %+v", row)
	}
}

func TestProgressFailuresAreSwallowed(t *testing.T) {
	repo := newFakeProgressRepo()
	repo.err = errors.New("db down")
	uc := NewProgressUsecase(repo, ProgressOptions{Workers: 1, QueueSize: 1}, quietLogger())
	defer uc.Close()

	uc.Track(1, "m1")
	select {
	case <-repo.seen:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected the upsert to be attempted")
	}
}
