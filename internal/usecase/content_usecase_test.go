package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/eslsoft/lingocast/internal/entity"
)

type recordingProgress struct {
	mu    sync.Mutex
	calls []string
}

func (p *recordingProgress) Track(userID int64, mediaID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, mediaID)
}

func (p *recordingProgress) Close() {}

func lessonAudio() *entity.MediaItem {
	return &entity.MediaItem{
		ID:       "m1",
		Kind:     entity.MediaKindAudioLesson,
		Title:    "Greetings",
		Language: entity.LanguageEnglish,
		Tracks: entity.Tracks{
			Original: []entity.Sentence{{
				ID: "s1", Text: "hi there", Start: 2, End: 5,
				Words: []entity.Word{
					{Text: "hi", Start: 2, End: 3, Order: 1},
					{Text: "there", Start: 3, End: 5, Order: 2},
				},
			}},
			Translation: []entity.Sentence{{ID: "t1", Text: "hola", Start: 2, End: 5}},
		},
	}
}

func TestContentImportValidatesTiming(t *testing.T) {
	repo := newFakeContentRepo()
	uc := NewContentUsecase(repo, nil).(*contentUsecase)
	uc.clock = fixedClock()

	bad := lessonAudio()
	bad.Tracks.Original[0].Words[1].End = 7
	if _, err := uc.ImportMedia(context.Background(), bad); !errors.Is(err, entity.ErrInvalidTiming) {
		t.Fatalf("expected ErrInvalidTiming, got %v", err)
	}
	if len(repo.items) != 0 {
		t.Fatalf("invalid media must not be stored")
	}

	saved, err := uc.ImportMedia(context.Background(), lessonAudio())
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if saved.Tracks.Translation[0].AlignmentGroup != 1 || saved.CreatedAt.IsZero() {
		t.Fatalf("expected normalized media, got %+v", saved)
	}
}

func TestContentGetMediaTracksProgress(t *testing.T) {
	repo := newFakeContentRepo()
	progress := &recordingProgress{}
	uc := NewContentUsecase(repo, progress)
	ctx := context.Background()
	if _, err := uc.ImportMedia(ctx, lessonAudio()); err != nil {
		t.Fatalf("import: %v", err)
	}

	if _, err := uc.GetMedia(ctx, 5, "m1"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, err := uc.GetMedia(ctx, 5, "missing"); !errors.Is(err, entity.ErrMediaNotFound) {
		t.Fatalf("expected ErrMediaNotFound, got %v", err)
	}
	if _, err := uc.GetMedia(ctx, 0, "m1"); err != nil {
		t.Fatalf("anonymous get: %v", err)
	}
	if len(progress.calls) != 1 || progress.calls[0] != "m1" {
		t.Fatalf("expected one progress call for m1, got %v", progress.calls)
	}
}

func TestContentResolvePosition(t *testing.T) {
	repo := newFakeContentRepo()
	uc := NewContentUsecase(repo, nil)
	ctx := context.Background()
	if _, err := uc.ImportMedia(ctx, lessonAudio()); err != nil {
		t.Fatalf("import: %v", err)
	}

	res, err := uc.ResolvePosition(ctx, "m1", 4.9)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Original.Word == nil || res.Original.Word.Text != "there" {
		t.Fatalf("expected word 'there', got %+v", res.Original)
	}
	if res.Text(entity.TrackTranslation) != "hola" {
		t.Fatalf("expected translation 'hola', got %q", res.Text(entity.TrackTranslation))
	}

	res, err = uc.ResolvePosition(ctx, "m1", 5)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Original.Active() {
		t.Fatalf("t == end must not be active")
	}
}
