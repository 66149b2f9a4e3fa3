package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eslsoft/lingocast/internal/entity"
	"github.com/eslsoft/lingocast/internal/repository"
)

// sessionTTL bounds how long an idle lesson session is kept in memory.
const sessionTTL = 2 * time.Hour

// LessonUsecase drives the question flow of a lesson.
type LessonUsecase interface {
	ImportLesson(ctx context.Context, lesson *entity.Lesson) (*entity.Lesson, error)
	GetLesson(ctx context.Context, id string) (*entity.Lesson, error)
	StartSession(ctx context.Context, userID int64, lessonID string) (*entity.LessonSession, error)
	SubmitAnswer(ctx context.Context, userID int64, sessionID, answer string) (*entity.LessonSession, bool, error)
	Advance(ctx context.Context, userID int64, sessionID string) (*entity.LessonSession, error)
}

// NewLessonUsecase keeps sessions in memory, keyed by a random id.
func NewLessonUsecase(repo repository.LessonRepository) LessonUsecase {
	return &lessonUsecase{
		repo:     repo,
		sessions: make(map[string]*entity.LessonSession),
		clock:    time.Now,
		newID:    uuid.NewString,
	}
}

type lessonUsecase struct {
	repo repository.LessonRepository

	mu       sync.Mutex
	sessions map[string]*entity.LessonSession

	clock func() time.Time
	newID func() string
}

func (u *lessonUsecase) ImportLesson(ctx context.Context, lesson *entity.Lesson) (*entity.Lesson, error) {
	if lesson == nil {
		return nil, entity.ErrInvalidLesson
	}
	l := *lesson
	l.Questions = append([]entity.Question(nil), lesson.Questions...)
	l.Normalize(u.clock())
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return u.repo.SaveLesson(ctx, &l)
}

func (u *lessonUsecase) GetLesson(ctx context.Context, id string) (*entity.Lesson, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, entity.ErrLessonNotFound
	}
	return u.repo.GetLesson(ctx, id)
}

func (u *lessonUsecase) StartSession(ctx context.Context, userID int64, lessonID string) (*entity.LessonSession, error) {
	if userID <= 0 {
		return nil, entity.ErrInvalidUserID
	}
	lesson, err := u.GetLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if len(lesson.Questions) == 0 {
		return nil, entity.ErrInvalidLesson
	}

	now := u.clock()
	session := entity.NewLessonSession(u.newID(), userID, *lesson, now)

	u.mu.Lock()
	defer u.mu.Unlock()
	u.evictLocked(now)
	u.sessions[session.ID] = session
	return cloneSession(session), nil
}

func (u *lessonUsecase) SubmitAnswer(ctx context.Context, userID int64, sessionID, answer string) (*entity.LessonSession, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	session, err := u.lookupLocked(userID, sessionID)
	if err != nil {
		return nil, false, err
	}
	correct, err := session.Submit(answer, u.clock())
	if err != nil {
		return nil, false, err
	}
	return cloneSession(session), correct, nil
}

func (u *lessonUsecase) Advance(ctx context.Context, userID int64, sessionID string) (*entity.LessonSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	session, err := u.lookupLocked(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.Advance(u.clock()); err != nil {
		return nil, err
	}
	return cloneSession(session), nil
}

// lookupLocked returns the caller's session; an idle session past the TTL is
// dropped and reported as missing.
func (u *lessonUsecase) lookupLocked(userID int64, sessionID string) (*entity.LessonSession, error) {
	session, ok := u.sessions[sessionID]
	if !ok || session.UserID != userID {
		return nil, entity.ErrSessionNotFound
	}
	if u.clock().Sub(session.UpdatedAt) > sessionTTL {
		delete(u.sessions, sessionID)
		return nil, entity.ErrSessionNotFound
	}
	return session, nil
}

func (u *lessonUsecase) evictLocked(now time.Time) {
	for id, s := range u.sessions {
		if now.Sub(s.UpdatedAt) > sessionTTL {
			delete(u.sessions, id)
		}
	}
}

func cloneSession(s *entity.LessonSession) *entity.LessonSession {
	c := *s
	c.Pending = append([]string(nil), s.Pending...)
	return &c
}
