package entity

import "errors"

// Domain errors shared by usecases and adapters.
var (
	ErrInvalidUserID = errors.New("invalid user ID")
	ErrInvalidFilter = errors.New("invalid list filter")

	ErrMediaNotFound    = errors.New("media item not found")
	ErrInvalidMedia     = errors.New("invalid media item")
	ErrInvalidTiming    = errors.New("invalid timing data")
	ErrSentenceNotFound = errors.New("sentence not found")
	ErrProgressNotFound = errors.New("media progress not found")

	ErrBookmarkNotFound  = errors.New("bookmark not found")
	ErrDuplicateBookmark = errors.New("bookmark already exists")
	ErrInvalidBookmark   = errors.New("invalid bookmark")
	ErrEmptySentenceSet  = errors.New("bookmark must reference at least one sentence")

	ErrLessonNotFound   = errors.New("lesson not found")
	ErrInvalidLesson    = errors.New("invalid lesson")
	ErrSessionNotFound  = errors.New("lesson session not found")
	ErrSessionComplete  = errors.New("lesson session already complete")
	ErrAwaitingFeedback = errors.New("lesson session is showing feedback")
	ErrAwaitingAnswer   = errors.New("lesson session is waiting for an answer")
)
