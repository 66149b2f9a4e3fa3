// Package bookmarkv1 defines the lingocast.bookmark.v1 messages and procedures.
package bookmarkv1

import (
	"time"

	commonv1 "github.com/eslsoft/lingocast/pkg/api/common/v1"
)

const BookmarkServiceName = "lingocast.bookmark.v1.BookmarkService"

const (
	BookmarkServiceListQuestionBookmarksProcedure  = "/" + BookmarkServiceName + "/ListQuestionBookmarks"
	BookmarkServiceCreateQuestionBookmarkProcedure = "/" + BookmarkServiceName + "/CreateQuestionBookmark"
	BookmarkServiceDeleteQuestionBookmarkProcedure = "/" + BookmarkServiceName + "/DeleteQuestionBookmark"
	BookmarkServiceToggleQuestionBookmarkProcedure = "/" + BookmarkServiceName + "/ToggleQuestionBookmark"

	BookmarkServiceListSubtitleBookmarksProcedure  = "/" + BookmarkServiceName + "/ListSubtitleBookmarks"
	BookmarkServiceCreateSubtitleBookmarkProcedure = "/" + BookmarkServiceName + "/CreateSubtitleBookmark"
	BookmarkServiceDeleteSubtitleBookmarkProcedure = "/" + BookmarkServiceName + "/DeleteSubtitleBookmark"
	BookmarkServiceToggleSubtitleBookmarkProcedure = "/" + BookmarkServiceName + "/ToggleSubtitleBookmark"

	BookmarkServiceListLyricBookmarksProcedure  = "/" + BookmarkServiceName + "/ListLyricBookmarks"
	BookmarkServiceCreateLyricBookmarkProcedure = "/" + BookmarkServiceName + "/CreateLyricBookmark"
	BookmarkServiceDeleteLyricBookmarkProcedure = "/" + BookmarkServiceName + "/DeleteLyricBookmark"
	BookmarkServiceToggleLyricBookmarkProcedure = "/" + BookmarkServiceName + "/ToggleLyricBookmark"

	BookmarkServiceListReadingBookmarksProcedure  = "/" + BookmarkServiceName + "/ListReadingBookmarks"
	BookmarkServiceCreateReadingBookmarkProcedure = "/" + BookmarkServiceName + "/CreateReadingBookmark"
	BookmarkServiceDeleteReadingBookmarkProcedure = "/" + BookmarkServiceName + "/DeleteReadingBookmark"
	BookmarkServiceToggleReadingBookmarkProcedure = "/" + BookmarkServiceName + "/ToggleReadingBookmark"
)

type WordSnapshot struct {
	Text            string `json:"text"`
	Color           string `json:"color,omitempty"`
	Transliteration string `json:"transliteration,omitempty"`
}

type SentenceSnapshot struct {
	SentenceID      string          `json:"sentenceId"`
	Text            string          `json:"text"`
	Words           []*WordSnapshot `json:"words,omitempty"`
	Translations    []*WordSnapshot `json:"translations,omitempty"`
	Transliteration string          `json:"transliteration,omitempty"`
}

type QuestionBookmark struct {
	ID         string    `json:"id,omitempty"`
	LessonID   string    `json:"lessonId"`
	QuestionID string    `json:"questionId"`
	Language   string    `json:"language"`
	Prompt     string    `json:"prompt,omitempty"`
	Answer     string    `json:"answer,omitempty"`
	AudioURL   string    `json:"audioUrl,omitempty"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
}

// SentenceGroupBookmark is the wire shape of subtitle and lyric bookmarks.
type SentenceGroupBookmark struct {
	ID          string              `json:"id,omitempty"`
	Language    string              `json:"language"`
	MediaID     string              `json:"mediaId"`
	SentenceIDs []string            `json:"sentenceIds"`
	Sentences   []*SentenceSnapshot `json:"sentences,omitempty"`
	AudioURL    string              `json:"audioUrl,omitempty"`
	Start       float64             `json:"start,omitempty"`
	End         float64             `json:"end,omitempty"`
	CreatedAt   time.Time           `json:"createdAt,omitempty"`
}

type ReadingBookmark struct {
	ID           string    `json:"id,omitempty"`
	BookID       string    `json:"bookId"`
	SentenceID   string    `json:"sentenceId,omitempty"`
	SentenceText string    `json:"sentenceText,omitempty"`
	Translation  string    `json:"translation,omitempty"`
	Language     string    `json:"language"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
}

// ListBookmarksRequest lists the caller's bookmarks of one kind. Scope is the
// lesson, media or book id the bookmarks belong to.
type ListBookmarksRequest struct {
	Pagination *commonv1.PaginationRequest `json:"pagination,omitempty"`
	Filter     string                      `json:"filter,omitempty"`
	OrderBy    string                      `json:"orderBy,omitempty"`
	Language   string                      `json:"language,omitempty"`
	Scope      string                      `json:"scope,omitempty"`
}

type ListBookmarksResponse[B any] struct {
	Bookmarks  []*B                         `json:"bookmarks"`
	Pagination *commonv1.PaginationResponse `json:"pagination"`
}

type BookmarkRequest[B any] struct {
	Bookmark *B `json:"bookmark"`
}

type ToggleBookmarkResponse[B any] struct {
	Created  bool `json:"created"`
	Bookmark *B   `json:"bookmark"`
}

type (
	ListQuestionBookmarksResponse = ListBookmarksResponse[QuestionBookmark]
	ListSubtitleBookmarksResponse = ListBookmarksResponse[SentenceGroupBookmark]
	ListLyricBookmarksResponse    = ListBookmarksResponse[SentenceGroupBookmark]
	ListReadingBookmarksResponse  = ListBookmarksResponse[ReadingBookmark]
)
