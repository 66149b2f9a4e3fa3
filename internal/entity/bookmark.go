package entity

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

// BookmarkKind names the four bookmark families.
type BookmarkKind string

const (
	BookmarkKindQuestion BookmarkKind = "question"
	BookmarkKindSubtitle BookmarkKind = "subtitle"
	BookmarkKindLyric    BookmarkKind = "lyric"
	BookmarkKindReading  BookmarkKind = "reading"
)

// WordSnapshot is the denormalized copy of a word taken at bookmark time.
type WordSnapshot struct {
	Text            string `json:"text"`
	Color           string `json:"color,omitempty"`
	Transliteration string `json:"transliteration,omitempty"`
}

// SentenceSnapshot freezes one bookmarked sentence with its translation words.
// Transliteration holds the aligned transliteration line for content whose
// words carry none of their own.
type SentenceSnapshot struct {
	SentenceID      string         `json:"sentence_id"`
	Text            string         `json:"text"`
	Words           []WordSnapshot `json:"words,omitempty"`
	Translations    []WordSnapshot `json:"translations,omitempty"`
	Transliteration string         `json:"transliteration,omitempty"`
}

// FallbackText derives the bookmarkedEnglish / bookmarkedTransliteration
// values written onto the sentence by the first bookmark referencing it.
func (s SentenceSnapshot) FallbackText() (english, transliteration string) {
	english = joinWords(lo.Map(s.Translations, func(w WordSnapshot, _ int) string { return w.Text }))
	wordTranslit := lo.SomeBy(s.Words, func(w WordSnapshot) bool { return strings.TrimSpace(w.Transliteration) != "" })
	if !wordTranslit && strings.TrimSpace(s.Transliteration) != "" {
		return english, strings.TrimSpace(s.Transliteration)
	}
	transliteration = joinWords(lo.Map(s.Words, func(w WordSnapshot, _ int) string {
		if strings.TrimSpace(w.Transliteration) != "" {
			return w.Transliteration
		}
		return w.Text
	}))
	return english, transliteration
}

// SnapshotOf freezes the original-track sentence with the given id together
// with the translation and transliteration sentences of its alignment group.
func (t Tracks) SnapshotOf(sentenceID string) (SentenceSnapshot, bool) {
	s, ok := lo.Find(t.Original, func(s Sentence) bool { return s.ID == sentenceID })
	if !ok {
		return SentenceSnapshot{}, false
	}
	snap := SentenceSnapshot{
		SentenceID: s.ID,
		Text:       s.Text,
		Words: lo.Map(s.Words, func(w Word, _ int) WordSnapshot {
			return WordSnapshot{Text: w.Text, Color: w.Color, Transliteration: w.Transliteration}
		}),
	}
	if s.AlignmentGroup == 0 {
		return snap, true
	}
	if tr, ok := t.Aligned(TrackTranslation, s.AlignmentGroup); ok {
		snap.Translations = lo.Map(tr.Words, func(w Word, _ int) WordSnapshot {
			return WordSnapshot{Text: w.Text, Color: w.Color}
		})
		if len(snap.Translations) == 0 && strings.TrimSpace(tr.Text) != "" {
			snap.Translations = []WordSnapshot{{Text: tr.Text}}
		}
	}
	if tl, ok := t.Aligned(TrackTransliteration, s.AlignmentGroup); ok {
		snap.Transliteration = tl.Text
	}
	return snap, true
}

func joinWords(words []string) string {
	return strings.Join(lo.Filter(lo.Map(words, func(w string, _ int) string {
		return strings.TrimSpace(w)
	}), func(w string, _ int) bool { return w != "" }), " ")
}

// QuestionBookmark saves one lesson question.
type QuestionBookmark struct {
	ID         string
	UserID     int64
	LessonID   string
	QuestionID string
	Language   Language
	Prompt     string
	Answer     string
	AudioURL   string
	CreatedAt  time.Time
}

func (b QuestionBookmark) GetID() string { return b.ID }

func (b QuestionBookmark) WithID(id string) QuestionBookmark {
	b.ID = id
	return b
}

// Matches reports whether the bookmark saves the given lesson question.
func (b QuestionBookmark) Matches(lessonID, questionID string) bool {
	return b.LessonID == lessonID && b.QuestionID == questionID
}

// FindQuestionBookmark returns the bookmark saving (lessonID, questionID).
func FindQuestionBookmark(bookmarks []QuestionBookmark, lessonID, questionID string) (QuestionBookmark, bool) {
	return lo.Find(bookmarks, func(b QuestionBookmark) bool { return b.Matches(lessonID, questionID) })
}

// SentenceGroup is the payload shared by subtitle and lyric bookmarks: a set
// of consecutive sentences of one media item plus their snapshot.
type SentenceGroup struct {
	MediaID     string
	SentenceIDs []string
	Sentences   []SentenceSnapshot
	AudioURL    string
	Start       float64
	End         float64
}

// Normalize trims and de-duplicates sentence ids, keeping first-seen order.
func (g *SentenceGroup) Normalize() {
	g.MediaID = strings.TrimSpace(g.MediaID)
	g.SentenceIDs = normalizeIDs(g.SentenceIDs)
	if g.Sentences == nil {
		g.Sentences = []SentenceSnapshot{}
	}
}

// Snapshot returns the frozen copy of a sentence in the group.
func (g SentenceGroup) Snapshot(sentenceID string) (SentenceSnapshot, bool) {
	return lo.Find(g.Sentences, func(s SentenceSnapshot) bool { return s.SentenceID == sentenceID })
}

func covers(stored, candidate []string) bool {
	if len(candidate) == 0 {
		return false
	}
	return lo.Every(stored, candidate)
}

// SubtitleBookmark saves a run of video subtitle sentences.
type SubtitleBookmark struct {
	ID       string
	UserID   int64
	Language Language
	SentenceGroup
	CreatedAt time.Time
}

func (b SubtitleBookmark) GetID() string { return b.ID }

func (b SubtitleBookmark) WithID(id string) SubtitleBookmark {
	b.ID = id
	return b
}

// Covers reports whether the bookmark's sentences include every candidate id.
// A bookmark over {A,B,C} covers {A,B}; one over {A,B} does not cover {A,B,D}.
func (b SubtitleBookmark) Covers(candidate []string) bool {
	return covers(b.SentenceIDs, candidate)
}

// FindSubtitleBookmark returns the first bookmark covering candidate.
func FindSubtitleBookmark(bookmarks []SubtitleBookmark, candidate []string) (SubtitleBookmark, bool) {
	return lo.Find(bookmarks, func(b SubtitleBookmark) bool { return b.Covers(candidate) })
}

// LyricBookmark saves a run of song lyric lines.
type LyricBookmark struct {
	ID       string
	UserID   int64
	Language Language
	SentenceGroup
	CreatedAt time.Time
}

func (b LyricBookmark) GetID() string { return b.ID }

func (b LyricBookmark) WithID(id string) LyricBookmark {
	b.ID = id
	return b
}

// Covers reports whether the bookmark's lines include every candidate id.
func (b LyricBookmark) Covers(candidate []string) bool {
	return covers(b.SentenceIDs, candidate)
}

// FindLyricBookmark returns the first bookmark covering candidate.
func FindLyricBookmark(bookmarks []LyricBookmark, candidate []string) (LyricBookmark, bool) {
	return lo.Find(bookmarks, func(b LyricBookmark) bool { return b.Covers(candidate) })
}

// ReadingBookmark saves one sentence of a book.
//
// Older rows carry only SentenceText; they are matched by text until the
// content source backfills stable ids.
type ReadingBookmark struct {
	ID           string
	UserID       int64
	BookID       string
	SentenceID   string
	SentenceText string
	Translation  string
	Language     Language
	CreatedAt    time.Time
}

func (b ReadingBookmark) GetID() string { return b.ID }

func (b ReadingBookmark) WithID(id string) ReadingBookmark {
	b.ID = id
	return b
}

// Matches reports whether the bookmark saves the given book sentence.
func (b ReadingBookmark) Matches(bookID, sentenceID, text string) bool {
	if b.BookID != bookID {
		return false
	}
	if b.SentenceID != "" {
		return b.SentenceID == sentenceID
	}
	return text != "" && b.SentenceText == text
}

// FindReadingBookmark returns the bookmark saving the given book sentence.
func FindReadingBookmark(bookmarks []ReadingBookmark, bookID, sentenceID, text string) (ReadingBookmark, bool) {
	return lo.Find(bookmarks, func(b ReadingBookmark) bool { return b.Matches(bookID, sentenceID, text) })
}

func normalizeIDs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, id := range in {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return lo.Uniq(out)
}
