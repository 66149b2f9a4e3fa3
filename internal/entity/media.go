package entity

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/eslsoft/lingocast/pkg/timeline"
)

// MediaKind enumerates the playable content types.
type MediaKind string

const (
	MediaKindAudioLesson MediaKind = "audio_lesson"
	MediaKindVideo       MediaKind = "video"
	MediaKindSong        MediaKind = "song"
)

// ParseMediaKind maps a raw string to a MediaKind, returning "" when unknown.
func ParseMediaKind(raw string) MediaKind {
	switch kind := MediaKind(strings.ToLower(strings.TrimSpace(raw))); kind {
	case MediaKindAudioLesson, MediaKindVideo, MediaKindSong:
		return kind
	default:
		return ""
	}
}

// TrackKind names one of the three parallel sentence sequences of a media item.
type TrackKind string

const (
	TrackOriginal        TrackKind = "original"
	TrackTranslation     TrackKind = "translation"
	TrackTransliteration TrackKind = "transliteration"
)

// TrackKinds lists the tracks in display order.
var TrackKinds = []TrackKind{TrackOriginal, TrackTranslation, TrackTransliteration}

// Word is a timed token inside a sentence. Times are seconds.
type Word struct {
	ID              string  `json:"id" yaml:"id"`
	Text            string  `json:"text" yaml:"text"`
	Start           float64 `json:"start" yaml:"start"`
	End             float64 `json:"end" yaml:"end"`
	Order           int     `json:"order" yaml:"order"`
	Color           string  `json:"color,omitempty" yaml:"color,omitempty"`
	Transliteration string  `json:"transliteration,omitempty" yaml:"transliteration,omitempty"`
	AudioURL        string  `json:"audio_url,omitempty" yaml:"audio_url,omitempty"`
}

func (w Word) Bounds() (float64, float64) { return w.Start, w.End }

// Sentence is a timed line of one track. AlignmentGroup is shared by the
// corresponding sentences of the other tracks.
type Sentence struct {
	ID             string  `json:"id" yaml:"id"`
	Text           string  `json:"text" yaml:"text"`
	Start          float64 `json:"start" yaml:"start"`
	End            float64 `json:"end" yaml:"end"`
	AlignmentGroup int     `json:"alignment_group,omitempty" yaml:"alignment_group,omitempty"`
	Words          []Word  `json:"words,omitempty" yaml:"words,omitempty"`

	BookmarkedEnglish         string `json:"bookmarked_english,omitempty" yaml:"-"`
	BookmarkedTransliteration string `json:"bookmarked_transliteration,omitempty" yaml:"-"`
}

func (s Sentence) Bounds() (float64, float64) { return s.Start, s.End }

// HasFallback reports whether either bookmark fallback field is filled.
func (s Sentence) HasFallback() bool {
	return strings.TrimSpace(s.BookmarkedEnglish) != "" || strings.TrimSpace(s.BookmarkedTransliteration) != ""
}

// Tracks holds the three parallel sentence sequences of a media item.
type Tracks struct {
	Original        []Sentence `json:"original" yaml:"original"`
	Translation     []Sentence `json:"translation,omitempty" yaml:"translation,omitempty"`
	Transliteration []Sentence `json:"transliteration,omitempty" yaml:"transliteration,omitempty"`
}

// Track returns the sentences of the given kind.
func (t Tracks) Track(kind TrackKind) []Sentence {
	switch kind {
	case TrackOriginal:
		return t.Original
	case TrackTranslation:
		return t.Translation
	case TrackTransliteration:
		return t.Transliteration
	default:
		return nil
	}
}

// Normalize sorts words by order and fills missing alignment groups from the
// 1-based sentence position.
func (t Tracks) Normalize() {
	for _, kind := range TrackKinds {
		sentences := t.Track(kind)
		for i := range sentences {
			if sentences[i].AlignmentGroup == 0 {
				sentences[i].AlignmentGroup = i + 1
			}
			words := sentences[i].Words
			sort.SliceStable(words, func(a, b int) bool { return words[a].Order < words[b].Order })
		}
	}
}

// Validate checks the span invariants the resolver relies on.
func (t Tracks) Validate() error {
	for _, kind := range TrackKinds {
		sentences := t.Track(kind)
		if err := timeline.Validate(sentences); err != nil {
			return fmt.Errorf("%w: %s track: %v", ErrInvalidTiming, kind, err)
		}
		for i, s := range sentences {
			if err := timeline.Validate(s.Words); err != nil {
				return fmt.Errorf("%w: %s sentence %d words: %v", ErrInvalidTiming, kind, i, err)
			}
			if err := timeline.Nested(s, s.Words); err != nil {
				return fmt.Errorf("%w: %s sentence %d words: %v", ErrInvalidTiming, kind, i, err)
			}
		}
	}
	return nil
}

// Aligned returns the sentence of the given track that belongs to group.
func (t Tracks) Aligned(kind TrackKind, group int) (Sentence, bool) {
	for _, s := range t.Track(kind) {
		if s.AlignmentGroup == group {
			return s, true
		}
	}
	return Sentence{}, false
}

// ActiveSegment is the sentence and word under the playhead for one track.
// Indexes are -1 when nothing is active.
type ActiveSegment struct {
	SentenceIndex int
	WordIndex     int
	Sentence      *Sentence
	Word          *Word
}

func (a ActiveSegment) Active() bool { return a.Sentence != nil }

// Resolution is the active segment of every track at one instant.
type Resolution struct {
	Original        ActiveSegment
	Translation     ActiveSegment
	Transliteration ActiveSegment
}

// Placeholders shown for a track with no active sentence.
var trackPlaceholders = map[TrackKind]string{
	TrackOriginal:        "(The Original Sentence)",
	TrackTranslation:     "(The English Translation)",
	TrackTransliteration: "(The Transliteration)",
}

// Segment returns the active segment of the given track.
func (r Resolution) Segment(kind TrackKind) ActiveSegment {
	switch kind {
	case TrackTranslation:
		return r.Translation
	case TrackTransliteration:
		return r.Transliteration
	default:
		return r.Original
	}
}

// Text returns the active sentence text of a track or its placeholder.
func (r Resolution) Text(kind TrackKind) string {
	if seg := r.Segment(kind); seg.Active() {
		return seg.Sentence.Text
	}
	return trackPlaceholders[kind]
}

// Resolve finds the active sentence and word of every track at t.
func (t Tracks) Resolve(at float64) Resolution {
	return Resolution{
		Original:        resolveTrack(t.Original, at),
		Translation:     resolveTrack(t.Translation, at),
		Transliteration: resolveTrack(t.Transliteration, at),
	}
}

func resolveTrack(sentences []Sentence, at float64) ActiveSegment {
	seg := ActiveSegment{SentenceIndex: -1, WordIndex: -1}
	i := timeline.Search(sentences, at)
	if i < 0 {
		return seg
	}
	seg.SentenceIndex = i
	seg.Sentence = &sentences[i]
	if j := timeline.Search(sentences[i].Words, at); j >= 0 {
		seg.WordIndex = j
		seg.Word = &sentences[i].Words[j]
	}
	return seg
}

// MediaItem is an audio lesson, video or song with its timed tracks.
type MediaItem struct {
	ID        string    `json:"id" yaml:"id"`
	Kind      MediaKind `json:"kind" yaml:"kind"`
	Title     string    `json:"title" yaml:"title"`
	Category  string    `json:"category,omitempty" yaml:"category,omitempty"`
	Language  Language  `json:"language" yaml:"language"`
	MediaURL  string    `json:"media_url,omitempty" yaml:"media_url,omitempty"`
	Tracks    Tracks    `json:"tracks" yaml:"tracks"`
	CreatedAt time.Time `json:"created_at" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

// Normalize ensures defaults & constraints before persistence.
func (m *MediaItem) Normalize(now time.Time) {
	m.ID = strings.TrimSpace(m.ID)
	m.Title = strings.TrimSpace(m.Title)
	m.Category = strings.TrimSpace(m.Category)
	m.Kind = ParseMediaKind(string(m.Kind))
	m.Language = ParseLanguage(string(m.Language))
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	m.Tracks.Normalize()
}

// Validate checks identity fields and timing invariants.
func (m *MediaItem) Validate() error {
	if m.ID == "" || m.Title == "" {
		return fmt.Errorf("%w: id and title are required", ErrInvalidMedia)
	}
	if m.Kind == "" {
		return fmt.Errorf("%w: unknown kind", ErrInvalidMedia)
	}
	if m.Language == LanguageUnspecified {
		return fmt.Errorf("%w: unsupported language", ErrInvalidMedia)
	}
	seen := make(map[string]struct{})
	for _, kind := range TrackKinds {
		groups := make(map[int]string)
		for _, s := range m.Tracks.Track(kind) {
			if s.ID == "" {
				return fmt.Errorf("%w: %s sentence without id", ErrInvalidMedia, kind)
			}
			if _, dup := seen[s.ID]; dup {
				return fmt.Errorf("%w: duplicate sentence id %q", ErrInvalidMedia, s.ID)
			}
			seen[s.ID] = struct{}{}
			if other, dup := groups[s.AlignmentGroup]; dup {
				return fmt.Errorf("%w: %s sentences %q and %q share alignment group %d", ErrInvalidMedia, kind, other, s.ID, s.AlignmentGroup)
			}
			groups[s.AlignmentGroup] = s.ID
		}
	}
	return m.Tracks.Validate()
}

// MediaSummary is the listing view of a media item.
type MediaSummary struct {
	ID            string
	Kind          MediaKind
	Title         string
	Category      string
	Language      Language
	MediaURL      string
	SentenceCount int
	CreatedAt     time.Time
}
