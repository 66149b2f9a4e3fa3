// Package contentv1 defines the lingocast.content.v1 messages and procedures.
package contentv1

import (
	"time"

	commonv1 "github.com/eslsoft/lingocast/pkg/api/common/v1"
)

const ContentServiceName = "lingocast.content.v1.ContentService"

const (
	ContentServiceListMediaProcedure       = "/" + ContentServiceName + "/ListMedia"
	ContentServiceGetMediaProcedure        = "/" + ContentServiceName + "/GetMedia"
	ContentServiceResolvePositionProcedure = "/" + ContentServiceName + "/ResolvePosition"
	ContentServiceImportMediaProcedure     = "/" + ContentServiceName + "/ImportMedia"
)

type Word struct {
	ID              string  `json:"id,omitempty"`
	Text            string  `json:"text"`
	Start           float64 `json:"start"`
	End             float64 `json:"end"`
	Order           int32   `json:"order"`
	Color           string  `json:"color,omitempty"`
	Transliteration string  `json:"transliteration,omitempty"`
	AudioURL        string  `json:"audioUrl,omitempty"`
}

type Sentence struct {
	ID                        string  `json:"id"`
	Text                      string  `json:"text"`
	Start                     float64 `json:"start"`
	End                       float64 `json:"end"`
	AlignmentGroup            int32   `json:"alignmentGroup,omitempty"`
	Words                     []*Word `json:"words,omitempty"`
	BookmarkedEnglish         string  `json:"bookmarkedEnglish,omitempty"`
	BookmarkedTransliteration string  `json:"bookmarkedTransliteration,omitempty"`
}

type Tracks struct {
	Original        []*Sentence `json:"original"`
	Translation     []*Sentence `json:"translation,omitempty"`
	Transliteration []*Sentence `json:"transliteration,omitempty"`
}

type MediaItem struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Category  string    `json:"category,omitempty"`
	Language  string    `json:"language"`
	MediaURL  string    `json:"mediaUrl,omitempty"`
	Tracks    *Tracks   `json:"tracks,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type MediaSummary struct {
	ID            string    `json:"id"`
	Kind          string    `json:"kind"`
	Title         string    `json:"title"`
	Category      string    `json:"category,omitempty"`
	Language      string    `json:"language"`
	MediaURL      string    `json:"mediaUrl,omitempty"`
	SentenceCount int32     `json:"sentenceCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

type ListMediaRequest struct {
	Pagination *commonv1.PaginationRequest `json:"pagination,omitempty"`
	Filter     string                      `json:"filter,omitempty"`
	OrderBy    string                      `json:"orderBy,omitempty"`
	Kind       string                      `json:"kind,omitempty"`
	Language   string                      `json:"language,omitempty"`
}

type ListMediaResponse struct {
	Items      []*MediaSummary              `json:"items"`
	Pagination *commonv1.PaginationResponse `json:"pagination"`
}

type ImportMediaRequest struct {
	Item *MediaItem `json:"item"`
}

type ResolvePositionRequest struct {
	MediaID string  `json:"mediaId"`
	At      float64 `json:"at"`
}

// ActiveSegment is the sentence and word under the playhead of one track.
// Indexes are -1 and Text holds the track placeholder when nothing is active.
type ActiveSegment struct {
	SentenceIndex int32  `json:"sentenceIndex"`
	WordIndex     int32  `json:"wordIndex"`
	SentenceID    string `json:"sentenceId,omitempty"`
	Text          string `json:"text"`
	Word          string `json:"word,omitempty"`
}

type ResolvePositionResponse struct {
	At              float64        `json:"at"`
	Original        *ActiveSegment `json:"original"`
	Translation     *ActiveSegment `json:"translation"`
	Transliteration *ActiveSegment `json:"transliteration"`
}
