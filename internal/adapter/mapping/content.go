package mapping

import (
	"github.com/samber/lo"

	"github.com/eslsoft/lingocast/internal/entity"
	commonv1 "github.com/eslsoft/lingocast/pkg/api/common/v1"
	contentv1 "github.com/eslsoft/lingocast/pkg/api/content/v1"
)

func ToPbMediaItem(in *entity.MediaItem) *contentv1.MediaItem {
	if in == nil {
		return nil
	}
	return &contentv1.MediaItem{
		ID:       in.ID,
		Kind:     string(in.Kind),
		Title:    in.Title,
		Category: in.Category,
		Language: string(in.Language),
		MediaURL: in.MediaURL,
		Tracks: &contentv1.Tracks{
			Original:        toPbSentences(in.Tracks.Original),
			Translation:     toPbSentences(in.Tracks.Translation),
			Transliteration: toPbSentences(in.Tracks.Transliteration),
		},
		CreatedAt: in.CreatedAt,
		UpdatedAt: in.UpdatedAt,
	}
}

func FromPbMediaItem(in *contentv1.MediaItem) *entity.MediaItem {
	if in == nil {
		return nil
	}
	out := &entity.MediaItem{
		ID:       in.ID,
		Kind:     entity.ParseMediaKind(in.Kind),
		Title:    in.Title,
		Category: in.Category,
		Language: entity.ParseLanguage(in.Language),
		MediaURL: in.MediaURL,
	}
	if in.Tracks != nil {
		out.Tracks = entity.Tracks{
			Original:        fromPbSentences(in.Tracks.Original),
			Translation:     fromPbSentences(in.Tracks.Translation),
			Transliteration: fromPbSentences(in.Tracks.Transliteration),
		}
	}
	return out
}

func toPbSentences(in []entity.Sentence) []*contentv1.Sentence {
	return lo.Map(in, func(s entity.Sentence, _ int) *contentv1.Sentence {
		return &contentv1.Sentence{
			ID:             s.ID,
			Text:           s.Text,
			Start:          s.Start,
			End:            s.End,
			AlignmentGroup: int32(s.AlignmentGroup),
			Words: lo.Map(s.Words, func(w entity.Word, _ int) *contentv1.Word {
				return &contentv1.Word{
					ID:              w.ID,
					Text:            w.Text,
					Start:           w.Start,
					End:             w.End,
					Order:           int32(w.Order),
					Color:           w.Color,
					Transliteration: w.Transliteration,
					AudioURL:        w.AudioURL,
				}
			}),
			BookmarkedEnglish:         s.BookmarkedEnglish,
			BookmarkedTransliteration: s.BookmarkedTransliteration,
		}
	})
}

// fromPbSentences drops the bookmark fallbacks: only enrichment writes them.
func fromPbSentences(in []*contentv1.Sentence) []entity.Sentence {
	return lo.FilterMap(in, func(s *contentv1.Sentence, _ int) (entity.Sentence, bool) {
		if s == nil {
			return entity.Sentence{}, false
		}
		return entity.Sentence{
			ID:             s.ID,
			Text:           s.Text,
			Start:          s.Start,
			End:            s.End,
			AlignmentGroup: int(s.AlignmentGroup),
			Words: lo.FilterMap(s.Words, func(w *contentv1.Word, _ int) (entity.Word, bool) {
				if w == nil {
					return entity.Word{}, false
				}
				return entity.Word{
					ID:              w.ID,
					Text:            w.Text,
					Start:           w.Start,
					End:             w.End,
					Order:           int(w.Order),
					Color:           w.Color,
					Transliteration: w.Transliteration,
					AudioURL:        w.AudioURL,
				}, true
			}),
		}, true
	})
}

func ToPbMediaSummary(in entity.MediaSummary, _ int) *contentv1.MediaSummary {
	return &contentv1.MediaSummary{
		ID:            in.ID,
		Kind:          string(in.Kind),
		Title:         in.Title,
		Category:      in.Category,
		Language:      string(in.Language),
		MediaURL:      in.MediaURL,
		SentenceCount: int32(in.SentenceCount),
		CreatedAt:     in.CreatedAt,
	}
}

func ToPbResolution(at float64, r entity.Resolution) *contentv1.ResolvePositionResponse {
	return &contentv1.ResolvePositionResponse{
		At:              at,
		Original:        toPbSegment(r, entity.TrackOriginal),
		Translation:     toPbSegment(r, entity.TrackTranslation),
		Transliteration: toPbSegment(r, entity.TrackTransliteration),
	}
}

func toPbSegment(r entity.Resolution, kind entity.TrackKind) *contentv1.ActiveSegment {
	seg := r.Segment(kind)
	out := &contentv1.ActiveSegment{
		SentenceIndex: int32(seg.SentenceIndex),
		WordIndex:     int32(seg.WordIndex),
		Text:          r.Text(kind),
	}
	if seg.Sentence != nil {
		out.SentenceID = seg.Sentence.ID
	}
	if seg.Word != nil {
		out.Word = seg.Word.Text
	}
	return out
}

func ToPbPagination(total int64, pageNo int32) *commonv1.PaginationResponse {
	return &commonv1.PaginationResponse{Total: total, PageNo: pageNo}
}
