package mapping

import (
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/eslsoft/lingocast/internal/entity"
	bookmarkv1 "github.com/eslsoft/lingocast/pkg/api/bookmark/v1"
)

func ToPbQuestionBookmark(in entity.QuestionBookmark) *bookmarkv1.QuestionBookmark {
	return &bookmarkv1.QuestionBookmark{
		ID:         in.ID,
		LessonID:   in.LessonID,
		QuestionID: in.QuestionID,
		Language:   string(in.Language),
		Prompt:     in.Prompt,
		Answer:     in.Answer,
		AudioURL:   in.AudioURL,
		CreatedAt:  in.CreatedAt,
	}
}

func FromPbQuestionBookmark(userID int64, in *bookmarkv1.QuestionBookmark) *entity.QuestionBookmark {
	if in == nil {
		return nil
	}
	return &entity.QuestionBookmark{
		ID:         in.ID,
		UserID:     userID,
		LessonID:   strings.TrimSpace(in.LessonID),
		QuestionID: strings.TrimSpace(in.QuestionID),
		Language:   entity.Language(in.Language),
		Prompt:     in.Prompt,
		Answer:     in.Answer,
		AudioURL:   in.AudioURL,
		CreatedAt:  in.CreatedAt,
	}
}

func ToPbSubtitleBookmark(in entity.SubtitleBookmark) *bookmarkv1.SentenceGroupBookmark {
	return toPbSentenceGroup(in.ID, in.Language, in.SentenceGroup, in.CreatedAt)
}

func FromPbSubtitleBookmark(userID int64, in *bookmarkv1.SentenceGroupBookmark) *entity.SubtitleBookmark {
	if in == nil {
		return nil
	}
	return &entity.SubtitleBookmark{
		ID:            in.ID,
		UserID:        userID,
		Language:      entity.Language(in.Language),
		SentenceGroup: fromPbSentenceGroup(in),
		CreatedAt:     in.CreatedAt,
	}
}

func ToPbLyricBookmark(in entity.LyricBookmark) *bookmarkv1.SentenceGroupBookmark {
	return toPbSentenceGroup(in.ID, in.Language, in.SentenceGroup, in.CreatedAt)
}

func FromPbLyricBookmark(userID int64, in *bookmarkv1.SentenceGroupBookmark) *entity.LyricBookmark {
	if in == nil {
		return nil
	}
	return &entity.LyricBookmark{
		ID:            in.ID,
		UserID:        userID,
		Language:      entity.Language(in.Language),
		SentenceGroup: fromPbSentenceGroup(in),
		CreatedAt:     in.CreatedAt,
	}
}

func ToPbReadingBookmark(in entity.ReadingBookmark) *bookmarkv1.ReadingBookmark {
	return &bookmarkv1.ReadingBookmark{
		ID:           in.ID,
		BookID:       in.BookID,
		SentenceID:   in.SentenceID,
		SentenceText: in.SentenceText,
		Translation:  in.Translation,
		Language:     string(in.Language),
		CreatedAt:    in.CreatedAt,
	}
}

func FromPbReadingBookmark(userID int64, in *bookmarkv1.ReadingBookmark) *entity.ReadingBookmark {
	if in == nil {
		return nil
	}
	return &entity.ReadingBookmark{
		ID:           in.ID,
		UserID:       userID,
		BookID:       strings.TrimSpace(in.BookID),
		SentenceID:   strings.TrimSpace(in.SentenceID),
		SentenceText: in.SentenceText,
		Translation:  in.Translation,
		Language:     entity.Language(in.Language),
		CreatedAt:    in.CreatedAt,
	}
}

func toPbSentenceGroup(id string, lang entity.Language, g entity.SentenceGroup, createdAt time.Time) *bookmarkv1.SentenceGroupBookmark {
	return &bookmarkv1.SentenceGroupBookmark{
		ID:          id,
		Language:    string(lang),
		MediaID:     g.MediaID,
		SentenceIDs: append([]string(nil), g.SentenceIDs...),
		Sentences: lo.Map(g.Sentences, func(s entity.SentenceSnapshot, _ int) *bookmarkv1.SentenceSnapshot {
			return &bookmarkv1.SentenceSnapshot{
				SentenceID:      s.SentenceID,
				Text:            s.Text,
				Words:           lo.Map(s.Words, toPbWordSnapshot),
				Translations:    lo.Map(s.Translations, toPbWordSnapshot),
				Transliteration: s.Transliteration,
			}
		}),
		AudioURL:  g.AudioURL,
		Start:     g.Start,
		End:       g.End,
		CreatedAt: createdAt,
	}
}

func fromPbSentenceGroup(in *bookmarkv1.SentenceGroupBookmark) entity.SentenceGroup {
	return entity.SentenceGroup{
		MediaID:     strings.TrimSpace(in.MediaID),
		SentenceIDs: append([]string(nil), in.SentenceIDs...),
		Sentences: lo.FilterMap(in.Sentences, func(s *bookmarkv1.SentenceSnapshot, _ int) (entity.SentenceSnapshot, bool) {
			if s == nil {
				return entity.SentenceSnapshot{}, false
			}
			return entity.SentenceSnapshot{
				SentenceID:      s.SentenceID,
				Text:            s.Text,
				Words:           fromPbWordSnapshots(s.Words),
				Translations:    fromPbWordSnapshots(s.Translations),
				Transliteration: s.Transliteration,
			}, true
		}),
		AudioURL: in.AudioURL,
		Start:    in.Start,
		End:      in.End,
	}
}

func toPbWordSnapshot(w entity.WordSnapshot, _ int) *bookmarkv1.WordSnapshot {
	return &bookmarkv1.WordSnapshot{Text: w.Text, Color: w.Color, Transliteration: w.Transliteration}
}

func fromPbWordSnapshots(in []*bookmarkv1.WordSnapshot) []entity.WordSnapshot {
	return lo.FilterMap(in, func(w *bookmarkv1.WordSnapshot, _ int) (entity.WordSnapshot, bool) {
		if w == nil {
			return entity.WordSnapshot{}, false
		}
		return entity.WordSnapshot{Text: w.Text, Color: w.Color, Transliteration: w.Transliteration}, true
	})
}
