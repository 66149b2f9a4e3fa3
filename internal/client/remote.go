package client

import (
	"context"

	"connectrpc.com/connect"
	"github.com/samber/lo"

	"github.com/eslsoft/lingocast/internal/adapter/mapping"
	"github.com/eslsoft/lingocast/internal/entity"
	bookmarkv1 "github.com/eslsoft/lingocast/pkg/api/bookmark/v1"
	commonv1 "github.com/eslsoft/lingocast/pkg/api/common/v1"
)

// listPageSize asks for the whole scope in one page; the server caps it.
const listPageSize = 10000

// kindRemote adapts one per-kind bookmark client to Remote, converting
// between entity and wire shapes. E is the entity type, D its wire type.
type kindRemote[E, D any] struct {
	client   *bookmarkv1.KindClient[D]
	language entity.Language
	scope    string
	toPb     func(E) *D
	fromPb   func(*D) E
}

func (r *kindRemote[E, D]) List(ctx context.Context) ([]E, error) {
	resp, err := r.client.List(ctx, connect.NewRequest(&bookmarkv1.ListBookmarksRequest{
		Pagination: &commonv1.PaginationRequest{PageNo: 1, PageSize: listPageSize},
		Language:   string(r.language),
		Scope:      r.scope,
	}))
	if err != nil {
		return nil, mapping.FromConnectError(err)
	}
	return lo.FilterMap(resp.Msg.Bookmarks, func(b *D, _ int) (E, bool) {
		if b == nil {
			var zero E
			return zero, false
		}
		return r.fromPb(b), true
	}), nil
}

func (r *kindRemote[E, D]) Create(ctx context.Context, bookmark E) (E, error) {
	resp, err := r.client.Create(ctx, connect.NewRequest(&bookmarkv1.BookmarkRequest[D]{Bookmark: r.toPb(bookmark)}))
	if err != nil {
		var zero E
		return zero, mapping.FromConnectError(err)
	}
	return r.fromPb(resp.Msg), nil
}

func (r *kindRemote[E, D]) Delete(ctx context.Context, id string) error {
	_, err := r.client.Delete(ctx, connect.NewRequest(&commonv1.IDRequest{ID: id}))
	return mapping.FromConnectError(err)
}

func newQuestionRemote(c *bookmarkv1.KindClient[bookmarkv1.QuestionBookmark], lang entity.Language, lessonID string) Remote[entity.QuestionBookmark] {
	return &kindRemote[entity.QuestionBookmark, bookmarkv1.QuestionBookmark]{
		client:   c,
		language: lang,
		scope:    lessonID,
		toPb:     mapping.ToPbQuestionBookmark,
		fromPb: func(b *bookmarkv1.QuestionBookmark) entity.QuestionBookmark {
			return *mapping.FromPbQuestionBookmark(0, b)
		},
	}
}

func newSubtitleRemote(c *bookmarkv1.KindClient[bookmarkv1.SentenceGroupBookmark], lang entity.Language, mediaID string) Remote[entity.SubtitleBookmark] {
	return &kindRemote[entity.SubtitleBookmark, bookmarkv1.SentenceGroupBookmark]{
		client:   c,
		language: lang,
		scope:    mediaID,
		toPb:     mapping.ToPbSubtitleBookmark,
		fromPb: func(b *bookmarkv1.SentenceGroupBookmark) entity.SubtitleBookmark {
			return *mapping.FromPbSubtitleBookmark(0, b)
		},
	}
}

func newLyricRemote(c *bookmarkv1.KindClient[bookmarkv1.SentenceGroupBookmark], lang entity.Language, mediaID string) Remote[entity.LyricBookmark] {
	return &kindRemote[entity.LyricBookmark, bookmarkv1.SentenceGroupBookmark]{
		client:   c,
		language: lang,
		scope:    mediaID,
		toPb:     mapping.ToPbLyricBookmark,
		fromPb: func(b *bookmarkv1.SentenceGroupBookmark) entity.LyricBookmark {
			return *mapping.FromPbLyricBookmark(0, b)
		},
	}
}

func newReadingRemote(c *bookmarkv1.KindClient[bookmarkv1.ReadingBookmark], lang entity.Language, bookID string) Remote[entity.ReadingBookmark] {
	return &kindRemote[entity.ReadingBookmark, bookmarkv1.ReadingBookmark]{
		client:   c,
		language: lang,
		scope:    bookID,
		toPb:     mapping.ToPbReadingBookmark,
		fromPb: func(b *bookmarkv1.ReadingBookmark) entity.ReadingBookmark {
			return *mapping.FromPbReadingBookmark(0, b)
		},
	}
}
