// Package client is the Go SDK for the lingocast services. Besides the raw
// service clients it offers per-scope bookmark stores that apply changes
// optimistically and reconcile with the server.
package client

import (
	"context"
	"strconv"
	"strings"

	"connectrpc.com/connect"
	"github.com/samber/lo"

	"github.com/eslsoft/lingocast/internal/adapter/connectrpc"
	"github.com/eslsoft/lingocast/internal/adapter/mapping"
	"github.com/eslsoft/lingocast/internal/entity"
	bookmarkv1 "github.com/eslsoft/lingocast/pkg/api/bookmark/v1"
	commonv1 "github.com/eslsoft/lingocast/pkg/api/common/v1"
	contentv1 "github.com/eslsoft/lingocast/pkg/api/content/v1"
	lessonv1 "github.com/eslsoft/lingocast/pkg/api/lesson/v1"
)

type Client struct {
	Content   *contentv1.ContentServiceClient
	Bookmarks *bookmarkv1.BookmarkServiceClient
	Lessons   *lessonv1.LessonServiceClient
}

// New builds a client that calls baseURL on behalf of userID. A zero userID
// sends anonymous requests.
func New(httpClient connect.HTTPClient, baseURL string, userID int64, opts ...connect.ClientOption) *Client {
	opts = append(opts, connect.WithInterceptors(userHeader(userID)))
	return &Client{
		Content:   contentv1.NewContentServiceClient(httpClient, baseURL, opts...),
		Bookmarks: bookmarkv1.NewBookmarkServiceClient(httpClient, baseURL, opts...),
		Lessons:   lessonv1.NewLessonServiceClient(httpClient, baseURL, opts...),
	}
}

func userHeader(userID int64) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if userID != 0 && req.Spec().IsClient {
				req.Header().Set(connectrpc.HeaderUserID, strconv.FormatInt(userID, 10))
			}
			return next(ctx, req)
		}
	}
}

func (c *Client) GetMedia(ctx context.Context, id string) (*entity.MediaItem, error) {
	resp, err := c.Content.GetMedia(ctx, connect.NewRequest(&commonv1.IDRequest{ID: id}))
	if err != nil {
		return nil, mapping.FromConnectError(err)
	}
	return mapping.FromPbMediaItem(resp.Msg), nil
}

// ListMedia returns one page of the catalogue, filtered by kind when set.
func (c *Client) ListMedia(ctx context.Context, kind entity.MediaKind, pageNo, pageSize int32) ([]*contentv1.MediaSummary, int64, error) {
	resp, err := c.Content.ListMedia(ctx, connect.NewRequest(&contentv1.ListMediaRequest{
		Pagination: &commonv1.PaginationRequest{PageNo: pageNo, PageSize: pageSize},
		Kind:       string(kind),
	}))
	if err != nil {
		return nil, 0, mapping.FromConnectError(err)
	}
	var total int64
	if resp.Msg.Pagination != nil {
		total = resp.Msg.Pagination.Total
	}
	return resp.Msg.Items, total, nil
}

func (c *Client) ResolvePosition(ctx context.Context, mediaID string, at float64) (*contentv1.ResolvePositionResponse, error) {
	resp, err := c.Content.ResolvePosition(ctx, connect.NewRequest(&contentv1.ResolvePositionRequest{MediaID: mediaID, At: at}))
	if err != nil {
		return nil, mapping.FromConnectError(err)
	}
	return resp.Msg, nil
}

func (c *Client) ImportMedia(ctx context.Context, item *entity.MediaItem) (*entity.MediaItem, error) {
	resp, err := c.Content.ImportMedia(ctx, connect.NewRequest(&contentv1.ImportMediaRequest{Item: mapping.ToPbMediaItem(item)}))
	if err != nil {
		return nil, mapping.FromConnectError(err)
	}
	return mapping.FromPbMediaItem(resp.Msg), nil
}

// QuestionBookmarks returns the store of the caller's bookmarks in one lesson.
func (c *Client) QuestionBookmarks(lang entity.Language, lessonID string) *Store[entity.QuestionBookmark] {
	return NewStore(newQuestionRemote(c.Bookmarks.Questions, lang, lessonID), func(existing, candidate entity.QuestionBookmark) bool {
		return existing.Matches(candidate.LessonID, candidate.QuestionID)
	})
}

// SubtitleBookmarks returns the store of the caller's bookmarks on one video.
// A candidate sentence set is saved when a stored bookmark covers all of it.
func (c *Client) SubtitleBookmarks(lang entity.Language, mediaID string) *Store[entity.SubtitleBookmark] {
	return NewStore(newSubtitleRemote(c.Bookmarks.Subtitles, lang, mediaID), func(existing, candidate entity.SubtitleBookmark) bool {
		return existing.MediaID == candidate.MediaID && existing.Covers(candidate.SentenceIDs)
	})
}

func (c *Client) LyricBookmarks(lang entity.Language, mediaID string) *Store[entity.LyricBookmark] {
	return NewStore(newLyricRemote(c.Bookmarks.Lyrics, lang, mediaID), func(existing, candidate entity.LyricBookmark) bool {
		return existing.MediaID == candidate.MediaID && existing.Covers(candidate.SentenceIDs)
	})
}

func (c *Client) ReadingBookmarks(lang entity.Language, bookID string) *Store[entity.ReadingBookmark] {
	return NewStore(newReadingRemote(c.Bookmarks.Readings, lang, bookID), func(existing, candidate entity.ReadingBookmark) bool {
		return existing.Matches(candidate.BookID, candidate.SentenceID, candidate.SentenceText)
	})
}

// IsTemporary reports whether id names a bookmark whose create call has not
// completed yet.
func IsTemporary(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

// PendingCount reports how many items of a store snapshot are still local.
func PendingCount[B Bookmark[B]](items []B) int {
	return lo.CountBy(items, func(b B) bool { return IsTemporary(b.GetID()) })
}
