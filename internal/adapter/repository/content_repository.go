package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/samber/lo"

	"github.com/eslsoft/lingocast/internal/entity"
	"github.com/eslsoft/lingocast/internal/repository"
)

const (
	tableMedia     = "media_items"
	tableSentences = "sentences"
	tableWords     = "words"
)

// insertChunk bounds rows per INSERT so sqlite stays under its variable limit.
const insertChunk = 50

var (
	mediaColumns    = []string{"id", "kind", "title", "category", "language", "media_url", "created_at", "updated_at"}
	sentenceColumns = []string{"id", "media_id", "track", "position", "alignment_group", "text", "start_time", "end_time", "bookmarked_english", "bookmarked_transliteration"}
	wordColumns     = []string{"sentence_id", "position", "word_id", "text", "start_time", "end_time", "word_order", "color", "transliteration", "audio_url"}
)

type contentRepository struct {
	store
}

// NewContentRepository constructs an SQL-backed content repository.
func NewContentRepository(drv *entsql.Driver) repository.ContentRepository {
	return &contentRepository{store: newStore(drv)}
}

func (r *contentRepository) SaveMedia(ctx context.Context, item *entity.MediaItem) (*entity.MediaItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	saved := *item
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		previous, err := r.loadFallbacks(ctx, tx, item.ID)
		if err != nil {
			return err
		}

		upsert := r.b.Insert(tableMedia).
			Columns(mediaColumns...).
			Values(item.ID, string(item.Kind), item.Title, item.Category, string(item.Language), item.MediaURL, utc(item.CreatedAt), utc(item.UpdatedAt)).
			OnConflict(
				entsql.ConflictColumns("id"),
				entsql.ResolveWith(func(u *entsql.UpdateSet) {
					for _, col := range []string{"kind", "title", "category", "language", "media_url", "updated_at"} {
						u.SetExcluded(col)
					}
				}),
			)
		if _, err := exec(ctx, tx, upsert); err != nil {
			return fmt.Errorf("upsert media: %w", err)
		}

		if ids := lo.Keys(previous); len(ids) > 0 {
			if _, err := exec(ctx, tx, r.b.Delete(tableWords).Where(entsql.In("sentence_id", lo.ToAnySlice(ids)...))); err != nil {
				return fmt.Errorf("delete words: %w", err)
			}
		}
		if _, err := exec(ctx, tx, r.b.Delete(tableSentences).Where(entsql.EQ("media_id", item.ID))); err != nil {
			return fmt.Errorf("delete sentences: %w", err)
		}

		// Re-importing keeps enrichment already written for a sentence id.
		for _, kind := range entity.TrackKinds {
			sentences := saved.Tracks.Track(kind)
			for i := range sentences {
				if sentences[i].HasFallback() {
					continue
				}
				if fb, ok := previous[sentences[i].ID]; ok {
					sentences[i].BookmarkedEnglish = fb.English
					sentences[i].BookmarkedTransliteration = fb.Transliteration
				}
			}
			if err := r.insertSentences(ctx, tx, item.ID, kind, sentences); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *contentRepository) loadFallbacks(ctx context.Context, q querier, mediaID string) (map[string]repository.SentenceFallback, error) {
	query, args := r.b.Select("id", "bookmarked_english", "bookmarked_transliteration").
		From(r.b.Table(tableSentences)).
		Where(entsql.EQ("media_id", mediaID)).
		Query()
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load sentence fallbacks: %w", err)
	}
	defer rows.Close()

	out := make(map[string]repository.SentenceFallback)
	for rows.Next() {
		var id string
		var fb repository.SentenceFallback
		if err := rows.Scan(&id, &fb.English, &fb.Transliteration); err != nil {
			return nil, fmt.Errorf("scan sentence fallback: %w", err)
		}
		out[id] = fb
	}
	return out, rows.Err()
}

func (r *contentRepository) insertSentences(ctx context.Context, tx *sql.Tx, mediaID string, kind entity.TrackKind, sentences []entity.Sentence) error {
	for _, chunk := range lo.Chunk(lo.Range(len(sentences)), insertChunk) {
		ins := r.b.Insert(tableSentences).Columns(sentenceColumns...)
		for _, i := range chunk {
			s := sentences[i]
			ins.Values(s.ID, mediaID, string(kind), i, s.AlignmentGroup, s.Text, s.Start, s.End, s.BookmarkedEnglish, s.BookmarkedTransliteration)
		}
		if _, err := exec(ctx, tx, ins); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: sentence id already used by another media item", entity.ErrInvalidMedia)
			}
			return fmt.Errorf("insert sentences: %w", err)
		}
	}

	type wordRow struct {
		sentenceID string
		position   int
		word       entity.Word
	}
	var words []wordRow
	for _, s := range sentences {
		for j, w := range s.Words {
			words = append(words, wordRow{sentenceID: s.ID, position: j, word: w})
		}
	}
	for _, chunk := range lo.Chunk(words, insertChunk) {
		ins := r.b.Insert(tableWords).Columns(wordColumns...)
		for _, row := range chunk {
			w := row.word
			ins.Values(row.sentenceID, row.position, w.ID, w.Text, w.Start, w.End, w.Order, w.Color, w.Transliteration, w.AudioURL)
		}
		if _, err := exec(ctx, tx, ins); err != nil {
			return fmt.Errorf("insert words: %w", err)
		}
	}
	return nil
}

func (r *contentRepository) GetMedia(ctx context.Context, id string) (*entity.MediaItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	query, args := r.b.Select(mediaColumns...).
		From(r.b.Table(tableMedia)).
		Where(entsql.EQ("id", id)).
		Query()

	var item entity.MediaItem
	var kind, lang string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&item.ID, &kind, &item.Title, &item.Category, &lang, &item.MediaURL, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrMediaNotFound
		}
		return nil, fmt.Errorf("get media: %w", err)
	}
	item.Kind = entity.MediaKind(kind)
	item.Language = entity.Language(lang)

	sentences, err := r.querySentences(ctx, entsql.EQ("media_id", id))
	if err != nil {
		return nil, err
	}
	t := r.b.Table(tableWords)
	s := r.b.Table(tableSentences)
	wordsSel := r.b.Select(lo.Map(wordColumns, func(c string, _ int) string { return t.C(c) })...).
		From(t).
		Join(s).On(t.C("sentence_id"), s.C("id")).
		Where(entsql.EQ(s.C("media_id"), id)).
		OrderBy(t.C("sentence_id"), t.C("position"))
	if err := r.attachWords(ctx, wordsSel, sentences); err != nil {
		return nil, err
	}

	for _, row := range sentences {
		switch row.track {
		case entity.TrackOriginal:
			item.Tracks.Original = append(item.Tracks.Original, *row.sentence)
		case entity.TrackTranslation:
			item.Tracks.Translation = append(item.Tracks.Translation, *row.sentence)
		case entity.TrackTransliteration:
			item.Tracks.Transliteration = append(item.Tracks.Transliteration, *row.sentence)
		}
	}
	return &item, nil
}

type sentenceRow struct {
	track    entity.TrackKind
	sentence *entity.Sentence
}

func (r *contentRepository) querySentences(ctx context.Context, where *entsql.Predicate) ([]sentenceRow, error) {
	query, args := r.b.Select(sentenceColumns...).
		From(r.b.Table(tableSentences)).
		Where(where).
		OrderBy("media_id", "track", "position").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sentences: %w", err)
	}
	defer rows.Close()

	var out []sentenceRow
	for rows.Next() {
		var s entity.Sentence
		var mediaID, track string
		var position int
		if err := rows.Scan(&s.ID, &mediaID, &track, &position, &s.AlignmentGroup, &s.Text, &s.Start, &s.End, &s.BookmarkedEnglish, &s.BookmarkedTransliteration); err != nil {
			return nil, fmt.Errorf("scan sentence: %w", err)
		}
		out = append(out, sentenceRow{track: entity.TrackKind(track), sentence: &s})
	}
	return out, rows.Err()
}

func (r *contentRepository) attachWords(ctx context.Context, sel *entsql.Selector, sentences []sentenceRow) error {
	byID := make(map[string]*entity.Sentence, len(sentences))
	for _, row := range sentences {
		byID[row.sentence.ID] = row.sentence
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query words: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var w entity.Word
		var sentenceID string
		var position int
		if err := rows.Scan(&sentenceID, &position, &w.ID, &w.Text, &w.Start, &w.End, &w.Order, &w.Color, &w.Transliteration, &w.AudioURL); err != nil {
			return fmt.Errorf("scan word: %w", err)
		}
		if s, ok := byID[sentenceID]; ok {
			s.Words = append(s.Words, w)
		}
	}
	return rows.Err()
}

func (r *contentRepository) ListMedia(ctx context.Context, query *repository.ListMediaQuery) ([]entity.MediaSummary, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if query == nil {
		query = &repository.ListMediaQuery{}
	}
	var fixed []*entsql.Predicate
	if query.Kind != "" {
		fixed = append(fixed, entsql.EQ("kind", string(query.Kind)))
	}
	if query.Language != "" {
		fixed = append(fixed, entsql.EQ("language", string(query.Language)))
	}
	list, err := compileList(tableMedia, &query.FilterOrder, listMediaSchema, fixed...)
	if err != nil {
		return nil, 0, err
	}

	total, err := list.count(ctx, r.store)
	if err != nil {
		return nil, 0, err
	}

	stmt, args := list.selector(r.store, query.Pagination, "id", "kind", "title", "category", "language", "media_url", "created_at").Query()
	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	var items []entity.MediaSummary
	for rows.Next() {
		var m entity.MediaSummary
		var kind, lang string
		if err := rows.Scan(&m.ID, &kind, &m.Title, &m.Category, &lang, &m.MediaURL, &m.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan media: %w", err)
		}
		m.Kind = entity.MediaKind(kind)
		m.Language = entity.Language(lang)
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(items) == 0 {
		return items, total, nil
	}

	counts, err := r.countSentences(ctx, lo.Map(items, func(m entity.MediaSummary, _ int) string { return m.ID }))
	if err != nil {
		return nil, 0, err
	}
	for i := range items {
		items[i].SentenceCount = counts[items[i].ID]
	}
	return items, total, nil
}

func (r *contentRepository) countSentences(ctx context.Context, mediaIDs []string) (map[string]int, error) {
	query, args := r.b.Select("media_id", entsql.Count("*")).
		From(r.b.Table(tableSentences)).
		Where(entsql.And(
			entsql.In("media_id", lo.ToAnySlice(mediaIDs)...),
			entsql.EQ("track", string(entity.TrackOriginal)),
		)).
		GroupBy("media_id").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("count sentences: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int, len(mediaIDs))
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan sentence count: %w", err)
		}
		out[id] = n
	}
	return out, rows.Err()
}

func (r *contentRepository) GetSentences(ctx context.Context, ids []string) (map[string]entity.Sentence, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make(map[string]entity.Sentence, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	sentences, err := r.querySentences(ctx, entsql.In("id", lo.ToAnySlice(ids)...))
	if err != nil {
		return nil, err
	}
	wordsSel := r.b.Select(wordColumns...).
		From(r.b.Table(tableWords)).
		Where(entsql.In("sentence_id", lo.ToAnySlice(ids)...)).
		OrderBy("sentence_id", "position")
	if err := r.attachWords(ctx, wordsSel, sentences); err != nil {
		return nil, err
	}
	for _, row := range sentences {
		out[row.sentence.ID] = *row.sentence
	}
	return out, nil
}

// SetSentenceFallback only writes when both fallback columns are still empty,
// so concurrent first bookmarks cannot overwrite each other.
func (r *contentRepository) SetSentenceFallback(ctx context.Context, sentenceID string, fallback repository.SentenceFallback) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	upd := r.b.Update(tableSentences).
		Set("bookmarked_english", fallback.English).
		Set("bookmarked_transliteration", fallback.Transliteration).
		Where(entsql.And(
			entsql.EQ("id", sentenceID),
			entsql.EQ("bookmarked_english", ""),
			entsql.EQ("bookmarked_transliteration", ""),
		))
	if _, err := exec(ctx, r.db, upd); err != nil {
		return fmt.Errorf("set sentence fallback: %w", err)
	}
	return nil
}
