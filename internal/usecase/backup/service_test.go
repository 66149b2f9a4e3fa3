package backup

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"testing"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	_ "github.com/mattn/go-sqlite3"

	adapterrepo "github.com/eslsoft/lingocast/internal/adapter/repository"
	"github.com/eslsoft/lingocast/internal/entity"
	"github.com/eslsoft/lingocast/internal/infrastructure/database"
	"github.com/eslsoft/lingocast/internal/repository"
)

var seededAt = time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC)

func openDriver(t *testing.T, name string) *entsql.Driver {
	t.Helper()
	db, err := sql.Open("sqlite3", "file:"+name+"?mode=memory&cache=shared&_fk=1")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	drv := entsql.OpenDB("sqlite3", db)
	if err := database.Migrate(context.Background(), drv); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return drv
}

func seedData(t *testing.T, ctx context.Context, drv *entsql.Driver) {
	t.Helper()
	media := &entity.MediaItem{
		ID:        "video-1",
		Kind:      entity.MediaKindVideo,
		Title:     "Greetings",
		Language:  entity.LanguageSpanish,
		CreatedAt: seededAt,
		UpdatedAt: seededAt,
		Tracks: entity.Tracks{
			Original: []entity.Sentence{{
				ID: "s1", AlignmentGroup: 1, Text: "hola amigo", Start: 2, End: 5,
				Words: []entity.Word{
					{ID: "w1", Text: "hola", Start: 2, End: 3, Order: 1},
					{ID: "w2", Text: "amigo", Start: 3, End: 5, Order: 2},
				},
			}},
		},
	}
	if _, err := adapterrepo.NewContentRepository(drv).SaveMedia(ctx, media); err != nil {
		t.Fatalf("seed media: %v", err)
	}
	_, err := adapterrepo.NewSubtitleBookmarkRepository(drv).Create(ctx, &entity.SubtitleBookmark{
		ID:       "bm-1",
		UserID:   7,
		Language: entity.LanguageSpanish,
		SentenceGroup: entity.SentenceGroup{
			MediaID:     "video-1",
			SentenceIDs: []string{"s1"},
			Sentences:   []entity.SentenceSnapshot{{SentenceID: "s1", Text: "hola amigo"}},
			Start:       2,
			End:         5,
		},
		CreatedAt: seededAt,
	})
	if err != nil {
		t.Fatalf("seed bookmark: %v", err)
	}
}

func TestServiceExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := openDriver(t, "backup_roundtrip_src")
	seedData(t, ctx, src)

	exporter, err := NewService(src)
	if err != nil {
		t.Fatalf("new exporter: %v", err)
	}
	var buf bytes.Buffer
	if err := exporter.Export(ctx, &buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	dst := openDriver(t, "backup_roundtrip_dst")
	importer, err := NewService(dst)
	if err != nil {
		t.Fatalf("new importer: %v", err)
	}
	if err := importer.Import(ctx, bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	got, err := adapterrepo.NewContentRepository(dst).GetMedia(ctx, "video-1")
	if err != nil {
		t.Fatalf("get media after import: %v", err)
	}
	if got.Title != "Greetings" || !got.CreatedAt.Equal(seededAt) {
		t.Fatalf("media mismatch after import: %+v", got)
	}
	if len(got.Tracks.Original) != 1 || len(got.Tracks.Original[0].Words) != 2 {
		t.Fatalf("tracks mismatch after import: %+v", got.Tracks)
	}

	bookmarks, total, err := adapterrepo.NewSubtitleBookmarkRepository(dst).List(ctx, &repository.ListBookmarkQuery{UserID: 7})
	if err != nil {
		t.Fatalf("list bookmarks after import: %v", err)
	}
	if total != 1 || len(bookmarks[0].SentenceIDs) != 1 || bookmarks[0].Sentences[0].Text != "hola amigo" {
		t.Fatalf("bookmark mismatch after import: %+v", bookmarks)
	}

	// A second import upserts instead of failing on primary keys.
	if err := importer.Import(ctx, bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("re-import failed: %v", err)
	}
}

func TestServiceExportTablesFilter(t *testing.T) {
	ctx := context.Background()
	src := openDriver(t, "backup_filter_src")
	seedData(t, ctx, src)

	svc, err := NewService(src, WithBatchSize(1))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	var buf bytes.Buffer
	if err := svc.Export(ctx, &buf, WithTables([]string{"media_items", "sentences", "words"})); err != nil {
		t.Fatalf("filtered export failed: %v", err)
	}

	types := map[string]int{}
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var rec record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("decode line: %v", err)
		}
		types[rec.Type]++
	}
	if types[metaType] != 1 || types["media_items"] != 1 || types["sentences"] != 1 || types["words"] != 2 {
		t.Fatalf("unexpected record counts: %v", types)
	}
	if types["subtitle_bookmarks"] != 0 {
		t.Fatalf("bookmarks should be filtered out: %v", types)
	}
}

func TestServiceRejectsUnknownTable(t *testing.T) {
	svc, err := NewService(openDriver(t, "backup_unknown"))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if err := svc.Export(context.Background(), &bytes.Buffer{}, WithTables([]string{"users"})); err == nil {
		t.Fatalf("expected unsupported table error")
	}
	if _, err := svc.selectTables([]TableOption{WithTables([]string{" "})}); err != errNoTablesSelected {
		t.Fatalf("expected errNoTablesSelected, got %v", err)
	}
}

func TestServiceImportRequiresMeta(t *testing.T) {
	svc, err := NewService(openDriver(t, "backup_meta"))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	row := `{"type":"lessons","payload":{"id":"l1","title":"x","language":"es","created_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-01T00:00:00Z"}}`
	if err := svc.Import(context.Background(), strings.NewReader(row+"\n")); err == nil {
		t.Fatalf("expected error for rows without meta record")
	}
	if err := svc.Import(context.Background(), strings.NewReader(`{"type":"meta","version":99}`+"\n")); err == nil {
		t.Fatalf("expected unsupported version error")
	}
}
