package types

import (
	"testing"

	"github.com/eslsoft/lingocast/internal/entity"
)

func TestSentenceSnapshotsScanAcceptsDriverShapes(t *testing.T) {
	raw := `[{"sentence_id":"s1","text":"hi","translations":[{"text":"hola"}]}]`
	for _, src := range []any{raw, []byte(raw)} {
		var got SentenceSnapshots
		if err := got.Scan(src); err != nil {
			t.Fatalf("scan %T: %v", src, err)
		}
		if len(got) != 1 || got[0].SentenceID != "s1" || got[0].Translations[0].Text != "hola" {
			t.Fatalf("unexpected snapshots %+v", got)
		}
	}

	var empty SentenceSnapshots
	if err := empty.Scan(nil); err != nil || empty != nil {
		t.Fatalf("expected nil for NULL, got %v err=%v", empty, err)
	}
	if err := empty.Scan(42); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}

func TestValueIsText(t *testing.T) {
	v, err := StringList(nil).Value()
	if err != nil || v != "[]" {
		t.Fatalf("expected [] for nil list, got %v err=%v", v, err)
	}
	v, err = SentenceSnapshots{{SentenceID: "s1", Words: []entity.WordSnapshot{{Text: "a"}}}}.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if _, ok := v.(string); !ok {
		t.Fatalf("expected string driver value, got %T", v)
	}
}
