package entity

import "testing"

func TestSubtitleCoversIsSupersetMatch(t *testing.T) {
	b1 := SubtitleBookmark{ID: "b1", SentenceGroup: SentenceGroup{SentenceIDs: []string{"x", "y", "z"}}}

	if !b1.Covers([]string{"x", "y"}) {
		t.Fatalf("expected {x,y,z} to cover {x,y}")
	}
	if b1.Covers([]string{"x", "y", "w"}) {
		t.Fatalf("expected {x,y,z} not to cover {x,y,w}")
	}
	if b1.Covers(nil) {
		t.Fatalf("empty candidate must never match")
	}

	narrow := SubtitleBookmark{SentenceGroup: SentenceGroup{SentenceIDs: []string{"x", "y"}}}
	if narrow.Covers([]string{"x", "y", "z"}) {
		t.Fatalf("superset matching must be asymmetric")
	}

	found, ok := FindSubtitleBookmark([]SubtitleBookmark{narrow, b1}, []string{"z"})
	if !ok || found.ID != "b1" {
		t.Fatalf("expected b1, got %+v ok=%v", found, ok)
	}
}

func TestFindLyricBookmark(t *testing.T) {
	marks := []LyricBookmark{{ID: "l1", SentenceGroup: SentenceGroup{SentenceIDs: []string{"a"}}}}
	if _, ok := FindLyricBookmark(marks, []string{"b"}); ok {
		t.Fatalf("unexpected match")
	}
	if got, ok := FindLyricBookmark(marks, []string{"a"}); !ok || got.ID != "l1" {
		t.Fatalf("expected l1, got %+v", got)
	}
}

func TestFindQuestionBookmark(t *testing.T) {
	marks := []QuestionBookmark{
		{ID: "1", LessonID: "L1", QuestionID: "Q1"},
		{ID: "2", LessonID: "L2", QuestionID: "Q1"},
	}
	if got, ok := FindQuestionBookmark(marks, "L2", "Q1"); !ok || got.ID != "2" {
		t.Fatalf("expected bookmark 2, got %+v", got)
	}
	if _, ok := FindQuestionBookmark(marks, "L1", "Q2"); ok {
		t.Fatalf("unexpected match for L1/Q2")
	}
}

func TestReadingBookmarkMatchesByIDWithTextFallback(t *testing.T) {
	stable := ReadingBookmark{ID: "r1", BookID: "b", SentenceID: "s1", SentenceText: "Hello."}
	legacy := ReadingBookmark{ID: "r2", BookID: "b", SentenceText: "Bye."}

	if !stable.Matches("b", "s1", "changed text") {
		t.Fatalf("stable id must match regardless of text")
	}
	if stable.Matches("b", "s2", "Hello.") {
		t.Fatalf("different sentence id must not match on text")
	}
	if !legacy.Matches("b", "s9", "Bye.") {
		t.Fatalf("legacy bookmark should match on text")
	}
	if legacy.Matches("other", "s9", "Bye.") {
		t.Fatalf("book id must match")
	}
	if _, ok := FindReadingBookmark([]ReadingBookmark{stable, legacy}, "b", "", ""); ok {
		t.Fatalf("blank candidate must not match")
	}
}

func TestSentenceSnapshotFallbackText(t *testing.T) {
	snap := SentenceSnapshot{
		SentenceID:   "s1",
		Text:         "こんにちは 世界",
		Words:        []WordSnapshot{{Text: "こんにちは", Transliteration: "konnichiwa"}, {Text: "世界"}},
		Translations: []WordSnapshot{{Text: "hello"}, {Text: " "}, {Text: "world"}},
	}
	english, translit := snap.FallbackText()
	if english != "hello world" {
		t.Fatalf("unexpected english %q", english)
	}
	if translit != "konnichiwa 世界" {
		t.Fatalf("unexpected transliteration %q", translit)
	}
}

func TestTracksSnapshotOfUsesAlignmentGroups(t *testing.T) {
	tracks := Tracks{
		Original: []Sentence{
			{ID: "a", AlignmentGroup: 1, Text: "안녕", Words: []Word{{Text: "안녕"}}},
			{ID: "b", AlignmentGroup: 2, Text: "친구"},
		},
		Translation:     []Sentence{{ID: "tb", AlignmentGroup: 2, Text: "friend"}},
		Transliteration: []Sentence{{ID: "rb", AlignmentGroup: 2, Text: "chingu"}},
	}
	if _, ok := tracks.SnapshotOf("tb"); ok {
		t.Fatalf("only original sentences are snapshotted")
	}
	a, ok := tracks.SnapshotOf("a")
	if !ok || len(a.Translations) != 0 || a.Transliteration != "" {
		t.Fatalf("unexpected snapshot for a: %+v", a)
	}
	b, _ := tracks.SnapshotOf("b")
	english, translit := b.FallbackText()
	if english != "friend" || translit != "chingu" {
		t.Fatalf("unexpected fallback %q / %q", english, translit)
	}
}

func TestSentenceGroupNormalize(t *testing.T) {
	g := SentenceGroup{MediaID: " m1 ", SentenceIDs: []string{" a", "b", "", "a"}}
	g.Normalize()
	if g.MediaID != "m1" || len(g.SentenceIDs) != 2 || g.SentenceIDs[0] != "a" || g.SentenceIDs[1] != "b" {
		t.Fatalf("unexpected normalized group %+v", g)
	}
}
