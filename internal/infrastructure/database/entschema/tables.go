// Package entschema declares the SQL tables as ent migration schemas.
package entschema

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// MediaItemsColumns holds the columns for the "media_items" table.
	MediaItemsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 128},
		{Name: "kind", Type: field.TypeString, Size: 32},
		{Name: "title", Type: field.TypeString},
		{Name: "category", Type: field.TypeString, Default: ""},
		{Name: "language", Type: field.TypeString, Size: 16},
		{Name: "media_url", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// MediaItemsTable holds the schema information for the "media_items" table.
	MediaItemsTable = &schema.Table{
		Name:       "media_items",
		Columns:    MediaItemsColumns,
		PrimaryKey: []*schema.Column{MediaItemsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "mediaitem_kind_language", Columns: []*schema.Column{MediaItemsColumns[1], MediaItemsColumns[4]}},
		},
	}

	// SentencesColumns holds the columns for the "sentences" table.
	SentencesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 128},
		{Name: "media_id", Type: field.TypeString, Size: 128},
		{Name: "track", Type: field.TypeString, Size: 32},
		{Name: "position", Type: field.TypeInt},
		{Name: "alignment_group", Type: field.TypeInt},
		{Name: "text", Type: field.TypeString, Size: 2147483647},
		{Name: "start_time", Type: field.TypeFloat64},
		{Name: "end_time", Type: field.TypeFloat64},
		{Name: "bookmarked_english", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "bookmarked_transliteration", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	// SentencesTable holds the schema information for the "sentences" table.
	SentencesTable = &schema.Table{
		Name:       "sentences",
		Columns:    SentencesColumns,
		PrimaryKey: []*schema.Column{SentencesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "sentences_media_items_sentences",
				Columns:    []*schema.Column{SentencesColumns[1]},
				RefColumns: []*schema.Column{MediaItemsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "sentence_media_id_track_position", Unique: true, Columns: []*schema.Column{SentencesColumns[1], SentencesColumns[2], SentencesColumns[3]}},
		},
	}

	// WordsColumns holds the columns for the "words" table.
	WordsColumns = []*schema.Column{
		{Name: "sentence_id", Type: field.TypeString, Size: 128},
		{Name: "position", Type: field.TypeInt},
		{Name: "word_id", Type: field.TypeString, Default: ""},
		{Name: "text", Type: field.TypeString},
		{Name: "start_time", Type: field.TypeFloat64},
		{Name: "end_time", Type: field.TypeFloat64},
		{Name: "word_order", Type: field.TypeInt},
		{Name: "color", Type: field.TypeString, Default: ""},
		{Name: "transliteration", Type: field.TypeString, Default: ""},
		{Name: "audio_url", Type: field.TypeString, Default: ""},
	}
	// WordsTable holds the schema information for the "words" table.
	WordsTable = &schema.Table{
		Name:       "words",
		Columns:    WordsColumns,
		PrimaryKey: []*schema.Column{WordsColumns[0], WordsColumns[1]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "words_sentences_words",
				Columns:    []*schema.Column{WordsColumns[0]},
				RefColumns: []*schema.Column{SentencesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// LessonsColumns holds the columns for the "lessons" table.
	LessonsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 128},
		{Name: "title", Type: field.TypeString},
		{Name: "language", Type: field.TypeString, Size: 16},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// LessonsTable holds the schema information for the "lessons" table.
	LessonsTable = &schema.Table{
		Name:       "lessons",
		Columns:    LessonsColumns,
		PrimaryKey: []*schema.Column{LessonsColumns[0]},
	}

	// QuestionsColumns holds the columns for the "questions" table.
	QuestionsColumns = []*schema.Column{
		{Name: "lesson_id", Type: field.TypeString, Size: 128},
		{Name: "id", Type: field.TypeString, Size: 128},
		{Name: "question_order", Type: field.TypeInt},
		{Name: "prompt", Type: field.TypeString, Size: 2147483647},
		{Name: "answers", Type: field.TypeJSON},
		{Name: "audio_url", Type: field.TypeString, Default: ""},
	}
	// QuestionsTable holds the schema information for the "questions" table.
	QuestionsTable = &schema.Table{
		Name:       "questions",
		Columns:    QuestionsColumns,
		PrimaryKey: []*schema.Column{QuestionsColumns[0], QuestionsColumns[1]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "questions_lessons_questions",
				Columns:    []*schema.Column{QuestionsColumns[0]},
				RefColumns: []*schema.Column{LessonsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// QuestionBookmarksColumns holds the columns for the "question_bookmarks" table.
	QuestionBookmarksColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 64},
		{Name: "user_id", Type: field.TypeInt64},
		{Name: "lesson_id", Type: field.TypeString, Size: 128},
		{Name: "question_id", Type: field.TypeString, Size: 128},
		{Name: "language", Type: field.TypeString, Size: 16},
		{Name: "prompt", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "answer", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "audio_url", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	// QuestionBookmarksTable holds the schema information for the "question_bookmarks" table.
	QuestionBookmarksTable = &schema.Table{
		Name:       "question_bookmarks",
		Columns:    QuestionBookmarksColumns,
		PrimaryKey: []*schema.Column{QuestionBookmarksColumns[0]},
		Indexes: []*schema.Index{
			{Name: "questionbookmark_user_id_lesson_id_question_id", Unique: true, Columns: []*schema.Column{QuestionBookmarksColumns[1], QuestionBookmarksColumns[2], QuestionBookmarksColumns[3]}},
		},
	}

	// SubtitleBookmarksColumns holds the columns for the "subtitle_bookmarks" table.
	SubtitleBookmarksColumns = sentenceGroupColumns()
	// SubtitleBookmarksTable holds the schema information for the "subtitle_bookmarks" table.
	SubtitleBookmarksTable = sentenceGroupTable("subtitle_bookmarks", "subtitlebookmark", SubtitleBookmarksColumns)

	// LyricBookmarksColumns holds the columns for the "lyric_bookmarks" table.
	LyricBookmarksColumns = sentenceGroupColumns()
	// LyricBookmarksTable holds the schema information for the "lyric_bookmarks" table.
	LyricBookmarksTable = sentenceGroupTable("lyric_bookmarks", "lyricbookmark", LyricBookmarksColumns)

	// ReadingBookmarksColumns holds the columns for the "reading_bookmarks" table.
	ReadingBookmarksColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 64},
		{Name: "user_id", Type: field.TypeInt64},
		{Name: "book_id", Type: field.TypeString, Size: 128},
		{Name: "sentence_id", Type: field.TypeString, Size: 128, Default: ""},
		{Name: "sentence_text", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "translation", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "language", Type: field.TypeString, Size: 16},
		{Name: "created_at", Type: field.TypeTime},
	}
	// ReadingBookmarksTable holds the schema information for the "reading_bookmarks" table.
	ReadingBookmarksTable = &schema.Table{
		Name:       "reading_bookmarks",
		Columns:    ReadingBookmarksColumns,
		PrimaryKey: []*schema.Column{ReadingBookmarksColumns[0]},
		Indexes: []*schema.Index{
			{Name: "readingbookmark_user_id_language_book_id", Columns: []*schema.Column{ReadingBookmarksColumns[1], ReadingBookmarksColumns[6], ReadingBookmarksColumns[2]}},
		},
	}

	// MediaProgressColumns holds the columns for the "media_progress" table.
	MediaProgressColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeInt64},
		{Name: "media_id", Type: field.TypeString, Size: 128},
		{Name: "status", Type: field.TypeString, Size: 32},
		{Name: "started_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// MediaProgressTable holds the schema information for the "media_progress" table.
	MediaProgressTable = &schema.Table{
		Name:       "media_progress",
		Columns:    MediaProgressColumns,
		PrimaryKey: []*schema.Column{MediaProgressColumns[0], MediaProgressColumns[1]},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		MediaItemsTable,
		SentencesTable,
		WordsTable,
		LessonsTable,
		QuestionsTable,
		QuestionBookmarksTable,
		SubtitleBookmarksTable,
		LyricBookmarksTable,
		ReadingBookmarksTable,
		MediaProgressTable,
	}
)

// Subtitle and lyric bookmarks share one layout.
func sentenceGroupColumns() []*schema.Column {
	return []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 64},
		{Name: "user_id", Type: field.TypeInt64},
		{Name: "language", Type: field.TypeString, Size: 16},
		{Name: "media_id", Type: field.TypeString, Size: 128},
		{Name: "sentence_ids", Type: field.TypeJSON},
		{Name: "sentences", Type: field.TypeJSON},
		{Name: "audio_url", Type: field.TypeString, Default: ""},
		{Name: "start_time", Type: field.TypeFloat64, Default: 0},
		{Name: "end_time", Type: field.TypeFloat64, Default: 0},
		{Name: "created_at", Type: field.TypeTime},
	}
}

func sentenceGroupTable(name, indexPrefix string, columns []*schema.Column) *schema.Table {
	return &schema.Table{
		Name:       name,
		Columns:    columns,
		PrimaryKey: []*schema.Column{columns[0]},
		Indexes: []*schema.Index{
			{Name: indexPrefix + "_user_id_language_media_id", Columns: []*schema.Column{columns[1], columns[2], columns[3]}},
		},
	}
}

func init() {
	SentencesTable.ForeignKeys[0].RefTable = MediaItemsTable
	WordsTable.ForeignKeys[0].RefTable = SentencesTable
	QuestionsTable.ForeignKeys[0].RefTable = LessonsTable
}
