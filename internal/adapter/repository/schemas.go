package repository

import "github.com/eslsoft/lingocast/pkg/filterexpr"

var listMediaSchema = filterexpr.ResourceSchema{
	Filter: map[string]filterexpr.FilterField{
		"kind": {
			Kind: filterexpr.KindString,
			Ops:  []filterexpr.Op{filterexpr.OpEQ, filterexpr.OpIN},
		},
		"language": {
			Kind: filterexpr.KindString,
			Ops:  []filterexpr.Op{filterexpr.OpEQ, filterexpr.OpIN},
		},
		"category": {
			Kind: filterexpr.KindString,
			Ops:  []filterexpr.Op{filterexpr.OpEQ, filterexpr.OpSW},
		},
		"title": {
			Kind: filterexpr.KindString,
			Ops:  []filterexpr.Op{filterexpr.OpSW},
		},
		"created_at": {
			Kind: filterexpr.KindTimestamp,
			Ops:  []filterexpr.Op{filterexpr.OpGTE, filterexpr.OpLTE},
		},
	},
	Order: filterexpr.OrderSchema{
		DefaultKey:  "created_at",
		DefaultDesc: true,
		FallbackKey: "id",
		Fields: map[string]string{
			"created_at": "created_at",
			"title":      "title",
			"id":         "id",
		},
	},
}

// bookmarkSchema builds the list schema shared by the bookmark tables; scope
// names the column holding the lesson, media or book id.
func bookmarkSchema(scope string, extra map[string]filterexpr.FilterField) filterexpr.ResourceSchema {
	fields := map[string]filterexpr.FilterField{
		"language": {
			Kind: filterexpr.KindString,
			Ops:  []filterexpr.Op{filterexpr.OpEQ, filterexpr.OpIN},
		},
		scope: {
			Kind: filterexpr.KindString,
			Ops:  []filterexpr.Op{filterexpr.OpEQ, filterexpr.OpIN, filterexpr.OpSW},
		},
		"created_at": {
			Kind: filterexpr.KindTimestamp,
			Ops:  []filterexpr.Op{filterexpr.OpGTE, filterexpr.OpLTE},
		},
	}
	for name, f := range extra {
		fields[name] = f
	}
	return filterexpr.ResourceSchema{
		Filter: fields,
		Order: filterexpr.OrderSchema{
			DefaultKey:   "created_at",
			DefaultDesc:  true,
			FallbackKey:  "id",
			FallbackDesc: true,
			Fields: map[string]string{
				"created_at": "created_at",
				"id":         "id",
			},
		},
	}
}

var (
	listQuestionBookmarksSchema = bookmarkSchema("lesson_id", map[string]filterexpr.FilterField{
		"question_id": {Kind: filterexpr.KindString, Ops: []filterexpr.Op{filterexpr.OpEQ, filterexpr.OpIN}},
	})
	listSentenceGroupBookmarksSchema = bookmarkSchema("media_id", map[string]filterexpr.FilterField{
		"start": {Column: "start_time", Kind: filterexpr.KindNumber, Ops: []filterexpr.Op{filterexpr.OpGTE, filterexpr.OpLTE}},
		"end":   {Column: "end_time", Kind: filterexpr.KindNumber, Ops: []filterexpr.Op{filterexpr.OpGTE, filterexpr.OpLTE}},
	})
	listReadingBookmarksSchema = bookmarkSchema("book_id", map[string]filterexpr.FilterField{
		"sentence_id": {Kind: filterexpr.KindString, Ops: []filterexpr.Op{filterexpr.OpEQ, filterexpr.OpIN}},
	})
)
