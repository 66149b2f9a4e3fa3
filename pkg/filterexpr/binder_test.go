package filterexpr

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"
)

var bookmarkSchema = ResourceSchema{
	Filter: map[string]FilterField{
		"language": {
			Column: "language",
			Kind:   KindString,
			Ops:    []Op{OpEQ, OpIN},
		},
		"start": {
			Column: "start_time",
			Kind:   KindNumber,
			Ops:    []Op{OpGTE, OpLTE},
		},
		"media_id": {
			Kind: KindString,
			Ops:  []Op{OpEQ, OpSW},
		},
		"created_at": {
			Kind: KindTimestamp,
			Ops:  []Op{OpGTE, OpLTE},
		},
	},
	Order: OrderSchema{
		DefaultKey:   "created_at",
		DefaultDesc:  true,
		FallbackKey:  "id",
		FallbackDesc: true,
		Fields: map[string]string{
			"created_at": "created_at",
			"start":      "start_time",
			"id":         "id",
		},
	},
}

type listMsg struct {
	filter  string
	orderBy string
}

func (m listMsg) GetFilter() string  { return m.filter }
func (m listMsg) GetOrderBy() string { return m.orderBy }

func TestCompileFilterConjunction(t *testing.T) {
	timestamp := "2025-01-01T00:00:00Z"
	filter := fmt.Sprintf("language == 'ja' && start <= 120 && media_id.startsWith('song-') && created_at >= timestamp('%s')", timestamp)

	conds, err := CompileFilter(filter, bookmarkSchema.Filter)
	if err != nil {
		t.Fatalf("CompileFilter returned error: %v", err)
	}
	if len(conds) != 4 {
		t.Fatalf("expected 4 conditions, got %d", len(conds))
	}

	if conds[0] != (Condition{Field: "language", Column: "language", Op: OpEQ, Value: "ja"}) {
		t.Fatalf("unexpected language condition %+v", conds[0])
	}
	if conds[1].Column != "start_time" || conds[1].Op != OpLTE || conds[1].Value != float64(120) {
		t.Fatalf("unexpected start condition %+v", conds[1])
	}
	if conds[2].Column != "media_id" || conds[2].Op != OpSW || conds[2].Value != "song-" {
		t.Fatalf("expected column to default to field name, got %+v", conds[2])
	}
	want, _ := time.Parse(time.RFC3339, timestamp)
	if got, ok := conds[3].Value.(time.Time); !ok || !got.Equal(want) {
		t.Fatalf("expected timestamp %v, got %v", want, conds[3].Value)
	}
}

func TestCompileFilterInOperator(t *testing.T) {
	conds, err := CompileFilter("language in ['ja', 'ko']", bookmarkSchema.Filter)
	if err != nil {
		t.Fatalf("CompileFilter returned error: %v", err)
	}
	if len(conds) != 1 || !reflect.DeepEqual(conds[0].Value, []string{"ja", "ko"}) {
		t.Fatalf("unexpected conditions %+v", conds)
	}
}

func TestCompileFilterEmpty(t *testing.T) {
	conds, err := CompileFilter("   ", bookmarkSchema.Filter)
	if err != nil || conds != nil {
		t.Fatalf("expected no conditions, got %v err=%v", conds, err)
	}
}

func TestCompileFilterErrors(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		want   string
	}{
		{"unsupported field", "unknown == 'x'", "not allowed"},
		{"unsupported operator", "language <= 'A'", "operator"},
		{"bad literal type", "language == 1", "expected string"},
		{"bad logical op", "language == 'ja' || start <= 10", "only AND"},
		{"non literal", "start <= foo", "right-hand side"},
		{"list of numbers", "language in [1]", "list literal elements must be strings"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CompileFilter(tc.filter, bookmarkSchema.Filter)
			if err == nil {
				t.Fatalf("expected error for %q", tc.filter)
			}
			if !strings.Contains(strings.ToLower(err.Error()), strings.ToLower(tc.want)) {
				t.Fatalf("expected error to contain %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCompileOrder(t *testing.T) {
	tests := []struct {
		orderBy string
		want    []OrderTerm
	}{
		{"", []OrderTerm{{Column: "created_at", Desc: true}, {Column: "id", Desc: true}}},
		{"start asc", []OrderTerm{{Column: "start_time"}, {Column: "id", Desc: true}}},
		{"start desc, id asc", []OrderTerm{{Column: "start_time", Desc: true}, {Column: "id"}}},
	}
	for _, tc := range tests {
		q, err := Compile(listMsg{orderBy: tc.orderBy}, bookmarkSchema)
		if err != nil {
			t.Fatalf("order %q: %v", tc.orderBy, err)
		}
		if !reflect.DeepEqual(q.Order, tc.want) {
			t.Fatalf("order %q: expected %+v, got %+v", tc.orderBy, tc.want, q.Order)
		}
	}

	for _, bad := range []string{"nope", "start sideways", "start, start", "start desc extra"} {
		if _, err := Compile(listMsg{orderBy: bad}, bookmarkSchema); err == nil {
			t.Fatalf("expected error for order_by %q", bad)
		}
	}
}
