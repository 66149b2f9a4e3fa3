package filterexpr

import (
	"errors"
	"fmt"
	"strings"
)

// OrderTerm is one ORDER BY column.
type OrderTerm struct {
	Column string
	Desc   bool
}

// OrderSchema whitelists order keys (key -> column) and sets the defaults.
// The fallback key is always appended last so pagination is stable.
type OrderSchema struct {
	DefaultKey   string
	DefaultDesc  bool
	FallbackKey  string
	FallbackDesc bool
	Fields       map[string]string
}

func (s OrderSchema) column(key string) string {
	if col := s.Fields[key]; col != "" {
		return col
	}
	return key
}

func parseOrderBy(raw string, schema OrderSchema) ([]OrderTerm, error) {
	if schema.DefaultKey == "" || schema.FallbackKey == "" {
		return nil, errors.New("order schema requires default and fallback keys")
	}
	for _, key := range []string{schema.DefaultKey, schema.FallbackKey} {
		if _, ok := schema.Fields[key]; !ok {
			return nil, fmt.Errorf("order key %q missing from schema fields", key)
		}
	}

	type keyed struct {
		key  string
		desc bool
	}
	var keys []keyed
	seen := make(map[string]struct{})
	for _, seg := range strings.Split(raw, ",") {
		parts := strings.Fields(seg)
		if len(parts) == 0 {
			continue
		}
		key := parts[0]
		if _, ok := schema.Fields[key]; !ok {
			return nil, fmt.Errorf("field %q cannot be used for ordering", key)
		}

		var desc bool
		switch len(parts) {
		case 1:
		case 2:
			switch strings.ToLower(parts[1]) {
			case "asc":
			case "desc":
				desc = true
			default:
				return nil, fmt.Errorf("invalid direction %q for field %q", parts[1], key)
			}
		default:
			return nil, fmt.Errorf("invalid order segment %q", strings.TrimSpace(seg))
		}

		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("duplicate order key %q", key)
		}
		seen[key] = struct{}{}
		keys = append(keys, keyed{key: key, desc: desc})
	}

	if len(keys) == 0 {
		keys = append(keys, keyed{key: schema.DefaultKey, desc: schema.DefaultDesc})
		seen[schema.DefaultKey] = struct{}{}
	}
	if _, ok := seen[schema.FallbackKey]; !ok {
		keys = append(keys, keyed{key: schema.FallbackKey, desc: schema.FallbackDesc})
	}

	terms := make([]OrderTerm, len(keys))
	for i, k := range keys {
		terms[i] = OrderTerm{Column: schema.column(k.key), Desc: k.desc}
	}
	return terms, nil
}
