package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/eslsoft/lingocast/internal/entity"
)

// StringList is a JSON array of strings (sentence ids, accepted answers).
type StringList []string

// SentenceSnapshots is the JSON snapshot stored with subtitle and lyric bookmarks.
type SentenceSnapshots []entity.SentenceSnapshot

// Scan implements sql.Scanner
func (v *StringList) Scan(src any) error {
	return scanJSON(src, v, "StringList")
}

// Value implements driver.Valuer
func (v StringList) Value() (driver.Value, error) {
	if v == nil {
		return "[]", nil
	}
	return valueJSON(v)
}

// Scan implements sql.Scanner
func (v *SentenceSnapshots) Scan(src any) error {
	return scanJSON(src, v, "SentenceSnapshots")
}

// Value implements driver.Valuer
func (v SentenceSnapshots) Value() (driver.Value, error) {
	if v == nil {
		return "[]", nil
	}
	return valueJSON(v)
}

// Values are written as text: lib/pq sends []byte parameters as bytea,
// which postgres refuses to cast to json.
func valueJSON(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func scanJSON(src any, dst any, name string) error {
	switch data := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(data) == 0 {
			return nil
		}
		return json.Unmarshal(data, dst)
	case string:
		if data == "" {
			return nil
		}
		return json.Unmarshal([]byte(data), dst)
	default:
		return fmt.Errorf("%s: unsupported src type %T", name, src)
	}
}
