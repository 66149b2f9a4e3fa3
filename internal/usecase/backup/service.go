// Package backup streams the lingocast tables to and from newline-delimited
// JSON. The first line is a meta record; every following line holds one row.
package backup

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/lingocast/internal/infrastructure/database/entschema"
)

const (
	defaultBatchSize = 512
	formatVersion    = 1
	metaType         = "meta"
)

var errNoTablesSelected = errors.New("backup: no tables selected")

type Service struct {
	drv        *entsql.Driver
	b          *entsql.DialectBuilder
	batchSize  int
	tables     []*schema.Table
	schemaHash string
	logger     logrus.FieldLogger
}

type Option func(*Service)

func WithBatchSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.batchSize = size
		}
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService binds a backup service to an open driver. Tables are processed
// in the migration order, which puts parents before children.
func NewService(drv *entsql.Driver, opts ...Option) (*Service, error) {
	if drv == nil {
		return nil, errors.New("backup: driver is required")
	}
	tables, err := schema.CopyTables(entschema.Tables)
	if err != nil {
		return nil, fmt.Errorf("copy schema tables: %w", err)
	}
	svc := &Service{
		drv:        drv,
		b:          entsql.Dialect(drv.Dialect()),
		batchSize:  defaultBatchSize,
		tables:     tables,
		schemaHash: computeSchemaHash(tables),
		logger:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// TableOption narrows an export or import to some tables.
type TableOption func(*tableSelection)

type tableSelection struct {
	names []string
}

// WithTables restricts the call to the given table names.
func WithTables(names []string) TableOption {
	return func(sel *tableSelection) {
		sel.names = append(sel.names, names...)
	}
}

type record struct {
	Type       string          `json:"type"`
	Version    int             `json:"version,omitempty"`
	ExportedAt *time.Time      `json:"exported_at,omitempty"`
	SchemaHash string          `json:"schema_hash,omitempty"`
	Tables     []string        `json:"tables,omitempty"`
	RowCounts  map[string]int  `json:"row_counts,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// Export writes the meta record followed by every row of the selected tables.
func (s *Service) Export(ctx context.Context, w io.Writer, opts ...TableOption) error {
	tables, err := s.selectTables(opts)
	if err != nil {
		return err
	}
	db := s.drv.DB()

	counts := make(map[string]int, len(tables))
	for _, tbl := range tables {
		if counts[tbl.Name], err = s.countRows(ctx, db, tbl); err != nil {
			return fmt.Errorf("count table %s: %w", tbl.Name, err)
		}
	}

	writer := bufio.NewWriter(w)
	now := time.Now().UTC()
	meta := record{
		Type:       metaType,
		Version:    formatVersion,
		ExportedAt: &now,
		SchemaHash: s.schemaHash,
		Tables:     lo.Map(tables, func(t *schema.Table, _ int) string { return t.Name }),
		RowCounts:  counts,
	}
	if err := writeRecord(writer, meta); err != nil {
		return err
	}
	for _, tbl := range tables {
		if err := s.exportTable(ctx, db, tbl, writer); err != nil {
			return err
		}
		s.logger.WithFields(logrus.Fields{"table": tbl.Name, "rows": counts[tbl.Name]}).Info("table exported")
	}
	return writer.Flush()
}

// Import upserts every row of the selected tables in one transaction. Rows of
// other tables are skipped.
func (s *Service) Import(ctx context.Context, r io.Reader, opts ...TableOption) error {
	tables, err := s.selectTables(opts)
	if err != nil {
		return err
	}
	byName := lo.KeyBy(tables, func(t *schema.Table) string { return t.Name })

	tx, err := s.drv.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var (
		metaSeen bool
		imported = make(map[string]int)
		br       = bufio.NewReader(r)
	)
	for {
		line, readErr := br.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return fmt.Errorf("read backup: %w", readErr)
		}
		if line = bytes.TrimSpace(line); len(line) > 0 {
			var rec record
			if err := json.Unmarshal(line, &rec); err != nil {
				return fmt.Errorf("decode record: %w", err)
			}
			if rec.Type == metaType {
				if err := s.checkMeta(rec); err != nil {
					return err
				}
				metaSeen = true
			} else if tbl, ok := byName[rec.Type]; ok {
				if !metaSeen {
					return errors.New("backup: row before meta record")
				}
				if err := s.importRow(ctx, tx, tbl, rec.Payload); err != nil {
					return err
				}
				imported[tbl.Name]++
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
	}
	if !metaSeen {
		return errors.New("backup: missing meta record")
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	committed = true
	for _, tbl := range tables {
		s.logger.WithFields(logrus.Fields{"table": tbl.Name, "rows": imported[tbl.Name]}).Info("table imported")
	}
	return nil
}

func (s *Service) checkMeta(rec record) error {
	if rec.Version != formatVersion {
		return fmt.Errorf("backup: unsupported format version %d", rec.Version)
	}
	if rec.SchemaHash != "" && rec.SchemaHash != s.schemaHash {
		s.logger.WithField("schema_hash", rec.SchemaHash).Warn("backup was taken from a different schema")
	}
	return nil
}

func (s *Service) selectTables(opts []TableOption) ([]*schema.Table, error) {
	var sel tableSelection
	for _, opt := range opts {
		opt(&sel)
	}
	if len(sel.names) == 0 {
		return s.tables, nil
	}
	wanted := make(map[string]struct{}, len(sel.names))
	for _, name := range sel.names {
		n := strings.ToLower(strings.TrimSpace(name))
		if n == "" {
			continue
		}
		if !lo.ContainsBy(s.tables, func(t *schema.Table) bool { return t.Name == n }) {
			return nil, fmt.Errorf("backup: unsupported table %q", name)
		}
		wanted[n] = struct{}{}
	}
	if len(wanted) == 0 {
		return nil, errNoTablesSelected
	}
	return lo.Filter(s.tables, func(t *schema.Table, _ int) bool {
		_, ok := wanted[t.Name]
		return ok
	}), nil
}

func (s *Service) countRows(ctx context.Context, db *sql.DB, table *schema.Table) (int, error) {
	query, args := s.b.Select(entsql.Count("*")).From(entsql.Table(table.Name)).Query()
	var count int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Service) exportTable(ctx context.Context, db *sql.DB, table *schema.Table, w io.Writer) error {
	columns := columnNames(table.Columns)
	for offset := 0; ; offset += s.batchSize {
		query, args := s.b.Select(columns...).
			From(entsql.Table(table.Name)).
			OrderBy(orderColumns(table)...).
			Limit(s.batchSize).
			Offset(offset).
			Query()
		n, err := s.exportPage(ctx, db, table, query, args, w)
		if err != nil {
			return err
		}
		if n < s.batchSize {
			return nil
		}
	}
}

func (s *Service) exportPage(ctx context.Context, db *sql.DB, table *schema.Table, query string, args []any, w io.Writer) (int, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("query %s: %w", table.Name, err)
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		values := make([]any, len(table.Columns))
		dest := lo.Map(values, func(_ any, i int) any { return &values[i] })
		if err := rows.Scan(dest...); err != nil {
			return n, fmt.Errorf("scan %s: %w", table.Name, err)
		}
		row := make(map[string]any, len(values))
		for i, col := range table.Columns {
			row[col.Name] = exportValue(col, values[i])
		}
		payload, err := json.Marshal(row)
		if err != nil {
			return n, fmt.Errorf("encode %s row: %w", table.Name, err)
		}
		if err := writeRecord(w, record{Type: table.Name, Payload: payload}); err != nil {
			return n, err
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return n, fmt.Errorf("iterate %s: %w", table.Name, err)
	}
	return n, nil
}

func (s *Service) importRow(ctx context.Context, tx *sql.Tx, table *schema.Table, payload json.RawMessage) error {
	if len(payload) == 0 {
		return fmt.Errorf("backup: missing payload for table %s", table.Name)
	}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode %s payload: %w", table.Name, err)
	}

	var (
		cols []string
		args []any
	)
	for _, col := range table.Columns {
		val, ok := raw[col.Name]
		if !ok {
			continue
		}
		converted, err := importValue(col, val)
		if err != nil {
			return fmt.Errorf("convert %s.%s: %w", table.Name, col.Name, err)
		}
		if converted == nil && !col.Nullable {
			if converted, ok = zeroValue(col); !ok {
				return fmt.Errorf("backup: missing required value for %s.%s", table.Name, col.Name)
			}
		}
		cols = append(cols, col.Name)
		args = append(args, converted)
	}
	if len(cols) == 0 {
		return nil
	}

	query, qargs := s.b.Insert(table.Name).
		Columns(cols...).
		Values(args...).
		OnConflict(entsql.ConflictColumns(columnNames(table.PrimaryKey)...), entsql.ResolveWithNewValues()).
		Query()
	if _, err := tx.ExecContext(ctx, query, qargs...); err != nil {
		return fmt.Errorf("insert into %s: %w", table.Name, err)
	}
	return nil
}

func exportValue(col *schema.Column, value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	case []byte:
		switch col.Type {
		case field.TypeBytes:
			return base64.StdEncoding.EncodeToString(v)
		case field.TypeJSON:
			return json.RawMessage(append([]byte(nil), v...))
		}
		return string(v)
	case string:
		if col.Type == field.TypeJSON && json.Valid([]byte(v)) {
			return json.RawMessage(v)
		}
	}
	return value
}

func importValue(col *schema.Column, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch col.Type {
	case field.TypeBool:
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %T", value)
		}
		return b, nil
	case field.TypeInt, field.TypeInt8, field.TypeInt16, field.TypeInt32, field.TypeInt64:
		n, ok := value.(json.Number)
		if !ok {
			return nil, fmt.Errorf("expected number, got %T", value)
		}
		return n.Int64()
	case field.TypeFloat32, field.TypeFloat64:
		n, ok := value.(json.Number)
		if !ok {
			return nil, fmt.Errorf("expected number, got %T", value)
		}
		return n.Float64()
	case field.TypeTime:
		str, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected RFC 3339 string, got %T", value)
		}
		t, err := time.Parse(time.RFC3339Nano, str)
		if err != nil {
			return nil, err
		}
		return t.UTC(), nil
	case field.TypeBytes:
		str, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected base64 string, got %T", value)
		}
		return base64.StdEncoding.DecodeString(str)
	case field.TypeJSON:
		b, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	default:
		str, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", value)
		}
		return str, nil
	}
}

func zeroValue(col *schema.Column) (any, bool) {
	switch col.Type {
	case field.TypeJSON:
		return "[]", true
	case field.TypeString:
		return "", true
	case field.TypeInt, field.TypeInt8, field.TypeInt16, field.TypeInt32, field.TypeInt64,
		field.TypeFloat32, field.TypeFloat64:
		return 0, true
	case field.TypeBool:
		return false, true
	}
	return nil, false
}

func orderColumns(table *schema.Table) []string {
	if len(table.PrimaryKey) > 0 {
		return columnNames(table.PrimaryKey)
	}
	return columnNames(table.Columns)
}

func columnNames(cols []*schema.Column) []string {
	return lo.Map(cols, func(c *schema.Column, _ int) string { return c.Name })
}

// computeSchemaHash fingerprints table, column and index definitions so an
// import can tell when the backup came from another schema version.
func computeSchemaHash(tables []*schema.Table) string {
	var sb strings.Builder
	sorted := append([]*schema.Table(nil), tables...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	for _, tbl := range sorted {
		fmt.Fprintf(&sb, "%s|", tbl.Name)
		for _, col := range tbl.Columns {
			fmt.Fprintf(&sb, "%s:%s:%t;", col.Name, col.Type, col.Nullable)
		}
		fmt.Fprintf(&sb, "|pk:%s|", strings.Join(columnNames(tbl.PrimaryKey), ","))
		for _, idx := range tbl.Indexes {
			fmt.Fprintf(&sb, "%s:%t:%s;", idx.Name, idx.Unique, strings.Join(columnNames(idx.Columns), ","))
		}
		sb.WriteByte('\n')
	}
	return fmt.Sprintf("%x", sha256.Sum256([]byte(sb.String())))
}

func writeRecord(w io.Writer, rec record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
