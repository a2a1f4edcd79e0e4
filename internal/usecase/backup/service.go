// Package backup exports and restores the engine's relational data as
// line-delimited JSON. The format is a meta record followed by one
// record per row, so backups stay diffable and stream-friendly.
package backup

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	defaultBatchSize = 512
	formatVersion    = 1
)

var errNoTablesSelected = errors.New("backup: no tables selected")

// sqliteTimeLayout is parseable by both go-sqlite3 and postgres.
const sqliteTimeLayout = "2006-01-02 15:04:05.999999999-07:00"

type columnKind int

const (
	kindText columnKind = iota
	kindInt
	kindFloat
	kindTime
)

type column struct {
	name     string
	kind     columnKind
	nullable bool
}

type table struct {
	name    string
	pk      []string
	autoID  bool
	columns []column
}

// tableSchemas mirrors the DDL in infrastructure/database. Order
// respects foreign keys so imports replay cleanly.
var tableSchemas = []table{
	{name: "users", pk: []string{"id"}, autoID: true, columns: []column{
		{name: "id", kind: kindInt},
		{name: "name", kind: kindText},
		{name: "created_at", kind: kindTime},
	}},
	{name: "courses", pk: []string{"id"}, autoID: true, columns: []column{
		{name: "id", kind: kindInt},
		{name: "language", kind: kindText},
		{name: "name", kind: kindText},
	}},
	{name: "chapters", pk: []string{"id"}, autoID: true, columns: []column{
		{name: "id", kind: kindInt},
		{name: "course_id", kind: kindInt},
		{name: "name", kind: kindText},
	}},
	{name: "modules", pk: []string{"id"}, autoID: true, columns: []column{
		{name: "id", kind: kindInt},
		{name: "chapter_id", kind: kindInt, nullable: true},
		{name: "name", kind: kindText},
		{name: "description", kind: kindText},
		{name: "language", kind: kindText},
	}},
	{name: "instructions", pk: []string{"module_id"}, columns: []column{
		{name: "module_id", kind: kindInt},
		{name: "text", kind: kindText},
	}},
	{name: "sentences", pk: []string{"id"}, autoID: true, columns: []column{
		{name: "id", kind: kindInt},
		{name: "user_id", kind: kindInt},
		{name: "module_id", kind: kindInt},
		{name: "english_text", kind: kindText},
		{name: "translation", kind: kindText},
		{name: "graded_text", kind: kindText},
		{name: "cefr_level", kind: kindText},
		{name: "created_at", kind: kindTime},
	}},
	{name: "error_records", pk: []string{"id"}, autoID: true, columns: []column{
		{name: "id", kind: kindInt},
		{name: "sentence_id", kind: kindInt},
		{name: "module_id", kind: kindInt},
		{name: "user_id", kind: kindInt},
		{name: "error_text", kind: kindText},
		{name: "review_count", kind: kindInt},
		{name: "correct_review_count", kind: kindInt},
		{name: "last_reviewed_at", kind: kindTime, nullable: true},
		{name: "last_correct_at", kind: kindTime, nullable: true},
		{name: "submitted_at", kind: kindTime},
	}},
	{name: "vocab_words", pk: []string{"id"}, autoID: true, columns: []column{
		{name: "id", kind: kindInt},
		{name: "user_id", kind: kindInt},
		{name: "word", kind: kindText},
		{name: "language", kind: kindText},
		{name: "added_at", kind: kindTime},
		{name: "review_count", kind: kindInt},
		{name: "correct_review_count", kind: kindInt},
		{name: "last_reviewed_at", kind: kindTime, nullable: true},
		{name: "last_correct_at", kind: kindTime, nullable: true},
	}},
	{name: "module_results", pk: []string{"id"}, autoID: true, columns: []column{
		{name: "id", kind: kindInt},
		{name: "user_id", kind: kindInt},
		{name: "module_id", kind: kindInt},
		{name: "questions_answered", kind: kindInt},
		{name: "questions_correct", kind: kindInt},
		{name: "score", kind: kindFloat},
		{name: "created_at", kind: kindTime},
	}},
}

// ProgressReporter receives progress callbacks during export.
type ProgressReporter interface {
	StartTable(table string, total int)
	Increment(table string, delta int)
	FinishTable(table string)
}

type noopProgress struct{}

func (noopProgress) StartTable(string, int) {}
func (noopProgress) Increment(string, int)  {}
func (noopProgress) FinishTable(string)     {}

// Service streams table contents to and from NDJSON backups.
type Service struct {
	driver     string
	dsn        string
	batchSize  int
	tables     []table
	tableIndex map[string]table
	schemaHash string
}

type Option func(*Service)

func WithBatchSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.batchSize = size
		}
	}
}

// NewService constructs a backup service bound to the provided database
// driver and DSN.
func NewService(driver, dsn string, opts ...Option) (*Service, error) {
	driver = strings.TrimSpace(strings.ToLower(driver))
	if driver == "" {
		return nil, errors.New("backup: driver is required")
	}
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("backup: DSN is required")
	}

	tableIndex := make(map[string]table, len(tableSchemas))
	for _, tbl := range tableSchemas {
		tableIndex[tbl.name] = tbl
	}

	svc := &Service{
		driver:     driver,
		dsn:        dsn,
		batchSize:  defaultBatchSize,
		tables:     tableSchemas,
		tableIndex: tableIndex,
		schemaHash: computeSchemaHash(tableSchemas),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

type ExportOption func(*exportConfig)

type exportConfig struct {
	tables   []string
	reporter ProgressReporter
}

// WithTables restricts export to the provided table names.
func WithTables(tables []string) ExportOption {
	return func(cfg *exportConfig) {
		if len(tables) == 0 {
			return
		}
		cfg.tables = append([]string{}, tables...)
	}
}

// WithProgressReporter registers a reporter that receives progress
// callbacks during export.
func WithProgressReporter(reporter ProgressReporter) ExportOption {
	return func(cfg *exportConfig) {
		cfg.reporter = reporter
	}
}

type ImportOption func(*importConfig)

type importConfig struct {
	tables []string
}

// WithImportTables restricts import to the provided table names.
func WithImportTables(tables []string) ImportOption {
	return func(cfg *importConfig) {
		if len(tables) == 0 {
			return
		}
		cfg.tables = append([]string{}, tables...)
	}
}

type record struct {
	Type       string         `json:"type"`
	Version    int            `json:"version,omitempty"`
	ExportedAt *time.Time     `json:"exported_at,omitempty"`
	SchemaHash string         `json:"schema_hash,omitempty"`
	Tables     []string       `json:"tables,omitempty"`
	RowCounts  map[string]int `json:"row_counts,omitempty"`
	Payload    any            `json:"payload,omitempty"`
}

type rawRecord struct {
	Type       string          `json:"type"`
	Version    int             `json:"version"`
	ExportedAt *time.Time      `json:"exported_at"`
	SchemaHash string          `json:"schema_hash"`
	Tables     []string        `json:"tables"`
	RowCounts  map[string]int  `json:"row_counts"`
	Payload    json.RawMessage `json:"payload"`
}

type sequenceKey struct {
	Table  string
	Column string
}

type sequenceStats map[sequenceKey]int64

func (s *Service) Export(ctx context.Context, w io.Writer, opts ...ExportOption) error {
	cfg := exportConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	tables, err := s.selectTables(cfg.tables)
	if err != nil {
		return err
	}
	reporter := cfg.reporter
	if reporter == nil {
		reporter = noopProgress{}
	}

	db, err := s.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	counts := make(map[string]int, len(tables))
	for _, tbl := range tables {
		count, err := countTableRows(ctx, db, tbl.name)
		if err != nil {
			return fmt.Errorf("count table %s: %w", tbl.name, err)
		}
		counts[tbl.name] = count
	}

	writer := bufio.NewWriter(w)
	defer writer.Flush()

	now := time.Now().UTC()
	meta := record{
		Type:       "meta",
		Version:    formatVersion,
		ExportedAt: &now,
		SchemaHash: s.schemaHash,
		Tables:     tableNames(tables),
		RowCounts:  counts,
	}
	if err := writeRecord(writer, meta); err != nil {
		return err
	}

	for _, tbl := range tables {
		reporter.StartTable(tbl.name, counts[tbl.name])
		if err := s.exportTable(ctx, db, tbl, reporter, writer); err != nil {
			return err
		}
		reporter.FinishTable(tbl.name)
	}
	return writer.Flush()
}

func (s *Service) Import(ctx context.Context, r io.Reader, opts ...ImportOption) error {
	cfg := importConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	tables, err := s.selectTables(cfg.tables)
	if err != nil {
		return err
	}
	tableFilter := make(map[string]table, len(tables))
	for _, tbl := range tables {
		tableFilter[tbl.name] = tbl
	}

	db, err := s.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	commit := false
	defer func() {
		if !commit {
			_ = tx.Rollback()
		}
	}()

	br := bufio.NewReader(r)
	var (
		metaSeen bool
		meta     rawRecord
		stats    = make(sequenceStats)
	)

	for {
		line, err := br.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read backup: %w", err)
		}
		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			var rec rawRecord
			if err := json.Unmarshal(line, &rec); err != nil {
				return fmt.Errorf("decode record: %w", err)
			}

			switch rec.Type {
			case "meta":
				metaSeen = true
				meta = rec
			default:
				tbl, ok := tableFilter[rec.Type]
				if !ok {
					// Skip records for tables not requested.
					break
				}
				if len(rec.Payload) == 0 {
					return fmt.Errorf("backup: missing payload for table %s", rec.Type)
				}
				if err := s.importRow(ctx, tx, tbl, rec.Payload, stats); err != nil {
					return err
				}
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
	}

	if !metaSeen {
		return errors.New("backup: missing meta record")
	}
	if meta.Version != formatVersion {
		return fmt.Errorf("backup: unsupported format version %d", meta.Version)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	commit = true

	return s.syncSequences(ctx, db, stats)
}

func (s *Service) exportTable(ctx context.Context, db *sql.DB, tbl table, reporter ProgressReporter, w io.Writer) error {
	columns := columnNames(tbl)
	orderBy := " ORDER BY " + strings.Join(tbl.pk, ", ")
	batch := s.batchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}

	for offset := 0; ; offset += batch {
		query := fmt.Sprintf("SELECT %s FROM %s%s LIMIT %d OFFSET %d",
			strings.Join(columns, ", "), tbl.name, orderBy, batch, offset)
		rows, err := db.QueryContext(ctx, query)
		if err != nil {
			return fmt.Errorf("query %s: %w", tbl.name, err)
		}

		rowCount := 0
		for rows.Next() {
			values := make([]any, len(columns))
			dest := make([]any, len(columns))
			for i := range dest {
				dest[i] = &values[i]
			}
			if err := rows.Scan(dest...); err != nil {
				rows.Close()
				return fmt.Errorf("scan %s: %w", tbl.name, err)
			}
			rowMap, err := convertRow(tbl, values)
			if err != nil {
				rows.Close()
				return err
			}
			if err := writeRecord(w, record{Type: tbl.name, Payload: rowMap}); err != nil {
				rows.Close()
				return err
			}
			reporter.Increment(tbl.name, 1)
			rowCount++
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("iterate %s: %w", tbl.name, err)
		}
		rows.Close()
		if rowCount < batch {
			break
		}
	}
	return nil
}

func (s *Service) importRow(ctx context.Context, tx *sql.Tx, tbl table, payload json.RawMessage, stats sequenceStats) error {
	values, err := decodePayload(tbl, payload)
	if err != nil {
		return fmt.Errorf("decode payload for %s: %w", tbl.name, err)
	}
	if len(values) == 0 {
		return nil
	}

	cols := make([]string, 0, len(values))
	args := make([]any, 0, len(values))
	for _, col := range tbl.columns {
		val, ok := values[col.name]
		if !ok {
			continue
		}
		if val == nil && !col.nullable {
			return fmt.Errorf("backup: missing required value for %s.%s", tbl.name, col.name)
		}
		cols = append(cols, col.name)
		args = append(args, val)
	}
	if len(cols) == 0 {
		return nil
	}

	placeholders, err := buildPlaceholders(s.driver, len(cols))
	if err != nil {
		return err
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)%s",
		tbl.name,
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
		buildUpsertClause(tbl, cols),
	)
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", tbl.name, err)
	}

	if tbl.autoID {
		if max, ok := toInt64(values["id"]); ok {
			key := sequenceKey{Table: tbl.name, Column: "id"}
			if max > stats[key] {
				stats[key] = max
			}
		}
	}
	return nil
}

// syncSequences advances postgres identity sequences past the highest
// imported id. SQLite's AUTOINCREMENT tracks MAX(id) on its own.
func (s *Service) syncSequences(ctx context.Context, db *sql.DB, stats sequenceStats) error {
	if s.driver != "postgres" && s.driver != "postgresql" {
		return nil
	}
	for key, max := range stats {
		query := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', '%s'), %d, true)",
			key.Table, key.Column, max)
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("sync sequence for %s.%s: %w", key.Table, key.Column, err)
		}
	}
	return nil
}

func (s *Service) selectTables(requested []string) ([]table, error) {
	if len(requested) == 0 {
		tbls := make([]table, len(s.tables))
		copy(tbls, s.tables)
		return tbls, nil
	}
	set := make(map[string]struct{}, len(requested))
	for _, name := range requested {
		n := strings.TrimSpace(strings.ToLower(name))
		if n == "" {
			continue
		}
		if _, ok := s.tableIndex[n]; !ok {
			return nil, fmt.Errorf("backup: unsupported table %q", name)
		}
		set[n] = struct{}{}
	}
	if len(set) == 0 {
		return nil, errNoTablesSelected
	}
	tbls := make([]table, 0, len(set))
	for _, tbl := range s.tables {
		if _, ok := set[tbl.name]; ok {
			tbls = append(tbls, tbl)
		}
	}
	return tbls, nil
}

func (s *Service) openDB(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open(s.driver, s.dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if s.driver == "sqlite3" || s.driver == "sqlite" {
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
	}
	return db, nil
}

func countTableRows(ctx context.Context, db *sql.DB, table string) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count)
	return count, err
}

func convertRow(tbl table, values []any) (map[string]any, error) {
	result := make(map[string]any, len(tbl.columns))
	for idx, col := range tbl.columns {
		val, err := convertDBValue(col, values[idx])
		if err != nil {
			return nil, fmt.Errorf("convert %s.%s: %w", tbl.name, col.name, err)
		}
		result[col.name] = val
	}
	return result, nil
}

func convertDBValue(col column, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch v := value.(type) {
	case []byte:
		// database/sql often returns []byte for text columns.
		return string(v), nil
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano), nil
	}

	switch col.kind {
	case kindInt:
		if n, ok := toInt64(value); ok {
			return n, nil
		}
		return nil, fmt.Errorf("unexpected value %T for integer column", value)
	case kindFloat:
		if f, ok := toFloat64(value); ok {
			return f, nil
		}
		return nil, fmt.Errorf("unexpected value %T for float column", value)
	default:
		return value, nil
	}
}

func decodePayload(tbl table, payload json.RawMessage) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	result := make(map[string]any, len(raw))
	for key, val := range raw {
		col, ok := findColumn(tbl, key)
		if !ok {
			return nil, fmt.Errorf("column %s not found in table %s", key, tbl.name)
		}
		converted, err := convertJSONValue(col, val)
		if err != nil {
			return nil, fmt.Errorf("convert %s.%s: %w", tbl.name, key, err)
		}
		result[key] = converted
	}
	return result, nil
}

func convertJSONValue(col column, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch col.kind {
	case kindInt:
		num, ok := value.(json.Number)
		if !ok {
			return nil, fmt.Errorf("expected number, got %T", value)
		}
		return num.Int64()
	case kindFloat:
		num, ok := value.(json.Number)
		if !ok {
			return nil, fmt.Errorf("expected number, got %T", value)
		}
		return num.Float64()
	case kindTime:
		str, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected timestamp string, got %T", value)
		}
		if str == "" {
			return nil, nil
		}
		t, err := time.Parse(time.RFC3339Nano, str)
		if err != nil {
			return nil, err
		}
		// A layout both backends parse back out of TEXT storage.
		return t.UTC().Format(sqliteTimeLayout), nil
	default:
		str, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", value)
		}
		return str, nil
	}
}

func buildPlaceholders(driver string, count int) ([]string, error) {
	switch driver {
	case "postgres", "postgresql":
		holders := make([]string, count)
		for i := 0; i < count; i++ {
			holders[i] = fmt.Sprintf("$%d", i+1)
		}
		return holders, nil
	case "sqlite3", "sqlite":
		holders := make([]string, count)
		for i := 0; i < count; i++ {
			holders[i] = "?"
		}
		return holders, nil
	default:
		return nil, fmt.Errorf("backup: unsupported driver %q for placeholders", driver)
	}
}

// buildUpsertClause keeps imports idempotent: a replayed backup updates
// rows in place instead of failing on the primary key.
func buildUpsertClause(tbl table, insertCols []string) string {
	updateCols := difference(insertCols, tbl.pk)
	if len(updateCols) == 0 {
		return fmt.Sprintf(" ON CONFLICT (%s) DO NOTHING", strings.Join(tbl.pk, ", "))
	}
	assignments := make([]string, len(updateCols))
	for i, col := range updateCols {
		assignments[i] = fmt.Sprintf("%s = excluded.%s", col, col)
	}
	return fmt.Sprintf(" ON CONFLICT (%s) DO UPDATE SET %s",
		strings.Join(tbl.pk, ", "), strings.Join(assignments, ", "))
}

func findColumn(tbl table, name string) (column, bool) {
	for _, col := range tbl.columns {
		if col.name == name {
			return col, true
		}
	}
	return column{}, false
}

func columnNames(tbl table) []string {
	names := make([]string, len(tbl.columns))
	for i, col := range tbl.columns {
		names[i] = col.name
	}
	return names
}

func tableNames(tbls []table) []string {
	names := make([]string, len(tbls))
	for i, tbl := range tbls {
		names[i] = tbl.name
	}
	return names
}

func difference(all, exclude []string) []string {
	skip := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		skip[name] = struct{}{}
	}
	out := make([]string, 0, len(all))
	for _, name := range all {
		if _, ok := skip[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}

func toInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case float64:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	default:
		return 0, false
	}
}

func toFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func writeRecord(w io.Writer, rec record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	_, err = w.Write([]byte{'\n'})
	return err
}

// computeSchemaHash fingerprints the table layout so a backup taken
// against a different schema is detectable.
func computeSchemaHash(tbls []table) string {
	names := make([]string, 0, len(tbls))
	for _, tbl := range tbls {
		cols := columnNames(tbl)
		sort.Strings(cols)
		names = append(names, tbl.name+"("+strings.Join(cols, ",")+")")
	}
	sort.Strings(names)
	sum := sha256.Sum256([]byte(strings.Join(names, ";")))
	return fmt.Sprintf("%x", sum[:8])
}
