// Package sqlite keeps the sales table in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/diillson/sales-dashboard-go/internal/domain/entity"
	"github.com/diillson/sales-dashboard-go/internal/domain/repository"

	_ "modernc.org/sqlite"
)

// DefaultPath is used when no database path is configured.
const DefaultPath = "data/sales.db"

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var insertColumns = []string{
	"date", "region", "product", "category", "revenue", "units_sold", "customer_id", "profit_margin", "profit",
}

// Store implements repository.RecordStore on database/sql.
type Store struct {
	db *sql.DB
}

var _ repository.RecordStore = (*Store)(nil)

// Open creates the database file if needed and applies migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		dbPath = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// NewStoreFromDB wraps an already migrated connection.
func NewStoreFromDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Name() string { return "sqlite" }

// Close releases the connection pool.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func quoteIdent(name string) (string, error) {
	if !identPattern.MatchString(name) {
		return "", fmt.Errorf("invalid identifier %q", name)
	}
	return `"` + name + `"`, nil
}

func buildSelect(q entity.Query) (string, error) {
	table := q.Table
	if table == "" {
		table = entity.DefaultTable
	}
	tbl, err := quoteIdent(table)
	if err != nil {
		return "", err
	}

	cols := "*"
	if len(q.Columns) > 0 {
		quoted := make([]string, 0, len(q.Columns))
		for _, c := range q.Columns {
			qc, err := quoteIdent(c)
			if err != nil {
				return "", err
			}
			quoted = append(quoted, qc)
		}
		cols = strings.Join(quoted, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", cols, tbl)
	if q.OrderBy != "" {
		ob, err := quoteIdent(q.OrderBy)
		if err != nil {
			return "", err
		}
		dir := "ASC"
		if q.Descending {
			dir = "DESC"
		}
		fmt.Fprintf(&b, " ORDER BY %s %s", ob, dir)
	}
	if q.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.Limit)
	}
	return b.String(), nil
}

// FetchRecords runs the query and converts every row through entity.RecordFromRow.
func (s *Store) FetchRecords(ctx context.Context, q entity.Query) ([]entity.Record, error) {
	query, err := buildSelect(q)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.Table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := make([]entity.Record, 0)
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			row[c] = values[i]
		}
		if rec, ok := entity.RecordFromRow(row); ok {
			out = append(out, rec)
		}
	}
	return out, rows.Err()
}

// InsertRecords writes records in one transaction per batch.
func (s *Store) InsertRecords(ctx context.Context, table string, records []entity.Record, batchSize int) (int, error) {
	tbl, err := quoteIdent(table)
	if err != nil {
		return 0, err
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(insertColumns)), ", ")
	stmtSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", tbl, strings.Join(insertColumns, ", "), placeholders)

	inserted := 0
	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := s.insertBatch(ctx, stmtSQL, records[start:end]); err != nil {
			return inserted, fmt.Errorf("batch %d: %w", start/batchSize+1, err)
		}
		inserted += end - start
	}
	return inserted, nil
}

func (s *Store) insertBatch(ctx context.Context, stmtSQL string, batch []entity.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, r := range batch {
		if _, err := stmt.ExecContext(ctx,
			r.Date.Format(entity.DateLayout), r.Region, r.Product, r.Category,
			r.Revenue, r.Units, r.CustomerID, nullable(r.ProfitMargin), nullable(r.Profit),
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// ClearRecords deletes every row of the table.
func (s *Store) ClearRecords(ctx context.Context, table string) error {
	tbl, err := quoteIdent(table)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, "DELETE FROM "+tbl)
	return err
}

// CountRecords returns the number of rows in the table.
func (s *Store) CountRecords(ctx context.Context, table string) (int, error) {
	tbl, err := quoteIdent(table)
	if err != nil {
		return 0, err
	}
	var n int
	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+tbl).Scan(&n)
	return n, err
}
