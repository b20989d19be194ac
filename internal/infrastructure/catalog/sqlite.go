package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/skiguide/backend/internal/domain"
)

// SQLiteStore persists the product catalog in a local SQLite database. Sentinel
// fill values are scrubbed on read, so records leaving this store always honor
// the nil-means-unknown contract.
type SQLiteStore struct {
	db       *sqlx.DB
	sentinel domain.SentinelFilter
}

// NewSQLiteStore opens (and if needed creates) the catalog database at dbPath.
func NewSQLiteStore(dbPath string, sentinel domain.SentinelFilter) (*SQLiteStore, error) {
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open catalog database: %w", err)
	}

	store := &SQLiteStore{db: db, sentinel: sentinel}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init catalog schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		brand TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '',
		waist_width_mm REAL,
		price REAL,
		sale_price REAL,
		weight_grams REAL,
		turn_radius_m REAL,
		lengths_cm TEXT NOT NULL DEFAULT '',
		twin_tip INTEGER
	)`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	_, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_products_brand ON products(brand)`)
	return err
}

// productRow mirrors the products table. Tags and lengths are stored as
// pipe-separated text; SQLite has no array type and the catalog is read as a
// whole anyway.
type productRow struct {
	ID           string          `db:"id"`
	Title        string          `db:"title"`
	Brand        string          `db:"brand"`
	Category     string          `db:"category"`
	Tags         string          `db:"tags"`
	WaistWidthMM sql.NullFloat64 `db:"waist_width_mm"`
	Price        sql.NullFloat64 `db:"price"`
	SalePrice    sql.NullFloat64 `db:"sale_price"`
	WeightGrams  sql.NullFloat64 `db:"weight_grams"`
	TurnRadiusM  sql.NullFloat64 `db:"turn_radius_m"`
	LengthsCM    string          `db:"lengths_cm"`
	TwinTip      sql.NullBool    `db:"twin_tip"`
}

// All returns every catalog record in stable id order, with sentinel values
// scrubbed.
func (s *SQLiteStore) All(ctx context.Context) ([]domain.ProductRecord, error) {
	var rows []productRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, title, brand, category, tags, waist_width_mm, price, sale_price,
		        weight_grams, turn_radius_m, lengths_cm, twin_tip
		   FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	records := make([]domain.ProductRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, s.sentinel.Apply(row.toRecord()))
	}
	return records, nil
}

// Count returns the number of stored products.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM products`); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

// Replace swaps the whole catalog for the given records in one transaction.
// Used by the CSV importer on startup.
func (s *SQLiteStore) Replace(ctx context.Context, records []domain.ProductRecord) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin catalog import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx,
		`INSERT INTO products (id, title, brand, category, tags, waist_width_mm, price,
		                       sale_price, weight_grams, turn_radius_m, lengths_cm, twin_tip)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare catalog insert: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		row := fromRecord(record)
		_, err := stmt.ExecContext(ctx,
			row.ID, row.Title, row.Brand, row.Category, row.Tags,
			row.WaistWidthMM, row.Price, row.SalePrice, row.WeightGrams,
			row.TurnRadiusM, row.LengthsCM, row.TwinTip)
		if err != nil {
			return fmt.Errorf("insert product %s: %w", record.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit catalog import: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (r productRow) toRecord() domain.ProductRecord {
	record := domain.ProductRecord{
		ID:        r.ID,
		Title:     r.Title,
		Brand:     r.Brand,
		Category:  r.Category,
		Tags:      splitList(r.Tags),
		LengthsCM: parseLengths(r.LengthsCM),
	}
	if r.WaistWidthMM.Valid {
		record.WaistWidthMM = domain.Float64(r.WaistWidthMM.Float64)
	}
	if r.Price.Valid {
		record.Price = domain.Float64(r.Price.Float64)
	}
	if r.SalePrice.Valid {
		record.SalePrice = domain.Float64(r.SalePrice.Float64)
	}
	if r.WeightGrams.Valid {
		record.WeightGrams = domain.Float64(r.WeightGrams.Float64)
	}
	if r.TurnRadiusM.Valid {
		record.TurnRadiusM = domain.Float64(r.TurnRadiusM.Float64)
	}
	if r.TwinTip.Valid {
		record.TwinTip = domain.Bool(r.TwinTip.Bool)
	}
	return record
}

func fromRecord(record domain.ProductRecord) productRow {
	row := productRow{
		ID:        record.ID,
		Title:     record.Title,
		Brand:     record.Brand,
		Category:  record.Category,
		Tags:      strings.Join(record.Tags, "|"),
		LengthsCM: joinLengths(record.LengthsCM),
	}
	if record.WaistWidthMM != nil {
		row.WaistWidthMM = sql.NullFloat64{Float64: *record.WaistWidthMM, Valid: true}
	}
	if record.Price != nil {
		row.Price = sql.NullFloat64{Float64: *record.Price, Valid: true}
	}
	if record.SalePrice != nil {
		row.SalePrice = sql.NullFloat64{Float64: *record.SalePrice, Valid: true}
	}
	if record.WeightGrams != nil {
		row.WeightGrams = sql.NullFloat64{Float64: *record.WeightGrams, Valid: true}
	}
	if record.TurnRadiusM != nil {
		row.TurnRadiusM = sql.NullFloat64{Float64: *record.TurnRadiusM, Valid: true}
	}
	if record.TwinTip != nil {
		row.TwinTip = sql.NullBool{Bool: *record.TwinTip, Valid: true}
	}
	return row
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseLengths(s string) []int {
	var lengths []int
	for _, part := range splitList(s) {
		if n, err := strconv.Atoi(part); err == nil {
			lengths = append(lengths, n)
		}
	}
	return lengths
}

func joinLengths(lengths []int) string {
	parts := make([]string, len(lengths))
	for i, n := range lengths {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, "|")
}
