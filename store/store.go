// Package store provides durable product storage with rule matching.
//
// Specifications are pushed down to SQLite as parameterized WHERE
// fragments when they fit the translatable fragment; expressions outside
// it fall back to in-memory evaluation over the full scan. Both paths
// return the same rows for the same rule.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/rcstanton/satis/exprsql"
	"github.com/rcstanton/satis/spec"
	"github.com/rcstanton/satis/value"
)

//go:embed schema.sql
var schemaSQL string

const currentSchemaVersion = 1

const productColumns = "id, price, category, in_stock, discontinued, note"

// Store provides durable storage for products.
// Uses SQLite with WAL mode for concurrent read access.
type Store struct {
	db       *sql.DB
	compiler *exprsql.Compiler
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and the schema automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db, compiler: exprsql.NewCompiler()}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer Store methods when available.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Put inserts or replaces a product. A missing ID is assigned a fresh
// UUID; the stored ID is returned either way.
func (s *Store) Put(ctx context.Context, p Product) (string, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO products (id, price, category, in_stock, discontinued, note)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.ID, p.Price, p.Category, p.InStock, p.Discontinued, p.Note)
	if err != nil {
		return "", fmt.Errorf("put product: %w", err)
	}
	return p.ID, nil
}

// Get fetches one product by ID.
func (s *Store) Get(ctx context.Context, id string) (Product, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = ?", id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, fmt.Errorf("product %s not found", id)
	}
	if err != nil {
		return Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// All returns every product ordered by ID.
func (s *Store) All(ctx context.Context) ([]Product, error) {
	return s.queryProducts(ctx,
		"SELECT "+productColumns+" FROM products ORDER BY id")
}

// Matching returns the products satisfying the rule, ordered by ID.
//
// The rule is compiled to a parameterized WHERE fragment and evaluated by
// SQLite. Rules outside the translatable fragment fall back to a full
// scan filtered through the in-memory evaluator. The two paths agree on
// which rows match.
func (s *Store) Matching(ctx context.Context, rule *spec.Specification) ([]Product, error) {
	where, params, err := s.compiler.Compile(rule)
	if exprsql.IsOutsideFragment(err) {
		return s.matchScan(ctx, rule)
	}
	if err != nil {
		return nil, fmt.Errorf("compile rule %s: %w", rule.Name(), err)
	}
	return s.queryProducts(ctx,
		"SELECT "+productColumns+" FROM products WHERE "+where+" ORDER BY id",
		params...)
}

// matchScan filters a full scan through the evaluator.
func (s *Store) matchScan(ctx context.Context, rule *spec.Specification) ([]Product, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	var matched []Product
	for _, p := range all {
		ok, err := rule.IsSatisfiedBy(p.Entity())
		if err != nil {
			return nil, fmt.Errorf("evaluate rule %s against %s: %w", rule.Name(), p.ID, err)
		}
		if ok {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

func (s *Store) queryProducts(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// applySchema creates tables if they don't exist. Idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var got string
	if err := s.db.QueryRow(fmt.Sprintf("PRAGMA %s", name)).Scan(&got); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if got != expected {
		return fmt.Errorf("%s = %q, expected %q", name, got, expected)
	}
	return nil
}

// Product is one row of the products table.
type Product struct {
	ID           string
	Price        int64
	Category     string
	InStock      bool
	Discontinued bool
	Note         *string
}

// Entity converts the product to the evaluator's object form.
// A NULL note maps to an explicit null, not an absent field, so rules
// referencing note never hit a missing-field error.
func (p Product) Entity() value.Object {
	note := value.Value(value.Null{})
	if p.Note != nil {
		note = value.String(*p.Note)
	}
	return value.Object{
		"id":           value.String(p.ID),
		"price":        value.Int(p.Price),
		"category":     value.String(p.Category),
		"in_stock":     value.Bool(p.InStock),
		"discontinued": value.Bool(p.Discontinued),
		"note":         note,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var p Product
	var note sql.NullString
	if err := row.Scan(&p.ID, &p.Price, &p.Category, &p.InStock, &p.Discontinued, &note); err != nil {
		return Product{}, err
	}
	if note.Valid {
		p.Note = &note.String
	}
	return p, nil
}
