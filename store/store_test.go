package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rcstanton/satis/expr"
	"github.com/rcstanton/satis/spec"
	"github.com/rcstanton/satis/value"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedProducts(t *testing.T, s *Store) {
	t.Helper()
	note := "clearance"
	products := []Product{
		{ID: "p1", Price: 1200, Category: "Electronics", InStock: true},
		{ID: "p2", Price: 15, Category: "Stationery", InStock: true, Note: &note},
		{ID: "p3", Price: 800, Category: "Furniture", InStock: false},
		{ID: "p4", Price: 250, Category: "Electronics", InStock: true, Discontinued: true},
	}
	for _, p := range products {
		if _, err := s.Put(context.Background(), p); err != nil {
			t.Fatalf("Put(%s) failed: %v", p.ID, err)
		}
	}
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer s.Close()

	var name string
	err = s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='products'",
	).Scan(&name)
	if err != nil {
		t.Errorf("products table not found after idempotent opens: %v", err)
	}
}

func TestOpen_AppliesPragmas(t *testing.T) {
	s := openTestStore(t)

	if err := s.verifyPragma("journal_mode", "wal"); err != nil {
		t.Error(err)
	}
	if err := s.verifyPragma("foreign_keys", "1"); err != nil {
		t.Error(err)
	}
}

func TestPutGet_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	note := "restock soon"
	id, err := s.Put(ctx, Product{Price: 42, Category: "Toys", InStock: true, Note: &note})
	if err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if id == "" {
		t.Fatal("Put() returned empty ID")
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.Price != 42 || got.Category != "Toys" || !got.InStock {
		t.Errorf("Get() = %+v, want stored fields back", got)
	}
	if got.Note == nil || *got.Note != note {
		t.Errorf("Get() note = %v, want %q", got.Note, note)
	}
}

func TestGet_NullNote(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Put(ctx, Product{Price: 1, Category: "Misc"})
	if err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.Note != nil {
		t.Errorf("Get() note = %v, want nil", *got.Note)
	}
	if !value.Equal(got.Entity()["note"], value.Null{}) {
		t.Error("Entity() should map a NULL note to an explicit null")
	}
}

func TestGet_NotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Get(context.Background(), "missing"); err == nil {
		t.Error("Get() of missing ID should fail")
	}
}

func TestMatching_PushedDown(t *testing.T) {
	s := openTestStore(t)
	seedProducts(t, s)

	pricey := spec.MustWhere("Product", "price", expr.OpGt, value.Int(100))
	electronics := spec.MustWhere("Product", "category", expr.OpEq, value.String("Electronics"))
	rule, err := pricey.And(electronics)
	if err != nil {
		t.Fatalf("And() failed: %v", err)
	}

	got, err := s.Matching(context.Background(), rule)
	if err != nil {
		t.Fatalf("Matching() failed: %v", err)
	}
	wantIDs := []string{"p1", "p4"}
	if len(got) != len(wantIDs) {
		t.Fatalf("Matching() returned %d products, want %d", len(got), len(wantIDs))
	}
	for i, want := range wantIDs {
		if got[i].ID != want {
			t.Errorf("Matching()[%d].ID = %s, want %s", i, got[i].ID, want)
		}
	}
}

func TestMatching_NullNote(t *testing.T) {
	s := openTestStore(t)
	seedProducts(t, s)

	noNote := spec.MustWhere("Product", "note", expr.OpEq, value.Null{})
	got, err := s.Matching(context.Background(), noNote)
	if err != nil {
		t.Fatalf("Matching() failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Matching() returned %d products, want 3", len(got))
	}
}

func TestMatching_FallsBackToScan(t *testing.T) {
	s := openTestStore(t)
	seedProducts(t, s)

	// A constant comparison has no column, so the SQL path refuses it and
	// the scan path evaluates it per row.
	p := expr.NewParameter("product", "Product")
	e := expr.Compare(expr.Lit(value.Int(1)), expr.OpEq, expr.Lit(value.Int(1)))
	alwaysTrue, err := spec.New("always", p, e)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	got, err := s.Matching(context.Background(), alwaysTrue)
	if err != nil {
		t.Fatalf("Matching() failed: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("Matching() returned %d products, want all 4", len(got))
	}
}

func TestMatching_PathsAgree(t *testing.T) {
	s := openTestStore(t)
	seedProducts(t, s)
	ctx := context.Background()

	rule := spec.MustWhere("Product", "in_stock", expr.OpEq, value.Bool(true))

	pushed, err := s.Matching(ctx, rule)
	if err != nil {
		t.Fatalf("Matching() failed: %v", err)
	}
	scanned, err := s.matchScan(ctx, rule)
	if err != nil {
		t.Fatalf("matchScan() failed: %v", err)
	}
	if len(pushed) != len(scanned) {
		t.Fatalf("paths disagree: %d vs %d products", len(pushed), len(scanned))
	}
	for i := range pushed {
		if pushed[i].ID != scanned[i].ID {
			t.Errorf("paths disagree at %d: %s vs %s", i, pushed[i].ID, scanned[i].ID)
		}
	}
}

func TestPut_Replace(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Put(ctx, Product{ID: "fixed", Price: 10, Category: "A"})
	if err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if _, err := s.Put(ctx, Product{ID: "fixed", Price: 20, Category: "B"}); err != nil {
		t.Fatalf("replace Put() failed: %v", err)
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.Price != 20 || got.Category != "B" {
		t.Errorf("Get() = %+v, want replaced row", got)
	}
}
