package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcstanton/satis/value"
)

func TestLoad_ProductCatalog(t *testing.T) {
	cat, err := Load("testdata/products")
	require.NoError(t, err)

	assert.Equal(t, "Product", cat.Entity)
	assert.Equal(t, 9, cat.Len())

	laptop := value.Object{
		"price":    value.Int(1200),
		"category": value.String("Electronics"),
		"in_stock": value.Bool(true),
		"note":     value.Null{},
	}
	pencil := value.Object{
		"price":    value.Int(2),
		"category": value.String("Stationery"),
		"in_stock": value.Bool(true),
		"note":     value.String("restock"),
	}
	sofa := value.Object{
		"price":    value.Int(800),
		"category": value.String("Furniture"),
		"in_stock": value.Bool(false),
		"note":     value.Null{},
	}

	testCases := []struct {
		rule   string
		entity value.Object
		want   bool
	}{
		{rule: "featured", entity: laptop, want: true},
		{rule: "featured", entity: pencil, want: false},
		{rule: "bargain_bin", entity: pencil, want: true},
		{rule: "homepage", entity: laptop, want: true},
		{rule: "homepage", entity: pencil, want: true},
		{rule: "homepage", entity: sofa, want: false},
		{rule: "hidden", entity: sofa, want: true},
		{rule: "hidden", entity: laptop, want: false},
		{rule: "no_note", entity: laptop, want: true},
		{rule: "no_note", entity: pencil, want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.rule+"/"+string(tc.entity["category"].(value.String)), func(t *testing.T) {
			s, err := cat.Rule(tc.rule)
			require.NoError(t, err)
			got, err := s.IsSatisfiedBy(tc.entity)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLoad_SplitFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "entity.cue"), `
catalog: entity: "Product"
`)
	writeFile(t, filepath.Join(dir, "rules.cue"), `
catalog: rules: {
	pricey: {field: "price", op: "gt", value: 100}
	cheap: {not: "pricey"}
}
`)

	cat, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "Product", cat.Entity)
	assert.Equal(t, []string{"cheap", "pricey"}, cat.Names())
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := Load("testdata/does-not-exist")
		require.Error(t, err)
	})

	t.Run("no cue files", func(t *testing.T) {
		_, err := Load(t.TempDir())
		require.Error(t, err)
	})

	t.Run("no catalog struct", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "other.cue"), `something: 1`)
		_, err := Load(dir)
		require.Error(t, err)
	})
}

func TestFindCUEFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.cue"), "x: 1")
	writeFile(t, filepath.Join(dir, "b.txt"), "not cue")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	writeFile(t, filepath.Join(dir, "nested", "c.cue"), "y: 2")

	files, err := FindCUEFiles(dir)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
