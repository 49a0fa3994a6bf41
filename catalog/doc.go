// Package catalog loads rule catalogs written in CUE and compiles them
// into specifications.
//
// A catalog file declares one entity type and a set of named rules:
//
//	catalog: {
//		entity: "Product"
//		rules: {
//			pricey:      {field: "price", op: "gt", value: 100}
//			electronics: {field: "category", op: "eq", value: "Electronics"}
//			in_stock:    {field: "in_stock", op: "eq", value: true}
//
//			featured: {all: ["pricey", "electronics", "in_stock"]}
//			visible:  {any: ["in_stock", "featured"]}
//			hidden:   {not: "visible"}
//		}
//	}
//
// Leaves compare one field against a literal; composites reference other
// rules by name through all/any/not and are built with the combinator, so
// every loaded rule carries the single-parameter guarantee. Rule references
// may appear in any order; cycles are a load error.
//
// CUE rather than plain YAML because catalogs benefit from CUE's own
// schema checking and file merging; the loader still reports structural
// problems it finds with source positions.
package catalog
