// Package staging composes the relational queries that turn the raw
// tables of an asset class into its staged table. All functions are
// pure: they take table/column metadata and return query expressions
// from pkg/query; execution belongs to internal/iostage.
//
// The pipeline is layered, each stage wrapping the previous result
// as a subquery:
//
//	union -> schedule -> normalize -> citations -> ratios
package staging

import (
	"github.com/projbank/pbdb/pkg/naming"
	"github.com/projbank/pbdb/pkg/query"
)

// TableMeta describes one input table: its namespace, name and the
// column names it actually has, in table order.
type TableMeta struct {
	Schema  string
	Name    string
	Columns []string
}

// Plan is the composed staging query together with the ordered
// column set it produces. A plan with a nil Stmt means the asset
// class has no constituent tables; the materializer then creates an
// empty table carrying only the primary-key columns.
type Plan struct {
	Stmt    query.Statement
	Columns []string
}

// Build composes the full staging pipeline for the given raw tables.
func Build(tables []TableMeta) Plan {
	stmt, cols := BuildUnion(tables)
	if stmt == nil {
		return Plan{}
	}
	al := &query.Aliases{}
	var s query.Statement = stmt
	s, cols = BuildSchedule(s, cols, al)
	s, cols = BuildNormalize(s, cols, al)
	s, cols = BuildCitations(s, cols, al)
	s, cols = BuildRatios(s, cols, al)
	return Plan{Stmt: s, Columns: cols}
}

// BuildProdUnion composes the production query: the same column-set
// reconciliation as staging's union step, applied to all staged
// tables of a verification status.
func BuildProdUnion(tables []TableMeta) Plan {
	stmt, cols := BuildUnion(tables)
	if stmt == nil {
		return Plan{}
	}
	return Plan{Stmt: stmt, Columns: cols}
}

// contains reports whether the column list has the given name.
func contains(columns []string, name string) bool {
	for _, c := range columns {
		if c == name {
			return true
		}
	}
	return false
}

// typedNull returns a NULL cast to the column's classified type, so
// every branch of a union is column- and type-complete.
func typedNull(column string) query.Expr {
	return query.Cast{
		X:    query.Null{},
		Type: naming.TypeOf(column).SQLType(),
	}
}
