// Package query provides a small relational expression tree that the
// staging pipeline composes and renders to PostgreSQL. Building
// queries as typed nodes instead of incremental strings keeps alias
// management explicit and makes the composed SQL testable without a
// live database.
package query

import (
	"fmt"
	"strings"
)

// Expr is a scalar SQL expression node.
type Expr interface {
	writeTo(b *strings.Builder)
}

// Col references a column, optionally qualified by a source alias.
type Col struct {
	Qual string
	Name string
}

func (c Col) writeTo(b *strings.Builder) {
	if c.Qual != "" {
		b.WriteString(c.Qual)
		b.WriteByte('.')
	}
	b.WriteString(c.Name)
}

// Lit is a literal value. Strings are single-quoted with quote
// doubling; numbers render bare; nil renders as NULL.
type Lit struct {
	Value any
}

func (l Lit) writeTo(b *strings.Builder) {
	switch v := l.Value.(type) {
	case nil:
		b.WriteString("NULL")
	case string:
		b.WriteByte('\'')
		b.WriteString(strings.ReplaceAll(v, "'", "''"))
		b.WriteByte('\'')
	default:
		fmt.Fprintf(b, "%v", v)
	}
}

// Null is the untyped NULL literal. Wrap in Cast to produce the
// typed NULLs required by union reconciliation.
type Null struct{}

func (Null) writeTo(b *strings.Builder) {
	b.WriteString("NULL")
}

// Cast renders CAST(x AS type).
type Cast struct {
	X    Expr
	Type string
}

func (c Cast) writeTo(b *strings.Builder) {
	b.WriteString("CAST(")
	c.X.writeTo(b)
	b.WriteString(" AS ")
	b.WriteString(c.Type)
	b.WriteByte(')')
}

// Bin is a binary operation, parenthesized to keep composed
// arithmetic unambiguous.
type Bin struct {
	Op   string
	L, R Expr
}

func (o Bin) writeTo(b *strings.Builder) {
	b.WriteByte('(')
	o.L.writeTo(b)
	b.WriteByte(' ')
	b.WriteString(o.Op)
	b.WriteByte(' ')
	o.R.writeTo(b)
	b.WriteByte(')')
}

// Func is a function call.
type Func struct {
	Name string
	Args []Expr
}

func (f Func) writeTo(b *strings.Builder) {
	b.WriteString(f.Name)
	b.WriteByte('(')
	for i, a := range f.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		a.writeTo(b)
	}
	b.WriteByte(')')
}

// Extract renders EXTRACT(part FROM x).
type Extract struct {
	Part string
	X    Expr
}

func (e Extract) writeTo(b *strings.Builder) {
	b.WriteString("EXTRACT(")
	b.WriteString(e.Part)
	b.WriteString(" FROM ")
	e.X.writeTo(b)
	b.WriteByte(')')
}

// IsNull renders `x IS NULL` or `x IS NOT NULL`.
type IsNull struct {
	X   Expr
	Not bool
}

func (i IsNull) writeTo(b *strings.Builder) {
	b.WriteByte('(')
	i.X.writeTo(b)
	if i.Not {
		b.WriteString(" IS NOT NULL")
	} else {
		b.WriteString(" IS NULL")
	}
	b.WriteByte(')')
}

// And is a conjunction of conditions.
type And struct {
	Xs []Expr
}

func (a And) writeTo(b *strings.Builder) {
	b.WriteByte('(')
	for i, x := range a.Xs {
		if i > 0 {
			b.WriteString(" AND ")
		}
		x.writeTo(b)
	}
	b.WriteByte(')')
}

// Eq renders an equality comparison.
type Eq struct {
	L, R Expr
}

func (e Eq) writeTo(b *strings.Builder) {
	b.WriteByte('(')
	e.L.writeTo(b)
	b.WriteString(" = ")
	e.R.writeTo(b)
	b.WriteByte(')')
}

// When is one branch of a Case expression.
type When struct {
	Cond Expr
	Then Expr
}

// Case renders a searched CASE expression.
type Case struct {
	Whens []When
	Else  Expr
}

func (c Case) writeTo(b *strings.Builder) {
	b.WriteString("CASE")
	for _, w := range c.Whens {
		b.WriteString(" WHEN ")
		w.Cond.writeTo(b)
		b.WriteString(" THEN ")
		w.Then.writeTo(b)
	}
	if c.Else != nil {
		b.WriteString(" ELSE ")
		c.Else.writeTo(b)
	}
	b.WriteString(" END")
}

// Array is a PostgreSQL array constructor: ARRAY[a, b, ...].
type Array struct {
	Xs []Expr
}

func (a Array) writeTo(b *strings.Builder) {
	b.WriteString("ARRAY[")
	for i, x := range a.Xs {
		if i > 0 {
			b.WriteString(", ")
		}
		x.writeTo(b)
	}
	b.WriteByte(']')
}

// Scalar embeds a select as a scalar subquery.
type Scalar struct {
	Sel *Select
}

func (s Scalar) writeTo(b *strings.Builder) {
	b.WriteByte('(')
	b.WriteString(s.Sel.SQL())
	b.WriteByte(')')
}

// Item is one select-list entry. As may be empty for plain column
// passthrough.
type Item struct {
	X  Expr
	As string
}

// Source is a FROM-clause source: a physical table or a subquery.
type Source interface {
	writeSource(b *strings.Builder)
}

// Table references a physical table. Schema and name are quoted.
type Table struct {
	Schema string
	Name   string
	Alias  string
}

func (t Table) writeSource(b *strings.Builder) {
	if t.Schema != "" {
		b.WriteByte('"')
		b.WriteString(t.Schema)
		b.WriteString(`".`)
	}
	b.WriteByte('"')
	b.WriteString(t.Name)
	b.WriteByte('"')
	if t.Alias != "" {
		b.WriteString(" AS ")
		b.WriteString(t.Alias)
	}
}

// Subquery wraps a statement as a FROM-clause source. An alias is
// required by PostgreSQL.
type Subquery struct {
	Stmt  Statement
	Alias string
}

func (s Subquery) writeSource(b *strings.Builder) {
	b.WriteByte('(')
	b.WriteString(s.Stmt.SQL())
	b.WriteString(") AS ")
	b.WriteString(s.Alias)
}

// Join is a join clause. Kind defaults to LEFT: the staging pipeline
// must never drop rows because reference data is missing.
type Join struct {
	Kind string
	Src  Source
	On   Expr
}

// Select is a select statement.
type Select struct {
	Items []Item
	From  Source
	Joins []Join
	Where Expr
}

// Statement is a renderable query: a Select or a Union.
type Statement interface {
	SQL() string
}

// SQL renders the select to PostgreSQL.
func (s *Select) SQL() string {
	var b strings.Builder
	b.WriteString("SELECT ")
	for i, it := range s.Items {
		if i > 0 {
			b.WriteString(", ")
		}
		it.X.writeTo(&b)
		if it.As != "" {
			b.WriteString(" AS ")
			b.WriteString(it.As)
		}
	}
	if s.From != nil {
		b.WriteString(" FROM ")
		s.From.writeSource(&b)
	}
	for _, j := range s.Joins {
		kind := j.Kind
		if kind == "" {
			kind = "LEFT"
		}
		b.WriteByte(' ')
		b.WriteString(kind)
		b.WriteString(" JOIN ")
		j.Src.writeSource(&b)
		b.WriteString(" ON ")
		j.On.writeTo(&b)
	}
	if s.Where != nil {
		b.WriteString(" WHERE ")
		s.Where.writeTo(&b)
	}
	return b.String()
}

// Union is a distinct union of selects, in input order.
type Union struct {
	Selects []*Select
}

// SQL renders the union to PostgreSQL.
func (u *Union) SQL() string {
	parts := make([]string, len(u.Selects))
	for i, s := range u.Selects {
		parts[i] = s.SQL()
	}
	return strings.Join(parts, " UNION ")
}

// Aliases generates subquery and join aliases scoped to one composed
// query, replacing any process-wide shared state. Aliases are t1, t2,
// t3... in request order.
type Aliases struct {
	n int
}

// Next returns a fresh alias.
func (a *Aliases) Next() string {
	a.n++
	return fmt.Sprintf("t%d", a.n)
}
