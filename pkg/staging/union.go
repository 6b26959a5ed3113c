package staging

import (
	"github.com/projbank/pbdb/pkg/naming"
	"github.com/projbank/pbdb/pkg/query"
)

// BuildUnion merges tables with divergent column sets into one
// row-preserving union. Every output row carries the full column set
// observed across any input, in first-seen order; a table lacking a
// column contributes a NULL cast to the column's classified type.
//
// If a `_date` column exists anywhere but its `_year` partner does
// not, the partner is synthesized NULL-filled, so later stages can
// rely on both halves of a pair being present once either is.
//
// An empty table list yields (nil, nil); the caller decides what an
// empty asset class materializes to.
func BuildUnion(tables []TableMeta) (*query.Union, []string) {
	if len(tables) == 0 {
		return nil, nil
	}

	columns := reconcileColumns(tables)

	u := &query.Union{}
	for _, t := range tables {
		has := make(map[string]struct{}, len(t.Columns))
		for _, c := range t.Columns {
			has[c] = struct{}{}
		}
		sel := &query.Select{
			From: query.Table{Schema: t.Schema, Name: t.Name},
		}
		for _, c := range columns {
			if _, ok := has[c]; ok {
				sel.Items = append(sel.Items, query.Item{X: query.Col{Name: c}})
			} else {
				sel.Items = append(sel.Items,
					query.Item{X: typedNull(c), As: c})
			}
		}
		u.Selects = append(u.Selects, sel)
	}
	return u, columns
}

// reconcileColumns collects the full column set in first-seen order
// and appends missing `_year` partners of `_date` columns.
func reconcileColumns(tables []TableMeta) []string {
	var columns []string
	seen := make(map[string]struct{})
	for _, t := range tables {
		for _, c := range t.Columns {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			columns = append(columns, c)
		}
	}
	for _, c := range columns {
		stem, ok := naming.DateStem(c)
		if !ok {
			continue
		}
		yr := naming.YearColumn(stem)
		if _, ok := seen[yr]; !ok {
			seen[yr] = struct{}{}
			columns = append(columns, yr)
		}
	}
	return columns
}
