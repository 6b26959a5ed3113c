package staging

import (
	"github.com/projbank/pbdb/pkg/naming"
	"github.com/projbank/pbdb/pkg/query"
)

// BuildCitations collapses all source/citation columns into a single
// `citations` column (non-NULL source texts joined by "; ") and drops
// the individual source columns from the output. Rendering the result
// as text rather than a Postgres array keeps the production union
// type-stable when some staged tables never had source columns.
func BuildCitations(
	base query.Statement,
	columns []string,
	al *query.Aliases,
) (query.Statement, []string) {
	var sources []string
	for _, c := range columns {
		if naming.IsSource(c) {
			sources = append(sources, c)
		}
	}
	if len(sources) == 0 {
		return base, columns
	}

	sel := &query.Select{
		From: query.Subquery{Stmt: base, Alias: al.Next()},
	}
	var out []string
	for _, c := range columns {
		if naming.IsSource(c) {
			continue
		}
		sel.Items = append(sel.Items, query.Item{X: query.Col{Name: c}})
		out = append(out, c)
	}

	arr := query.Array{}
	for _, s := range sources {
		arr.Xs = append(arr.Xs, query.Col{Name: s})
	}
	sel.Items = append(sel.Items, query.Item{
		X: query.Func{
			Name: "ARRAY_TO_STRING",
			Args: []query.Expr{
				query.Func{Name: "ARRAY_REMOVE", Args: []query.Expr{arr, query.Null{}}},
				query.Lit{Value: "; "},
			},
		},
		As: "citations",
	})
	return sel, append(out, "citations")
}
