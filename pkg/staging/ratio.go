package staging

import (
	"strings"

	"github.com/projbank/pbdb/pkg/query"
)

// BuildRatios derives actual/estimated comparison columns:
//
//   - `schedule_{id}_ratio` for every act/est duration pair,
//   - `{stem}_usd_gdp_ratio` for every act/est normalized cost pair.
//
// Denominators are wrapped in NULLIF so division by zero degrades to
// NULL; ratios are best-effort analytics, never errors.
func BuildRatios(
	base query.Statement,
	columns []string,
	al *query.Aliases,
) (query.Statement, []string) {
	type ratio struct {
		name     string
		act, est string
	}
	var ratios []ratio
	for _, c := range columns {
		switch {
		case strings.HasPrefix(c, "act_") && strings.HasSuffix(c, "_duration"):
			id := strings.TrimSuffix(strings.TrimPrefix(c, "act_"), "_duration")
			est := "est_" + id + "_duration"
			if contains(columns, est) {
				ratios = append(ratios, ratio{
					name: "schedule_" + id + "_ratio",
					act:  c,
					est:  est,
				})
			}
		case strings.HasPrefix(c, "est_") && strings.HasSuffix(c, "_norm_millions"):
			stem := strings.TrimSuffix(strings.TrimPrefix(c, "est_"), "_norm_millions")
			act := "act_" + stem + "_norm_millions"
			if contains(columns, act) {
				ratios = append(ratios, ratio{
					name: stem + "_usd_gdp_ratio",
					act:  act,
					est:  c,
				})
			}
		}
	}
	if len(ratios) == 0 {
		return base, columns
	}

	sel := &query.Select{
		From: query.Subquery{Stmt: base, Alias: al.Next()},
	}
	for _, c := range columns {
		sel.Items = append(sel.Items, query.Item{X: query.Col{Name: c}})
	}
	out := append([]string{}, columns...)
	for _, r := range ratios {
		sel.Items = append(sel.Items, query.Item{
			X: query.Bin{
				Op: "/",
				L:  query.Col{Name: r.act},
				R: query.Func{
					Name: "NULLIF",
					Args: []query.Expr{query.Col{Name: r.est}, query.Lit{Value: 0}},
				},
			},
			As: r.name,
		})
		out = append(out, r.name)
	}
	return sel, out
}
