package staging

import (
	"github.com/projbank/pbdb/pkg/naming"
	"github.com/projbank/pbdb/pkg/query"
	"github.com/projbank/pbdb/pkg/schema"
)

// BuildNormalize joins every `{stem}_cost_local_millions` column
// against the reference series and emits currency- and
// inflation-normalized values:
//
//	{stem}_norm_millions = local x fx(USA, hist) x defl(own, latest)
//	                       / fx(own, hist) / defl(own, hist)
//
// plus a PPP variant substituting PPP conversion factors for the two
// exchange-rate legs, and `{stem}_norm_currency`/`{stem}_norm_year`
// companions. All reference joins are LEFT joins: missing reference
// rows degrade the normalized columns to NULL, they never drop the
// project row. Every stem shares the same latest-year deflator
// snapshot so cross-stem ratios stay on one basis.
func BuildNormalize(
	base query.Statement,
	columns []string,
	al *query.Aliases,
) (query.Statement, []string) {
	stems := costStems(columns)
	if len(stems) == 0 || !contains(columns, schema.ColCountryISO3) {
		// Without cost columns or a country key there is nothing
		// to join on; structural absence is not an error.
		return base, columns
	}

	a := al.Next()
	sel := &query.Select{
		From: query.Subquery{Stmt: base, Alias: a},
	}
	for _, c := range columns {
		sel.Items = append(sel.Items, query.Item{X: query.Col{Qual: a, Name: c}})
	}

	country := query.Col{Qual: a, Name: schema.ColCountryISO3}

	// Latest-year deflators for the row's own country: one shared
	// snapshot for all stems.
	latest := al.Next()
	sel.Joins = append(sel.Joins, query.Join{
		Src: query.Subquery{
			Stmt:  latestYearSelect("gdp_deflators", "deflation_factor"),
			Alias: latest,
		},
		On: query.Eq{
			L: country,
			R: query.Col{Qual: latest, Name: schema.ColCountryISO3},
		},
	})

	out := append([]string{}, columns...)
	for _, stem := range stems {
		valCol := query.Col{Qual: a, Name: stem + "_local_millions"}
		yearCol := query.Col{Qual: a, Name: stem + "_local_year"}

		fxOwn := joinHistorical(sel, al, "exchange_rates", country, yearCol)
		fxUSA := joinAnchor(sel, al, "exchange_rates", "exchange_rate", yearCol)
		deflOwn := joinHistorical(sel, al, "gdp_deflators", country, yearCol)
		pppOwn := joinHistorical(sel, al, "ppp_rates", country, yearCol)
		pppUSA := joinAnchor(sel, al, "ppp_rates", "ppp_rate", yearCol)

		norm := ratioChain(valCol,
			query.Col{Qual: fxUSA, Name: "exchange_rate"},
			query.Col{Qual: latest, Name: "deflation_factor"},
			query.Col{Qual: fxOwn, Name: "exchange_rate"},
			query.Col{Qual: deflOwn, Name: "deflation_factor"},
		)
		ppp := ratioChain(valCol,
			query.Col{Qual: pppUSA, Name: "ppp_rate"},
			query.Col{Qual: latest, Name: "deflation_factor"},
			query.Col{Qual: pppOwn, Name: "ppp_rate"},
			query.Col{Qual: deflOwn, Name: "deflation_factor"},
		)

		sel.Items = append(sel.Items,
			query.Item{X: norm, As: stem + "_norm_millions"},
			query.Item{X: ppp, As: stem + "_norm_ppp_millions"},
			query.Item{X: query.Lit{Value: "USD"}, As: stem + "_norm_currency"},
			query.Item{
				X:  query.Col{Qual: latest, Name: schema.ColYear},
				As: stem + "_norm_year",
			},
		)
		out = append(out,
			stem+"_norm_millions",
			stem+"_norm_ppp_millions",
			stem+"_norm_currency",
			stem+"_norm_year",
		)
	}
	return sel, out
}

// costStems returns distinct cost stems in order of appearance. A
// stem is only usable when both its value and year columns exist
// structurally.
func costStems(columns []string) []string {
	var stems []string
	seen := make(map[string]struct{})
	for _, c := range columns {
		stem, ok := naming.CostStem(c)
		if !ok {
			continue
		}
		if _, dup := seen[stem]; dup {
			continue
		}
		seen[stem] = struct{}{}
		if contains(columns, stem+"_local_millions") &&
			contains(columns, stem+"_local_year") {
			stems = append(stems, stem)
		}
	}
	return stems
}

// latestYearSelect selects a reference series restricted to its own
// maximum year.
func latestYearSelect(table, valueCol string) *query.Select {
	src := query.Table{Schema: schema.RefSchema, Name: table}
	return &query.Select{
		Items: []query.Item{
			{X: query.Col{Name: schema.ColCountryISO3}},
			{X: query.Col{Name: schema.ColYear}},
			{X: query.Col{Name: valueCol}},
		},
		From: src,
		Where: query.Eq{
			L: query.Col{Name: schema.ColYear},
			R: query.Scalar{Sel: &query.Select{
				Items: []query.Item{{
					X: query.Func{
						Name: "MAX",
						Args: []query.Expr{query.Col{Name: schema.ColYear}},
					},
				}},
				From: src,
			}},
		},
	}
}

// joinHistorical LEFT-joins a reference table on the row's own
// country and the cost's historical year, returning the join alias.
func joinHistorical(
	sel *query.Select,
	al *query.Aliases,
	table string,
	country, year query.Expr,
) string {
	alias := al.Next()
	sel.Joins = append(sel.Joins, query.Join{
		Src: query.Table{Schema: schema.RefSchema, Name: table, Alias: alias},
		On: query.And{Xs: []query.Expr{
			query.Eq{L: country, R: query.Col{Qual: alias, Name: schema.ColCountryISO3}},
			query.Eq{L: year, R: query.Col{Qual: alias, Name: schema.ColYear}},
		}},
	})
	return alias
}

// joinAnchor LEFT-joins a reference table restricted to the anchor
// country (USA) on the cost's historical year.
func joinAnchor(
	sel *query.Select,
	al *query.Aliases,
	table, valueCol string,
	year query.Expr,
) string {
	alias := al.Next()
	sel.Joins = append(sel.Joins, query.Join{
		Src: query.Subquery{
			Stmt: &query.Select{
				Items: []query.Item{
					{X: query.Col{Name: schema.ColCountryISO3}},
					{X: query.Col{Name: schema.ColYear}},
					{X: query.Col{Name: valueCol}},
				},
				From: query.Table{Schema: schema.RefSchema, Name: table},
				Where: query.Eq{
					L: query.Col{Name: schema.ColCountryISO3},
					R: query.Lit{Value: schema.AnchorCountry},
				},
			},
			Alias: alias,
		},
		On: query.Eq{L: year, R: query.Col{Qual: alias, Name: schema.ColYear}},
	})
	return alias
}

// ratioChain renders val x a x b / c / d, the shared shape of both
// normalization formulas.
func ratioChain(val, a, b, c, d query.Expr) query.Expr {
	return query.Bin{
		Op: "/",
		L: query.Bin{
			Op: "/",
			L:  query.Bin{Op: "*", L: query.Bin{Op: "*", L: val, R: a}, R: b},
			R:  c,
		},
		R: d,
	}
}
