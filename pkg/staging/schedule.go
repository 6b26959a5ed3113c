package staging

import (
	"github.com/projbank/pbdb/pkg/naming"
	"github.com/projbank/pbdb/pkg/query"
)

// BuildSchedule derives schedule metadata in three layers:
//
//  1. for every `start_{id}_date` column, guarantee the structural
//     presence of the start year, estimated completion date/year and
//     both duration columns (NULL-filled when absent);
//  2. for every `{stem}_date`/`{stem}_year` pair, fill the missing
//     half of the pair per row (year from date, or date from year
//     using the placeholder day);
//  3. compute NULL est/act durations as (completion - start)/365.
func BuildSchedule(
	base query.Statement,
	columns []string,
	al *query.Aliases,
) (query.Statement, []string) {
	base, columns = ensureScheduleColumns(base, columns, al)
	base = fillDateYearPairs(base, columns, al)
	base = computeDurations(base, columns, al)
	return base, columns
}

// scheduleCompanions lists the columns that must exist once a
// `start_{id}_date` column is observed anywhere in the asset class.
func scheduleCompanions(id string) []string {
	return []string{
		"start_" + id + "_date",
		"start_" + id + "_year",
		"est_" + id + "_completion_date",
		"est_" + id + "_completion_year",
		"est_" + id + "_duration",
		"act_" + id + "_duration",
	}
}

func ensureScheduleColumns(
	base query.Statement,
	columns []string,
	al *query.Aliases,
) (query.Statement, []string) {
	var added []string
	have := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		have[c] = struct{}{}
	}
	for _, c := range columns {
		id, ok := naming.ScheduleID(c)
		if !ok {
			continue
		}
		for _, comp := range scheduleCompanions(id) {
			if _, ok := have[comp]; ok {
				continue
			}
			have[comp] = struct{}{}
			added = append(added, comp)
		}
	}
	if len(added) == 0 {
		return base, columns
	}

	sel := &query.Select{
		From: query.Subquery{Stmt: base, Alias: al.Next()},
	}
	for _, c := range columns {
		sel.Items = append(sel.Items, query.Item{X: query.Col{Name: c}})
	}
	for _, c := range added {
		sel.Items = append(sel.Items, query.Item{X: typedNull(c), As: c})
	}
	return sel, append(columns, added...)
}

// dateFromYear reconstructs a date from a year column using the
// placeholder day: year Y -> date Y-07-02.
func dateFromYear(year query.Expr) query.Expr {
	return query.Cast{
		X:    query.Func{Name: "CONCAT", Args: []query.Expr{year, query.Lit{Value: naming.StandardDay}}},
		Type: "DATE",
	}
}

func fillDateYearPairs(
	base query.Statement,
	columns []string,
	al *query.Aliases,
) query.Statement {
	items := make([]query.Item, 0, len(columns))
	derived := false
	for _, c := range columns {
		stem, isDate := naming.DateStem(c)
		switch {
		case isDate && contains(columns, naming.YearColumn(stem)):
			dateCol := query.Col{Name: c}
			yearCol := query.Col{Name: naming.YearColumn(stem)}
			items = append(items, query.Item{
				X: query.Case{
					Whens: []query.When{{
						Cond: query.And{Xs: []query.Expr{
							query.IsNull{X: dateCol},
							query.IsNull{X: yearCol, Not: true},
						}},
						Then: dateFromYear(yearCol),
					}},
					Else: dateCol,
				},
				As: c,
			})
			derived = true
		case isYearWithDate(c, columns):
			yearCol := query.Col{Name: c}
			dateCol := query.Col{Name: naming.DateColumn(yearStem(c))}
			items = append(items, query.Item{
				X: query.Case{
					Whens: []query.When{{
						Cond: query.IsNull{X: yearCol},
						Then: query.Cast{
							X:    query.Extract{Part: "YEAR", X: dateCol},
							Type: "INTEGER",
						},
					}},
					Else: yearCol,
				},
				As: c,
			})
			derived = true
		default:
			items = append(items, query.Item{X: query.Col{Name: c}})
		}
	}
	if !derived {
		return base
	}
	return &query.Select{
		Items: items,
		From:  query.Subquery{Stmt: base, Alias: al.Next()},
	}
}

func yearStem(column string) string {
	return column[:len(column)-len("_year")]
}

func isYearWithDate(column string, columns []string) bool {
	if len(column) <= len("_year") ||
		column[len(column)-len("_year"):] != "_year" {
		return false
	}
	return contains(columns, naming.DateColumn(yearStem(column)))
}

// endpoint resolves a schedule endpoint to a date: the date column
// when populated, otherwise the date reconstructed from the year
// column via the placeholder day.
func endpoint(dateName, yearName string) query.Expr {
	dateCol := query.Col{Name: dateName}
	yearCol := query.Col{Name: yearName}
	return query.Case{
		Whens: []query.When{{
			Cond: query.And{Xs: []query.Expr{
				query.IsNull{X: dateCol},
				query.IsNull{X: yearCol, Not: true},
			}},
			Then: dateFromYear(yearCol),
		}},
		Else: dateCol,
	}
}

func computeDurations(
	base query.Statement,
	columns []string,
	al *query.Aliases,
) query.Statement {
	items := make([]query.Item, 0, len(columns))
	derived := false
	for _, c := range columns {
		prefix, id, ok := naming.DurationID(c)
		if !ok || !hasDurationInputs(columns, prefix, id) {
			// Structural absence of any input leaves the column
			// untouched; per-row NULLs are handled inside the CASE.
			items = append(items, query.Item{X: query.Col{Name: c}})
			continue
		}
		dur := query.Col{Name: c}
		start := endpoint("start_"+id+"_date", "start_"+id+"_year")
		end := endpoint(
			prefix+"_"+id+"_completion_date",
			prefix+"_"+id+"_completion_year",
		)
		days := query.Cast{
			X:    query.Bin{Op: "-", L: end, R: start},
			Type: "DOUBLE PRECISION",
		}
		items = append(items, query.Item{
			X: query.Case{
				Whens: []query.When{{
					Cond: query.IsNull{X: dur},
					Then: query.Bin{Op: "/", L: days, R: query.Lit{Value: 365.0}},
				}},
				Else: dur,
			},
			As: c,
		})
		derived = true
	}
	if !derived {
		return base
	}
	return &query.Select{
		Items: items,
		From:  query.Subquery{Stmt: base, Alias: al.Next()},
	}
}

// hasDurationInputs checks the structural presence of all four
// duration inputs: start date/year and the prefix's completion
// date/year.
func hasDurationInputs(columns []string, prefix, id string) bool {
	needed := []string{
		"start_" + id + "_date",
		"start_" + id + "_year",
		prefix + "_" + id + "_completion_date",
		prefix + "_" + id + "_completion_year",
	}
	for _, n := range needed {
		if !contains(columns, n) {
			return false
		}
	}
	return true
}
