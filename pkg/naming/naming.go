// Package naming implements the column naming convention that drives
// typing and semantics across the whole system. A column's semantic
// type is derived from its name once, at ingestion time, and the same
// convention is applied again when staged queries are composed.
//
// Reserved suffixes: _year, _date, _millions, _value, _ratio,
// _duration, _thousands, _rate. Reserved prefix: is_. Columns named
// `{stem}_cost_local_millions/_currency/_year` form cost triples used
// by normalization, and `start_/est_/act_` prefixes combined with
// `_date/_year/_duration/_completion` drive schedule reconciliation.
package naming

import (
	"strconv"
	"strings"
	"time"
)

// Type is the semantic type of a column, derived from its name.
type Type int

const (
	String Type = iota
	Integer
	Boolean
	Date
	Float
)

// DateFormat is the wire format of date values in source data.
const DateFormat = "2006-01-02"

// StandardDay is the placeholder month/day used when only a year is
// known: year Y becomes the date Y-07-02.
const StandardDay = "-07-02"

// PrimaryKeys are the columns that identify a row in every raw,
// staged and production table.
var PrimaryKeys = []string{"project_id", "sample"}

// rule is one classification rule. Rules are tested in order and the
// first match wins; the final catch-all makes classification total.
type rule struct {
	dtype    Type
	suffixes []string
	prefixes []string
}

var rules = []rule{
	{dtype: Integer, suffixes: []string{"_year"}},
	{dtype: Boolean, prefixes: []string{"is_"}},
	{dtype: Date, suffixes: []string{"_date"}},
	{dtype: Float, suffixes: []string{
		"_millions", "_value", "_ratio", "_duration", "_thousands", "_rate",
	}},
}

// TypeOf classifies a column name. Names matching no reserved suffix
// or prefix fall back to String, so classification never fails.
func TypeOf(column string) Type {
	name := strings.ToLower(column)
	for _, r := range rules {
		for _, suf := range r.suffixes {
			if strings.HasSuffix(name, suf) {
				return r.dtype
			}
		}
		for _, pre := range r.prefixes {
			if strings.HasPrefix(name, pre) {
				return r.dtype
			}
		}
	}
	return String
}

// SQLType returns the PostgreSQL column type for a semantic type.
func (t Type) SQLType() string {
	switch t {
	case Integer:
		return "INTEGER"
	case Boolean:
		return "BOOLEAN"
	case Date:
		return "DATE"
	case Float:
		return "DOUBLE PRECISION"
	default:
		return "VARCHAR"
	}
}

// String implements fmt.Stringer for logs and error messages.
func (t Type) String() string {
	switch t {
	case Integer:
		return "integer"
	case Boolean:
		return "boolean"
	case Date:
		return "date"
	case Float:
		return "float"
	default:
		return "string"
	}
}

var boolTrue = map[string]struct{}{
	"y": {}, "yes": {}, "t": {}, "true": {}, "on": {}, "1": {},
}

// Parse converts a raw string value to the Go value matching the
// column's semantic type. Empty strings are treated as NULL by the
// caller and must not reach Parse.
func Parse(column, value string) (any, error) {
	switch TypeOf(column) {
	case Integer:
		return strconv.Atoi(value)
	case Float:
		return strconv.ParseFloat(value, 64)
	case Boolean:
		_, ok := boolTrue[strings.ToLower(value)]
		return ok, nil
	case Date:
		return time.Parse(DateFormat, value)
	default:
		return value, nil
	}
}

// IsPrimaryKey reports whether the column is part of the system-wide
// primary key.
func IsPrimaryKey(column string) bool {
	for _, pk := range PrimaryKeys {
		if column == pk {
			return true
		}
	}
	return false
}

// DateStem returns the stem of a `{stem}_date` column and true, or
// "" and false if the column is not a date column.
func DateStem(column string) (string, bool) {
	name := strings.ToLower(column)
	if !strings.HasSuffix(name, "_date") {
		return "", false
	}
	return strings.TrimSuffix(name, "_date"), true
}

// YearColumn returns the paired `_year` column for a stem.
func YearColumn(stem string) string {
	return stem + "_year"
}

// DateColumn returns the paired `_date` column for a stem.
func DateColumn(stem string) string {
	return stem + "_date"
}

// ScheduleID extracts the schedule identifier from a
// `start_{id}_date` column: "start_const_date" -> "const". The second
// value is false when the column is not a schedule start date.
func ScheduleID(column string) (string, bool) {
	name := strings.ToLower(column)
	if !strings.HasPrefix(name, "start_") || !strings.HasSuffix(name, "_date") {
		return "", false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(name, "start_"), "_date")
	// start_x_completion_date would otherwise yield "x_completion".
	id = strings.TrimSuffix(id, "_completion")
	return id, true
}

// DurationID splits a `{prefix}_{id}_duration` column into its
// est/act prefix and schedule identifier. The third value is false
// when the column is not an estimated or actual duration.
func DurationID(column string) (prefix, id string, ok bool) {
	name := strings.ToLower(column)
	if !strings.HasSuffix(name, "_duration") {
		return "", "", false
	}
	stem := strings.TrimSuffix(name, "_duration")
	switch {
	case strings.HasPrefix(stem, "est_"):
		return "est", strings.TrimPrefix(stem, "est_"), true
	case strings.HasPrefix(stem, "act_"):
		return "act", strings.TrimPrefix(stem, "act_"), true
	}
	return "", "", false
}

// CostStem extracts the common stem of a `{stem}_cost_local_*`
// column triple: "est_cost_local_millions" -> "est_cost". The second
// value is false when the column carries no cost marker.
func CostStem(column string) (string, bool) {
	name := strings.ToLower(column)
	if !strings.Contains(name, "_cost_local_") {
		return "", false
	}
	stem := strings.TrimSuffix(name, "_year")
	stem = strings.TrimSuffix(stem, "_currency")
	stem = strings.TrimSuffix(stem, "_millions")
	stem = strings.TrimSuffix(stem, "_local")
	return stem, true
}

// IsSource reports whether a column carries citation/source text that
// staging aggregates into the citations column.
func IsSource(column string) bool {
	return strings.Contains(strings.ToLower(column), "source")
}
