package ioingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceSource is a RowSource backed by in-memory rows.
type sliceSource struct {
	cols []string
	rows []map[string]string
	pos  int
}

func (s *sliceSource) Columns() []string { return s.cols }

func (s *sliceSource) Next() (map[string]string, bool, error) {
	if s.pos >= len(s.rows) {
		return nil, false, nil
	}
	row := s.rows[s.pos]
	s.pos++
	return row, true, nil
}

func TestCheckColumns(t *testing.T) {
	tests := []struct {
		name    string
		cols    []string
		wantErr bool
	}{
		{"valid", []string{"project_id", "sample", "city"}, false},
		{"keys only", []string{"project_id", "sample"}, false},
		{"duplicate column", []string{"project_id", "sample", "city", "city"}, true},
		{"missing project_id", []string{"sample", "city"}, true},
		{"missing sample", []string{"project_id", "city"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkColumns(tt.cols)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReadRows_TypedValues(t *testing.T) {
	cols := []string{
		"project_id", "sample",
		"opening_year", "is_rail", "start_const_date",
		"est_cost_local_millions",
	}
	src := &sliceSource{
		cols: cols,
		rows: []map[string]string{{
			"project_id":              "p1",
			"sample":                  "a",
			"opening_year":            "1998",
			"is_rail":                 "yes",
			"start_const_date":        "1994-07-02",
			"est_cost_local_millions": "120.5",
		}},
	}

	rows, err := readRows(cols, src)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "p1", row[0])
	assert.Equal(t, 1998, row[2])
	assert.Equal(t, true, row[3])
	d, ok := row[4].(time.Time)
	require.True(t, ok)
	assert.Equal(t, 1994, d.Year())
	assert.Equal(t, 120.5, row[5])
}

func TestReadRows_EmptyCellsBecomeNull(t *testing.T) {
	cols := []string{"project_id", "sample", "opening_year"}
	src := &sliceSource{
		cols: cols,
		rows: []map[string]string{{
			"project_id":   "p1",
			"sample":       "a",
			"opening_year": "  ",
		}},
	}

	rows, err := readRows(cols, src)
	require.NoError(t, err)
	assert.Nil(t, rows[0][2])
}

func TestReadRows_EmptyKeyRejected(t *testing.T) {
	cols := []string{"project_id", "sample"}
	src := &sliceSource{
		cols: cols,
		rows: []map[string]string{
			{"project_id": "p1", "sample": "a"},
			{"project_id": "", "sample": "b"},
		},
	}

	_, err := readRows(cols, src)
	assert.Error(t, err)
}

func TestReadRows_BadValueRejected(t *testing.T) {
	cols := []string{"project_id", "sample", "opening_year"}
	src := &sliceSource{
		cols: cols,
		rows: []map[string]string{{
			"project_id":   "p1",
			"sample":       "a",
			"opening_year": "someday",
		}},
	}

	_, err := readRows(cols, src)
	assert.Error(t, err)
}
