package ioingest

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/projbank/pbdb/pkg/pbdb"
)

// csvSource adapts a CSV stream to the RowSource interface.
// Header names are lowercased and trimmed so the naming
// convention applies uniformly.
type csvSource struct {
	reader  *csv.Reader
	columns []string
	closer  io.Closer
}

// NewCSVSource creates a RowSource from a CSV stream. The first
// record is taken as the header.
func NewCSVSource(r io.Reader) (pbdb.RowSource, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, HeaderError(err)
	}

	cols := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		cols[i] = strings.ToLower(strings.TrimSpace(h))
	}

	return &csvSource{reader: cr, columns: cols}, nil
}

// NewCSVFileSource opens a CSV file as a RowSource. Close
// releases the file handle.
func NewCSVFileSource(path string) (pbdb.RowSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, OpenFileError(path, err)
	}

	src, err := NewCSVSource(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	src.(*csvSource).closer = f
	return src, nil
}

// Columns returns the header of the stream.
func (c *csvSource) Columns() []string {
	return c.columns
}

// Next returns the next row keyed by column name. Short rows
// leave trailing columns empty, long rows drop the extras.
func (c *csvSource) Next() (map[string]string, bool, error) {
	rec, err := c.reader.Read()
	if err == io.EOF {
		if c.closer != nil {
			c.closer.Close()
		}
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	row := make(map[string]string, len(c.columns))
	for i, col := range c.columns {
		if i < len(rec) {
			row[col] = rec[i]
		}
	}
	return row, true, nil
}
