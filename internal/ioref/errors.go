package ioref

import (
	"fmt"
	"strings"

	"github.com/gnames/gn"
	"github.com/projbank/pbdb/pkg/errcode"
	"github.com/projbank/pbdb/pkg/schema"
)

// UnknownSeriesError creates an error for an unrecognized
// reference series name.
func UnknownSeriesError(series string) error {
	var names []string
	for _, s := range schema.RefSeriesList() {
		names = append(names, s.Name)
	}

	msg := `Unknown reference series

<em>Series:</em> %s
<em>Known series:</em> %s`

	return &gn.Error{
		Code: errcode.RefUnknownSeriesError,
		Msg:  msg,
		Vars: []any{series, strings.Join(names, ", ")},
		Err:  fmt.Errorf("unknown reference series %s", series),
	}
}

// FetchError creates an error for a failed reference API call.
func FetchError(indicator, url string, err error) error {
	msg := `Cannot fetch reference data

<em>Indicator:</em> %s
<em>URL:</em> %s

<em>Possible causes:</em>
  - No network connection
  - Reference API is down or rate limiting

<em>How to fix:</em>
  1. Check network connectivity
  2. Retry later`

	return &gn.Error{
		Code: errcode.RefFetchError,
		Msg:  msg,
		Vars: []any{indicator, url},
		Err:  fmt.Errorf("cannot fetch indicator %s: %w", indicator, err),
	}
}

// DecodeError creates an error for a reference API response
// that cannot be parsed.
func DecodeError(indicator string, err error) error {
	msg := `Cannot parse reference API response

<em>Indicator:</em> %s

The API may have changed its response format.`

	return &gn.Error{
		Code: errcode.RefFetchError,
		Msg:  msg,
		Vars: []any{indicator},
		Err:  fmt.Errorf("cannot decode indicator %s response: %w", indicator, err),
	}
}

// LoadError creates an error for a failed reference table load.
func LoadError(series, table string, err error) error {
	msg := `Cannot load reference series into database

<em>Series:</em> %s
<em>Table:</em> %s.%s

<em>How to fix:</em>
  1. Run pbdb create to ensure reference tables exist
  2. Retry the load`

	return &gn.Error{
		Code: errcode.RefLoadError,
		Msg:  msg,
		Vars: []any{series, schema.RefSchema, table},
		Err:  fmt.Errorf("cannot load series %s: %w", series, err),
	}
}
