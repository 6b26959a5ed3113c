// Package ioref implements the RefLoader interface. It
// downloads country-year reference series (exchange rates, GDP
// deflators, PPP conversion factors) from the World Bank API
// and maintains the reference tables. This is an impure I/O
// package that implements contracts defined in pkg/.
package ioref

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnfmt"
	"github.com/projbank/pbdb/internal/iodb"
	"github.com/projbank/pbdb/pkg/config"
	"github.com/projbank/pbdb/pkg/pbdb"
	"github.com/projbank/pbdb/pkg/schema"
)

// loader implements the pbdb.RefLoader interface.
type loader struct {
	operator iodb.Operator
	cfg      *config.Config
	client   *http.Client
	enc      gnfmt.Encoder
}

// NewLoader creates a new RefLoader.
func NewLoader(op iodb.Operator, cfg *config.Config) pbdb.RefLoader {
	return &loader{
		operator: op,
		cfg:      cfg,
		client:   &http.Client{Timeout: 2 * time.Minute},
		enc:      gnfmt.GNjson{},
	}
}

// wbPage is the pagination envelope of a World Bank API
// response.
type wbPage struct {
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Total int `json:"total"`
}

// wbObservation is one data point of a World Bank indicator.
type wbObservation struct {
	CountryISO3 string   `json:"countryiso3code"`
	Date        string   `json:"date"`
	Value       *float64 `json:"value"`
}

// wbResponse matches the two-element response array: envelope
// first, observations second.
type wbResponse []json.RawMessage

// Fetch downloads all observations of a series, walking the
// API's pagination. Observations without a value, without a
// three-letter country code, or without a plain-year date are
// skipped. Named aggregates (WLD, EUU) carry valid codes and
// are kept; staged data joins on real country codes only.
func (l *loader) Fetch(
	ctx context.Context,
	series string,
) ([]pbdb.RefRecord, error) {
	s, ok := schema.RefSeriesByName(series)
	if !ok {
		return nil, UnknownSeriesError(series)
	}

	var recs []pbdb.RefRecord
	page := 1
	for {
		envelope, obs, err := l.fetchPage(ctx, s.Indicator, page)
		if err != nil {
			return nil, err
		}

		for _, o := range obs {
			if o.Value == nil || len(o.CountryISO3) != 3 {
				continue
			}
			year, err := strconv.Atoi(o.Date)
			if err != nil {
				continue
			}
			recs = append(recs, pbdb.RefRecord{
				CountryISO3: o.CountryISO3,
				Year:        year,
				Value:       *o.Value,
			})
		}

		if page >= envelope.Pages {
			break
		}
		page++
	}

	slog.Info("Fetched reference series",
		"series", series,
		"indicator", s.Indicator,
		"observations", humanize.Comma(int64(len(recs))),
	)

	return recs, nil
}

func (l *loader) fetchPage(
	ctx context.Context,
	indicator string,
	page int,
) (*wbPage, []wbObservation, error) {
	url := fmt.Sprintf(
		"%s/country/all/indicator/%s?format=json&per_page=%d&page=%d",
		l.cfg.Reference.APIURL, indicator, l.cfg.Reference.PageSize, page,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, FetchError(indicator, url, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, nil, FetchError(indicator, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, FetchError(indicator, url,
			fmt.Errorf("unexpected status %s", resp.Status))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, FetchError(indicator, url, err)
	}

	var raw wbResponse
	if err := l.enc.Decode(body, &raw); err != nil {
		return nil, nil, DecodeError(indicator, err)
	}
	if len(raw) < 2 {
		return nil, nil, DecodeError(indicator,
			fmt.Errorf("response has %d elements, want 2", len(raw)))
	}

	var envelope wbPage
	if err := l.enc.Decode(raw[0], &envelope); err != nil {
		return nil, nil, DecodeError(indicator, err)
	}

	var obs []wbObservation
	if err := l.enc.Decode(raw[1], &obs); err != nil {
		return nil, nil, DecodeError(indicator, err)
	}

	return &envelope, obs, nil
}

// Load replaces the stored observations of a series. The table
// is truncated first, so a load is always a full refresh.
func (l *loader) Load(
	ctx context.Context,
	series string,
	recs []pbdb.RefRecord,
) error {
	s, ok := schema.RefSeriesByName(series)
	if !ok {
		return UnknownSeriesError(series)
	}

	if err := l.operator.Truncate(ctx, schema.RefSchema, s.Table); err != nil {
		return err
	}

	// 3 parameters per row keeps batches well under the 65535
	// parameter limit.
	batchSize := l.cfg.Database.BatchSize
	insertPrefix := fmt.Sprintf(
		"INSERT INTO %s.%s (%s, %s, %s) VALUES ",
		schema.RefSchema, s.Table,
		schema.ColCountryISO3, schema.ColYear, s.ValueColumn,
	)

	var total int
	for i := 0; i < len(recs); i += batchSize {
		end := i + batchSize
		end = slices.Min([]int{end, len(recs)})

		batch := recs[i:end]

		var valueStrings []string
		var valueArgs []any
		argIdx := 1

		for _, rec := range batch {
			valueStrings = append(
				valueStrings,
				fmt.Sprintf("($%d, $%d, $%d)", argIdx, argIdx+1, argIdx+2),
			)
			valueArgs = append(valueArgs, rec.CountryISO3, rec.Year, rec.Value)
			argIdx += 3
		}

		sql := insertPrefix + strings.Join(valueStrings, ", ")
		result, err := l.operator.Pool().Exec(ctx, sql, valueArgs...)
		if err != nil {
			return LoadError(series, s.Table, err)
		}
		total += int(result.RowsAffected())
	}

	slog.Info("Loaded reference series",
		"series", series,
		"table", schema.RefSchema+"."+s.Table,
		"rows", humanize.Comma(int64(total)),
	)

	return nil
}
