package ioref_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/projbank/pbdb/internal/ioref"
	"github.com/projbank/pbdb/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(apiURL string) *config.Config {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptReferenceAPIURL(apiURL),
		config.OptReferencePageSize(100),
	})
	return cfg
}

func TestFetch(t *testing.T) {
	pages := map[string]string{
		"1": `[
		  {"page": 1, "pages": 2, "total": 5},
		  [
		    {"countryiso3code": "BRA", "date": "2020", "value": 5.16},
		    {"countryiso3code": "BRA", "date": "2019", "value": null}
		  ]
		]`,
		"2": `[
		  {"page": 2, "pages": 2, "total": 5},
		  [
		    {"countryiso3code": "", "date": "2020", "value": 1.0},
		    {"countryiso3code": "WLD", "date": "2020", "value": 3.1},
		    {"countryiso3code": "USA", "date": "2020", "value": 1.0}
		  ]
		]`,
	}

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t,
				"/country/all/indicator/PA.NUS.FCRF", r.URL.Path)
			assert.Equal(t, "json", r.URL.Query().Get("format"))
			assert.Equal(t, "100", r.URL.Query().Get("per_page"))
			fmt.Fprint(w, pages[r.URL.Query().Get("page")])
		},
	))
	defer srv.Close()

	loader := ioref.NewLoader(nil, testConfig(srv.URL))

	recs, err := loader.Fetch(context.Background(), "fx")
	require.NoError(t, err)

	// Null values and rows without a country code are skipped.
	// Named aggregates with three-letter codes are kept.
	require.Len(t, recs, 3)
	assert.Equal(t, "BRA", recs[0].CountryISO3)
	assert.Equal(t, 2020, recs[0].Year)
	assert.Equal(t, 5.16, recs[0].Value)
	assert.Equal(t, "WLD", recs[1].CountryISO3)
	assert.Equal(t, "USA", recs[2].CountryISO3)
}

func TestFetch_UnknownSeries(t *testing.T) {
	loader := ioref.NewLoader(nil, config.New())
	_, err := loader.Fetch(context.Background(), "cpi")
	assert.Error(t, err)
}

func TestFetch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		},
	))
	defer srv.Close()

	loader := ioref.NewLoader(nil, testConfig(srv.URL))
	_, err := loader.Fetch(context.Background(), "fx")
	assert.Error(t, err)
}

func TestFetch_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"message": "not the expected array"}`)
		},
	))
	defer srv.Close()

	loader := ioref.NewLoader(nil, testConfig(srv.URL))
	_, err := loader.Fetch(context.Background(), "deflator")
	assert.Error(t, err)
}

func TestLoad_UnknownSeries(t *testing.T) {
	loader := ioref.NewLoader(nil, config.New())
	err := loader.Load(context.Background(), "cpi", nil)
	assert.Error(t, err)
}
