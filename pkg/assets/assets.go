// Package assets provides the assets.yaml registry that maps asset
// classes to their dataset files for batch ingestion. The registry is
// an ingestion convenience only: once loaded, asset-class membership
// lives in the database as raw tables.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Registry represents the complete assets.yaml configuration file.
type Registry struct {
	// AssetClasses is the list of asset classes to ingest.
	AssetClasses []AssetClass `yaml:"asset_classes"`
}

// AssetClass is one named category of projects and its dataset files.
type AssetClass struct {
	// Name is the asset class name, e.g. "rail" or "port". It
	// becomes the staged table name.
	Name string `yaml:"name"`

	// Verified selects the raw_verified or raw_unverified schema.
	Verified bool `yaml:"verified"`

	// Datasets are the files to load, one raw table each.
	Datasets []Dataset `yaml:"datasets"`
}

// Dataset is one dataset file of an asset class.
type Dataset struct {
	// File is the path to the CSV file (required).
	File string `yaml:"file"`

	// Name overrides the dataset name; defaults to the file name
	// without extension.
	Name string `yaml:"name,omitempty"`
}

// TableName returns the dataset's raw table name.
func (d Dataset) TableName() string {
	name := d.Name
	if name == "" {
		base := filepath.Base(d.File)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return name
}

// Load reads and validates an assets.yaml registry.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read assets registry %s: %w", path, err)
	}
	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("cannot parse assets registry %s: %w", path, err)
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Validate checks the registry for structural problems.
func (r *Registry) Validate() error {
	seen := make(map[string]struct{})
	for i, ac := range r.AssetClasses {
		if strings.TrimSpace(ac.Name) == "" {
			return fmt.Errorf("asset class %d has no name", i)
		}
		key := fmt.Sprintf("%s/%v", ac.Name, ac.Verified)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate asset class %q", ac.Name)
		}
		seen[key] = struct{}{}
		for j, ds := range ac.Datasets {
			if strings.TrimSpace(ds.File) == "" {
				return fmt.Errorf(
					"asset class %q dataset %d has no file", ac.Name, j,
				)
			}
		}
	}
	return nil
}

// ByName returns the asset class with the given name and verification
// status.
func (r *Registry) ByName(name string, verified bool) (AssetClass, bool) {
	for _, ac := range r.AssetClasses {
		if ac.Name == name && ac.Verified == verified {
			return ac, true
		}
	}
	return AssetClass{}, false
}
