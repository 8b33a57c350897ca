package analyzer

import (
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// defaultReferencePrices is the built-in name→estimated-value table (USD)
// used to appraise watches a client already owns. A boutique can override
// it with a YAML catalog file.
var defaultReferencePrices = map[string]int{
	"rolex submariner":          15000,
	"rolex daytona":             30000,
	"rolex gmt":                 12000,
	"patek philippe nautilus":   130000,
	"patek philippe calatrava":  25000,
	"audemars piguet royal oak": 50000,
	"omega speedmaster":         7000,
	"cartier tank":              6000,
	"tag heuer carrera":         5500,
	"breitling navitimer":       4500,
	"iwc pilot":                 8000,
	"panerai luminor":           9000,
}

// Catalog is a static name→estimated-value lookup for owned-watch
// appraisal. Matching is a case-insensitive substring check against the
// catalog keys.
type Catalog struct {
	prices map[string]int
	keys   []string // sorted for deterministic matching
}

// NewCatalog builds a catalog from the given price table.
func NewCatalog(prices map[string]int) *Catalog {
	c := &Catalog{prices: make(map[string]int, len(prices))}
	for name, price := range prices {
		key := strings.ToLower(strings.TrimSpace(name))
		c.prices[key] = price
		c.keys = append(c.keys, key)
	}
	sort.Strings(c.keys)
	return c
}

// DefaultCatalog returns the built-in reference price catalog.
func DefaultCatalog() *Catalog {
	return NewCatalog(defaultReferencePrices)
}

// LoadCatalog reads a YAML catalog file of model name → value (USD).
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "analyzer: read catalog %s", path)
	}
	var prices map[string]int
	if err := yaml.Unmarshal(data, &prices); err != nil {
		return nil, eris.Wrapf(err, "analyzer: parse catalog %s", path)
	}
	return NewCatalog(prices), nil
}

// Lookup returns the estimated value for a watch name, matching catalog
// keys as case-insensitive substrings.
func (c *Catalog) Lookup(name string) (int, bool) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for _, key := range c.keys {
		if strings.Contains(normalized, key) {
			return c.prices[key], true
		}
	}
	return 0, false
}

// Appraise sums the estimated value of the given owned watches. Unmatched
// names are logged and silently excluded from the sum.
func (c *Catalog) Appraise(watches []string) int {
	total := 0
	for _, w := range watches {
		value, ok := c.Lookup(w)
		if !ok {
			zap.L().Warn("analyzer: no reference price for watch",
				zap.String("watch", w),
			)
			continue
		}
		zap.L().Debug("analyzer: appraised watch",
			zap.String("watch", w),
			zap.Int("value_usd", value),
		)
		total += value
	}
	return total
}
