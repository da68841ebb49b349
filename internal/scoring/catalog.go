package scoring

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// DefaultLocale is used whenever a requested locale is missing.
const DefaultLocale = "en"

//go:embed catalog.json
var defaultCatalogJSON []byte

type quadrantText struct {
	Title       string `json:"title"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

type localeText struct {
	Quadrants       map[string]quadrantText `json:"quadrants"`
	Recommendations map[string]string       `json:"recommendations"`
	Models          map[string]string       `json:"models"`
}

// Catalog holds the display text for quadrants, recommendations and models
// per locale.
type Catalog struct {
	locales map[string]localeText
}

var defaultCatalog = mustParseCatalog(defaultCatalogJSON)

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

// NewCatalog loads a catalog from the JSON file at path. Entries in the file
// override the embedded text of the same locale key by key; everything the
// file leaves out keeps its embedded value.
func NewCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	loaded, err := parseCatalog(data)
	if err != nil {
		return nil, err
	}
	merged := &Catalog{locales: make(map[string]localeText, len(defaultCatalog.locales)+len(loaded.locales))}
	for k, v := range defaultCatalog.locales {
		merged.locales[k] = v
	}
	for k, v := range loaded.locales {
		merged.locales[k] = mergeLocale(merged.locales[k], v)
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

func mergeLocale(base, override localeText) localeText {
	out := localeText{
		Quadrants:       make(map[string]quadrantText, len(base.Quadrants)+len(override.Quadrants)),
		Recommendations: make(map[string]string, len(base.Recommendations)+len(override.Recommendations)),
		Models:          make(map[string]string, len(base.Models)+len(override.Models)),
	}
	for k, v := range base.Quadrants {
		out.Quadrants[k] = v
	}
	for k, v := range override.Quadrants {
		out.Quadrants[k] = v
	}
	for k, v := range base.Recommendations {
		out.Recommendations[k] = v
	}
	for k, v := range override.Recommendations {
		out.Recommendations[k] = v
	}
	for k, v := range base.Models {
		out.Models[k] = v
	}
	for k, v := range override.Models {
		out.Models[k] = v
	}
	return out
}

func parseCatalog(data []byte) (*Catalog, error) {
	var raw map[string]localeText
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}
	locales := make(map[string]localeText, len(raw))
	for k, v := range raw {
		key := normalizeLocale(k)
		if key == "" {
			continue
		}
		locales[key] = v
	}
	return &Catalog{locales: locales}, nil
}

func mustParseCatalog(data []byte) *Catalog {
	c, err := parseCatalog(data)
	if err != nil {
		panic(err)
	}
	if err := c.Validate(); err != nil {
		panic(err)
	}
	return c
}

// Validate ensures every locale describes all four quadrants and that the
// default locale exists with every recommendation and model text, since
// other locales fall back to it.
func (c *Catalog) Validate() error {
	if c == nil {
		return errors.New("catalog is nil")
	}
	if _, ok := c.locales[DefaultLocale]; !ok {
		return fmt.Errorf("catalog missing default locale %q", DefaultLocale)
	}
	base := c.locales[DefaultLocale]
	for _, r := range []Recommendation{PreferSafe, PreferRisky, Equivalent} {
		if strings.TrimSpace(base.Recommendations[string(r)]) == "" {
			return fmt.Errorf("catalog locale %q missing recommendation %s", DefaultLocale, r)
		}
	}
	for _, m := range Models() {
		if strings.TrimSpace(base.Models[string(m)]) == "" {
			return fmt.Errorf("catalog locale %q missing model %s", DefaultLocale, m)
		}
	}
	for name, loc := range c.locales {
		for _, q := range Quadrants() {
			text, ok := loc.Quadrants[strconv.Itoa(int(q))]
			if !ok || strings.TrimSpace(text.Label) == "" {
				return fmt.Errorf("catalog locale %q missing quadrant %d", name, q)
			}
		}
	}
	return nil
}

// Locales returns the available locale codes, sorted.
func (c *Catalog) Locales() []string {
	out := make([]string, 0, len(c.locales))
	for k := range c.locales {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// HasLocale reports whether the catalog carries text for locale.
func (c *Catalog) HasLocale(locale string) bool {
	_, ok := c.locales[normalizeLocale(locale)]
	return ok
}

func (c *Catalog) locale(locale string) localeText {
	if c == nil {
		c = defaultCatalog
	}
	if loc, ok := c.locales[normalizeLocale(locale)]; ok {
		return loc
	}
	return c.locales[DefaultLocale]
}

// Classify maps a scenario and risk probability to its quadrant, using the
// locale's text.
func (c *Catalog) Classify(scenario Scenario, riskProbability float64, locale string) QuadrantResult {
	q := quadrantFor(scenario, riskProbability)
	return c.Describe(q, locale)
}

// Describe returns the text of a quadrant in the given locale.
func (c *Catalog) Describe(q Quadrant, locale string) QuadrantResult {
	text := c.locale(locale).Quadrants[strconv.Itoa(int(q))]
	if text.Label == "" && normalizeLocale(locale) != DefaultLocale {
		text = c.locale(DefaultLocale).Quadrants[strconv.Itoa(int(q))]
	}
	return QuadrantResult{
		Quadrant:        q,
		Title:           text.Title,
		BiasLabel:       text.Label,
		BiasDescription: text.Description,
	}
}

// RecommendationText returns the human-readable verdict.
func (c *Catalog) RecommendationText(r Recommendation, locale string) string {
	if text := c.locale(locale).Recommendations[string(r)]; text != "" {
		return text
	}
	if text := c.locale(DefaultLocale).Recommendations[string(r)]; text != "" {
		return text
	}
	return string(r)
}

// ModelText describes the comparison model.
func (c *Catalog) ModelText(m ComparisonModel, locale string) string {
	key := string(m.Normalize())
	if text := c.locale(locale).Models[key]; text != "" {
		return text
	}
	if text := c.locale(DefaultLocale).Models[key]; text != "" {
		return text
	}
	return key
}

func normalizeLocale(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if idx := strings.IndexAny(locale, "-_"); idx > 0 {
		locale = locale[:idx]
	}
	return locale
}
