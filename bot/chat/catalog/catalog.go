// Package catalog holds the option taxonomy walked by the shop waterfall:
// category → subcategory → item → detail card.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"ShopBot/bot/chat"
	"ShopBot/entity"
	"ShopBot/internal/lib/validate"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Level is a depth of the taxonomy.
type Level string

const (
	LevelRoot        Level = "root"
	LevelSubcategory Level = "subcategory"
	LevelItem        Level = "item"
	LevelDetail      Level = "detail"
)

// Catalog maps a branch key chosen at one level to the options of the next.
// It is read-only once loaded and safe for concurrent use.
type Catalog struct {
	RootOptions   chat.OptionSet                `json:"root" yaml:"root" validate:"required,min=1,dive"`
	Subcategories map[string]chat.OptionSet     `json:"subcategories" yaml:"subcategories" validate:"required,dive,min=1,dive"`
	Items         map[string]chat.OptionSet     `json:"items" yaml:"items" validate:"required,dive,min=1,dive"`
	Details       map[string]entity.ProductCard `json:"details" yaml:"details" validate:"required,dive"`
	ActionOptions chat.OptionSet                `json:"actions" yaml:"actions" validate:"required,min=1,dive"`
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

// LoadFile reads a catalog from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes and validates a YAML catalog. Structural defects are
// reported here; coverage gaps are reported by Verify.
func Load(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &c, nil
}

// Root returns the top-level options.
func (c *Catalog) Root() chat.OptionSet {
	return c.RootOptions
}

// Actions returns the fixed options offered with a detail card.
func (c *Catalog) Actions() chat.OptionSet {
	return c.ActionOptions
}

// Lookup returns the options offered after key was chosen one level above.
// A key without entry is a CatalogMiscoverageError.
func (c *Catalog) Lookup(level Level, key string) (chat.OptionSet, error) {
	var (
		set chat.OptionSet
		ok  bool
	)
	switch level {
	case LevelRoot:
		set, ok = c.RootOptions, true
	case LevelSubcategory:
		set, ok = c.Subcategories[key]
	case LevelItem:
		set, ok = c.Items[key]
	default:
		return nil, fmt.Errorf("lookup of options at level %s", level)
	}
	if !ok || len(set) == 0 {
		return nil, &chat.CatalogMiscoverageError{Level: string(level), Key: key}
	}
	return set, nil
}

// Detail returns the detail card of an item.
func (c *Catalog) Detail(key string) (entity.ProductCard, error) {
	card, ok := c.Details[key]
	if !ok {
		return entity.ProductCard{}, &chat.CatalogMiscoverageError{Level: string(LevelDetail), Key: key}
	}
	return card, nil
}

// Verify walks every path of the taxonomy and returns all keys that are
// offered at one level but missing at the next.
func (c *Catalog) Verify() error {
	var errs []error
	for _, root := range c.RootOptions {
		subs, err := c.Lookup(LevelSubcategory, root.Label)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, sub := range subs {
			items, err := c.Lookup(LevelItem, sub.Label)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			for _, item := range items {
				if _, err := c.Detail(item.Label); err != nil {
					errs = append(errs, err)
				}
			}
		}
	}
	return errors.Join(errs...)
}

// Stats counts the entries of each level.
type Stats struct {
	Root          int `json:"root"`
	Subcategories int `json:"subcategories"`
	Items         int `json:"items"`
	Details       int `json:"details"`
}

// Stats returns entry counts for reporting.
func (c *Catalog) Stats() Stats {
	return Stats{
		Root:          len(c.RootOptions),
		Subcategories: len(c.Subcategories),
		Items:         len(c.Items),
		Details:       len(c.Details),
	}
}
