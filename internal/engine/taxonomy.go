package engine

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/cellarkeep/cellar-cli/internal/model"
)

//go:embed taxonomy.yaml
var taxonomyYAML []byte

// AttrRange is a closed [min,max] interval on the 1-5 flavor scale.
type AttrRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Contains reports whether v falls inside the interval, inclusive.
func (r AttrRange) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// IdealRanges maps the four flavor attributes of a dish category to their
// acceptable intervals.
type IdealRanges struct {
	Body      AttrRange `yaml:"body"`
	Acidity   AttrRange `yaml:"acidity"`
	Tannins   AttrRange `yaml:"tannins"`
	Sweetness AttrRange `yaml:"sweetness"`
}

// DishCategory is one entry of the fixed dish taxonomy. Membership is by
// keyword: a dish belongs to the category when any member keyword appears
// in its name.
type DishCategory struct {
	ID      string      `yaml:"id"`
	Members []string    `yaml:"members"`
	Ideal   IdealRanges `yaml:"ideal"`
}

// Occasion is a keyword/category pre-filter applied before recommendation
// scoring.
type Occasion struct {
	ID         string           `yaml:"id"`
	Keywords   []string         `yaml:"keywords"`
	Categories []model.Category `yaml:"categories"`
}

// Taxonomy is the static, versioned configuration table backing the dish
// pairing and occasion filters. It is data, not user input.
type Taxonomy struct {
	Version    int            `yaml:"version"`
	Categories []DishCategory `yaml:"categories"`
	Occasions  []Occasion     `yaml:"occasions"`
}

// LoadTaxonomy parses and validates the embedded taxonomy table.
func LoadTaxonomy() (*Taxonomy, error) {
	var tax Taxonomy
	if err := yaml.Unmarshal(taxonomyYAML, &tax); err != nil {
		return nil, eris.Wrap(err, "engine: parse taxonomy")
	}
	if err := tax.validate(); err != nil {
		return nil, err
	}
	return &tax, nil
}

func (t *Taxonomy) validate() error {
	if len(t.Categories) == 0 {
		return eris.New("engine: taxonomy has no dish categories")
	}
	for _, cat := range t.Categories {
		if cat.ID == "" {
			return eris.New("engine: taxonomy category without id")
		}
		if len(cat.Members) == 0 {
			return eris.Errorf("engine: taxonomy category %s has no members", cat.ID)
		}
		ranges := map[string]AttrRange{
			"body":      cat.Ideal.Body,
			"acidity":   cat.Ideal.Acidity,
			"tannins":   cat.Ideal.Tannins,
			"sweetness": cat.Ideal.Sweetness,
		}
		for name, r := range ranges {
			if r.Min < 1 || r.Max > 5 || r.Min > r.Max {
				return eris.New(fmt.Sprintf("engine: taxonomy category %s has invalid %s range [%d,%d]", cat.ID, name, r.Min, r.Max))
			}
		}
	}
	for _, occ := range t.Occasions {
		if occ.ID == "" {
			return eris.New("engine: taxonomy occasion without id")
		}
	}
	return nil
}

// CategoriesForDish returns every dish category whose membership keywords
// match the dish name, in taxonomy order.
func (t *Taxonomy) CategoriesForDish(dish string) []DishCategory {
	lower := strings.ToLower(strings.TrimSpace(dish))
	if lower == "" {
		return nil
	}
	var matched []DishCategory
	for _, cat := range t.Categories {
		for _, member := range cat.Members {
			if strings.Contains(lower, member) || strings.Contains(member, lower) {
				matched = append(matched, cat)
				break
			}
		}
	}
	return matched
}

// OccasionByID looks up an occasion filter. Unknown ids return nil.
func (t *Taxonomy) OccasionByID(id string) *Occasion {
	for i := range t.Occasions {
		if t.Occasions[i].ID == id {
			return &t.Occasions[i]
		}
	}
	return nil
}

// Matches reports whether a beverage passes the occasion pre-filter: its
// category is listed for the occasion, or an occasion keyword appears in
// its name, type, or food pairings.
func (o *Occasion) Matches(b model.Beverage) bool {
	for _, c := range o.Categories {
		if b.Category == c {
			return true
		}
	}
	haystack := strings.ToLower(b.Name + " " + b.Type + " " + strings.Join(b.FoodPairings, " "))
	for _, kw := range o.Keywords {
		if strings.Contains(haystack, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
