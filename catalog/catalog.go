// Package catalog is the canonical table of mushroom categories: for every
// attribute it maps the raw dataset letter to the Turkish display label.
//
// Selection controls, the results table and the check command all read
// labels from here, keyed by raw value rather than by encoded code, so the
// labels follow whatever code order the encoder derives from the data.
package catalog

import (
	"sort"

	"github.com/YuminosukeSato/mantar/pkg/errors"
)

// Attribute column names used by the demo.
const (
	Class     = "class"
	GillSize  = "gill-size"
	GillColor = "gill-color"
)

// Outcome labels.
const (
	Poisonous = "Zehirli"
	Edible    = "Yenilebilir"
)

// Entry is one category of an attribute.
type Entry struct {
	Raw   string // letter as it appears in the CSV
	Label string // Turkish display label
	Name  string // English name from the dataset documentation
}

// Attribute holds the categories of one column.
type Attribute struct {
	Column  string
	Label   string
	Entries []Entry
}

var attributes = map[string]*Attribute{
	Class: {
		Column: Class,
		Label:  "Sınıf",
		Entries: []Entry{
			{"e", Edible, "edible"},
			{"p", Poisonous, "poisonous"},
		},
	},
	GillSize: {
		Column: GillSize,
		Label:  "Solungaç Boyutu",
		Entries: []Entry{
			{"b", "Geniş", "broad"},
			{"n", "Dar", "narrow"},
		},
	},
	GillColor: {
		Column: GillColor,
		Label:  "Solungaç Rengi",
		Entries: []Entry{
			{"k", "Siyah", "black"},
			{"n", "Kahverengi", "brown"},
			{"b", "Devetüyü", "buff"},
			{"h", "Çikolata", "chocolate"},
			{"g", "Gri", "gray"},
			{"r", "Yeşil", "green"},
			{"o", "Turuncu", "orange"},
			{"p", "Pembe", "pink"},
			{"u", "Mor", "purple"},
			{"e", "Kırmızı", "red"},
			{"w", "Beyaz", "white"},
			{"y", "Sarı", "yellow"},
		},
	},
}

// column headers for the sample table
var columnLabels = map[string]string{
	"cap-shape":                "Şapka Şekli",
	"cap-surface":              "Şapka Yüzeyi",
	"cap-color":                "Şapka Rengi",
	"bruises":                  "Morarma",
	"odor":                     "Koku",
	"gill-attachment":          "Solungaç Bağlantısı",
	"gill-spacing":             "Solungaç Aralığı",
	"stalk-shape":              "Sap Şekli",
	"stalk-root":               "Sap Kökü",
	"stalk-surface-above-ring": "Halka Üstü Sap Yüzeyi",
	"stalk-surface-below-ring": "Halka Altı Sap Yüzeyi",
	"stalk-color-above-ring":   "Halka Üstü Sap Rengi",
	"stalk-color-below-ring":   "Halka Altı Sap Rengi",
	"veil-type":                "Örtü Tipi",
	"veil-color":               "Örtü Rengi",
	"ring-number":              "Halka Sayısı",
	"ring-type":                "Halka Tipi",
	"spore-print-color":        "Spor İzi Rengi",
	"population":               "Popülasyon",
	"habitat":                  "Yaşam Alanı",
}

// Lookup returns the attribute for a column.
func Lookup(column string) (*Attribute, bool) {
	a, ok := attributes[column]
	return a, ok
}

// Columns returns the catalogued columns, sorted.
func Columns() []string {
	out := make([]string, 0, len(attributes))
	for c := range attributes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Entry returns the entry for a raw value.
func (a *Attribute) Entry(raw string) (Entry, bool) {
	for _, e := range a.Entries {
		if e.Raw == raw {
			return e, true
		}
	}
	return Entry{}, false
}

// Display returns the display label of raw, or raw itself when unknown.
func (a *Attribute) Display(raw string) string {
	if e, ok := a.Entry(raw); ok {
		return e.Label
	}
	return raw
}

// Label is the package-level form of Attribute.Display.
func Label(column, raw string) string {
	a, ok := attributes[column]
	if !ok {
		return raw
	}
	return a.Display(raw)
}

// ColumnLabel returns the Turkish header of a dataset column.
func ColumnLabel(column string) string {
	if a, ok := attributes[column]; ok {
		return a.Label
	}
	if l, ok := columnLabels[column]; ok {
		return l
	}
	return column
}

// Drift compares the classes an encoder derived for column against the
// catalog. missing are classes without a label; unused are catalog entries
// the data never produced. Both follow the input and catalog order.
func Drift(column string, classes []string) (missing, unused []string) {
	a, ok := attributes[column]
	if !ok {
		return append([]string(nil), classes...), nil
	}
	seen := make(map[string]bool, len(classes))
	for _, c := range classes {
		seen[c] = true
		if _, ok := a.Entry(c); !ok {
			missing = append(missing, c)
		}
	}
	for _, e := range a.Entries {
		if !seen[e.Raw] {
			unused = append(unused, e.Raw)
		}
	}
	return missing, unused
}

// Check returns a CategoryDriftWarning when classes and the catalog
// disagree, or nil. Unused entries alone are not reported: a small dataset
// need not contain every category.
func Check(column string, classes []string) *errors.CategoryDriftWarning {
	missing, unused := Drift(column, classes)
	if len(missing) == 0 {
		return nil
	}
	return errors.NewCategoryDriftWarning(column, missing, unused)
}
