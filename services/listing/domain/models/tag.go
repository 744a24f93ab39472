package models

import (
	"sort"

	"github.com/google/uuid"
)

// TagCategory groups the fixed tag vocabulary.
type TagCategory string

const (
	TagCategoryDietary       TagCategory = "dietary"
	TagCategoryAllergenFree  TagCategory = "allergen_free"
	TagCategorySourcing      TagCategory = "sourcing"
	TagCategoryCertification TagCategory = "certification"
	TagCategoryOther         TagCategory = "other"
)

// Tag is a stored label from the fixed vocabulary.
type Tag struct {
	ID       uuid.UUID
	Name     string
	Category TagCategory
}

// VocabularyEntry is one name of the fixed tag vocabulary.
type VocabularyEntry struct {
	Name     string      `json:"name"`
	Category TagCategory `json:"category"`
}

// vocabulary is seeded into the tags table by migration; keep both in sync.
var vocabulary = []VocabularyEntry{
	{"Vegan", TagCategoryDietary},
	{"Vegetarian", TagCategoryDietary},
	{"Pescatarian", TagCategoryDietary},
	{"Keto", TagCategoryDietary},
	{"Paleo", TagCategoryDietary},
	{"Low Carb", TagCategoryDietary},
	{"Low Fat", TagCategoryDietary},
	{"High Protein", TagCategoryDietary},

	{"Gluten Free", TagCategoryAllergenFree},
	{"Dairy Free", TagCategoryAllergenFree},
	{"Lactose Free", TagCategoryAllergenFree},
	{"Nut Free", TagCategoryAllergenFree},
	{"Peanut Free", TagCategoryAllergenFree},
	{"Tree Nut Free", TagCategoryAllergenFree},
	{"Egg Free", TagCategoryAllergenFree},
	{"Soy Free", TagCategoryAllergenFree},
	{"Sesame Free", TagCategoryAllergenFree},
	{"Shellfish Free", TagCategoryAllergenFree},
	{"Fish Free", TagCategoryAllergenFree},

	{"Organic", TagCategorySourcing},
	{"Non-GMO", TagCategorySourcing},
	{"Locally Sourced", TagCategorySourcing},
	{"Seasonal", TagCategorySourcing},

	{"Kosher", TagCategoryCertification},
	{"Halal", TagCategoryCertification},

	{"No Added Sugar", TagCategoryOther},
	{"Sugar Free", TagCategoryOther},
	{"Spicy", TagCategoryOther},
	{"Mild", TagCategoryOther},
	{"Kids Menu", TagCategoryOther},
	{"Contains Alcohol", TagCategoryOther},
}

// Vocabulary returns the fixed tag vocabulary in display order.
func Vocabulary() []VocabularyEntry {
	return append([]VocabularyEntry(nil), vocabulary...)
}

// TagSet is the set of tag names selected for an item.
type TagSet map[string]struct{}

// NewTagSet returns a set holding names.
func NewTagSet(names ...string) TagSet {
	s := make(TagSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Toggle adds name when on is true and removes it otherwise.
func (s TagSet) Toggle(name string, on bool) {
	if on {
		s[name] = struct{}{}
		return
	}
	delete(s, name)
}

// Contains reports whether name is selected.
func (s TagSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the selected names sorted.
func (s TagSet) Names() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
