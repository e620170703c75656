package summary

import (
	"fmt"

	"github.com/samber/lo"

	"olttstats/internal/errors"
)

// Category is a named set of stimulus object labels.
type Category struct {
	Name    string
	Labels  []string
	members map[string]struct{}
}

// NewCategory builds a category from its labels. Labels are kept verbatim.
func NewCategory(name string, labels []string) Category {
	members := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		members[l] = struct{}{}
	}
	return Category{
		Name:    name,
		Labels:  append([]string(nil), labels...),
		members: members,
	}
}

// Contains reports whether label belongs to the category.
func (c Category) Contains(label string) bool {
	_, ok := c.members[label]
	return ok
}

// CategorySet is the ordered list of categories a summary table is indexed by.
// The last entry is always the union of the others.
type CategorySet struct {
	categories []Category
}

// NewCategorySet validates groups and appends their union under unionName.
// Group names must be unique and non-empty, and no label may appear in two
// groups.
func NewCategorySet(groups []Category, unionName string) (CategorySet, error) {
	if len(groups) == 0 {
		return CategorySet{}, errors.NewInvalidArgumentError("category set needs at least one category")
	}
	if unionName == "" {
		return CategorySet{}, errors.NewInvalidArgumentError("union category name is empty")
	}

	seenNames := map[string]bool{unionName: true}
	owner := make(map[string]string)
	var union []string

	for _, g := range groups {
		if g.Name == "" {
			return CategorySet{}, errors.NewInvalidArgumentError("category name is empty")
		}
		if seenNames[g.Name] {
			return CategorySet{}, errors.NewInvalidArgumentError(fmt.Sprintf("duplicate category name %q", g.Name))
		}
		seenNames[g.Name] = true

		for _, l := range g.Labels {
			if prev, ok := owner[l]; ok && prev != g.Name {
				return CategorySet{}, errors.NewInvalidArgumentError(
					fmt.Sprintf("label %q is in both %q and %q", l, prev, g.Name))
			}
			owner[l] = g.Name
		}
		union = append(union, g.Labels...)
	}

	cats := make([]Category, 0, len(groups)+1)
	for _, g := range groups {
		cats = append(cats, NewCategory(g.Name, g.Labels))
	}
	cats = append(cats, NewCategory(unionName, lo.Uniq(union)))

	return CategorySet{categories: cats}, nil
}

// Categories returns the categories in output order, union last.
func (s CategorySet) Categories() []Category {
	return s.categories
}

// Names returns the category names in output order.
func (s CategorySet) Names() []string {
	return lo.Map(s.categories, func(c Category, _ int) string { return c.Name })
}

// Len returns the number of categories including the union.
func (s CategorySet) Len() int {
	return len(s.categories)
}
