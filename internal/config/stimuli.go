package config

import (
	"github.com/samber/lo"

	"olttstats/internal/summary"
)

// StimulusCategory names one group of object labels.
type StimulusCategory struct {
	Name   string   `yaml:"name" validate:"required"`
	Labels []string `yaml:"labels" validate:"min=1"`
}

// StimuliConfig maps category names to their object labels. Categories are
// listed in summary-table row order; the union row is appended after them.
type StimuliConfig struct {
	Categories []StimulusCategory `yaml:"categories" validate:"min=1,dive"`
	UnionName  string             `yaml:"union_name" validate:"required"`
}

// CategorySet converts the configuration into the aggregator's category set,
// rejecting overlapping label lists.
func (s StimuliConfig) CategorySet() (summary.CategorySet, error) {
	groups := lo.Map(s.Categories, func(c StimulusCategory, _ int) summary.Category {
		return summary.NewCategory(c.Name, c.Labels)
	})
	return summary.NewCategorySet(groups, s.UnionName)
}

// DefaultStimuli returns the OLTT set 11a stimulus lists. Labels keep the
// leading space the task exports write in front of each value.
func DefaultStimuli() StimuliConfig {
	return StimuliConfig{
		Categories: []StimulusCategory{
			{
				Name: "target",
				Labels: []string{
					" dustpan", " clothespins", " wig", " cards", " mugs", " thread", " camcorder", " curler",
					" lotion", " radio", " pie", " plates", " purse", " money", " decanter",
				},
			},
			{
				Name:   "repeated",
				Labels: []string{" pillow", " measuringcups"},
			},
			{
				Name: "foil",
				Labels: []string{
					" boot", " nuts", " silverware", " apples", " tweezers", " dvd", " detergent", " darts",
					" pens", " fabricsoftener", " pills", " skirt", " racket", " gift", " watch",
				},
			},
		},
		UnionName: "all",
	}
}
