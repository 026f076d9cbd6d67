package rubric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/proposal-assistant/internal/types"
)

func TestCategories_Shape(t *testing.T) {
	cats := Categories()
	require.Len(t, cats, CategoryCount())

	total := 0
	for ci, cat := range cats {
		assert.NotEmpty(t, cat.Name)
		assert.NotEmpty(t, cat.Items, "category %d has no items", ci)
		total += len(cat.Items)

		sections := SectionsFor(ci)
		assert.NotEmpty(t, sections, "category %d maps to no sections", ci)
		for _, key := range sections {
			assert.True(t, key.Valid(), "category %d maps to unknown section %q", ci, key)
		}
	}
	assert.Equal(t, total, TotalItems())
}

func TestCriterion_Lookup(t *testing.T) {
	text, ok := Criterion(types.CriterionKey{Category: 0, Item: 0})
	require.True(t, ok)
	assert.Equal(t, Categories()[0].Items[0], text)

	_, ok = Criterion(types.CriterionKey{Category: CategoryCount(), Item: 0})
	assert.False(t, ok)

	_, ok = Criterion(types.CriterionKey{Category: 0, Item: 99})
	assert.False(t, ok)
}

func TestSectionsFor_OutOfRange(t *testing.T) {
	assert.Nil(t, SectionsFor(-1))
	assert.Nil(t, SectionsFor(CategoryCount()))
}

func TestGuideFor_AllSections(t *testing.T) {
	for _, key := range types.SectionKeys() {
		guide := GuideFor(key)
		assert.NotEmpty(t, guide.Points, "section %s has no writing points", key)
		assert.NotEmpty(t, guide.Mistakes, "section %s has no common mistakes", key)
	}
}
