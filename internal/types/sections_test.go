package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionKeys_OrderAndLabels(t *testing.T) {
	keys := SectionKeys()
	require.Len(t, keys, 7)

	assert.Equal(t, SectionNecessity, keys[0])
	assert.Equal(t, SectionEffects, keys[6])

	// Every key has a numbered Korean label.
	assert.Equal(t, "1. 사업 필요성", SectionNecessity.Label())
	assert.Equal(t, "7. 기대 효과", SectionEffects.Label())
	for _, key := range keys {
		assert.NotEmpty(t, key.Label())
	}
}

func TestParseSectionKey(t *testing.T) {
	key, err := ParseSectionKey("budget")
	require.NoError(t, err)
	assert.Equal(t, SectionBudget, key)

	_, err = ParseSectionKey("conclusion")
	assert.Error(t, err)

	_, err = ParseSectionKey("")
	assert.Error(t, err)
}

func TestSections_Clone(t *testing.T) {
	orig := NewSections()
	orig[SectionNecessity] = "원본"

	clone := orig.Clone()
	clone[SectionNecessity] = "수정본"
	clone[SectionBudget] = "예산"

	assert.Equal(t, "원본", orig[SectionNecessity])
	assert.Empty(t, orig[SectionBudget])
}

func TestSections_IsEmpty(t *testing.T) {
	s := NewSections()
	assert.True(t, s.IsEmpty())

	s[SectionContent] = "   \n\t"
	assert.True(t, s.IsEmpty(), "whitespace-only sections count as empty")

	s[SectionContent] = "프로그램 운영"
	assert.False(t, s.IsEmpty())
}
